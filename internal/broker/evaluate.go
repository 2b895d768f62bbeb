package broker

import (
	"github.com/ahlstrom-labs/simbroker/internal/account"
	"github.com/ahlstrom-labs/simbroker/internal/symbol"
	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

// Evaluator drives tick-triggered position promotion and automatic
// closure (spec.md §4.5). It is invoked by the simulation loop once per
// NewTick, after the ticked symbol's price has been updated.
type Evaluator struct {
	Accounts *account.Registry
	Symbols  *symbol.Table
	Settings Settings
}

// NewEvaluator constructs an Evaluator over shared accounts and symbols.
func NewEvaluator(accounts *account.Registry, symbols *symbol.Table, settings Settings) *Evaluator {
	return &Evaluator{Accounts: accounts, Symbols: symbols, Settings: settings}
}

// Evaluate checks every account's pending and open positions on
// symbolIndex against the new bid/ask, promoting pending fills and
// triggering stop-loss/take-profit closes. It returns the push
// notifications generated, in the order spec.md §4.5 processes them:
// pending promotions for this symbol first, then automatic closes.
func (e *Evaluator) Evaluate(symbolIndex int, bid, ask int64, now uint64) []wire.BrokerResult {
	var pushes []wire.BrokerResult

	sym, err := e.Symbols.ByIndex(symbolIndex)
	if err != nil {
		return pushes
	}

	for _, acct := range e.Accounts.All() {
		for id, pos := range acct.Ledger.Pending() {
			if pos.SymbolIndex != symbolIndex {
				continue
			}
			fillPrice := pos.IsOpenSatisfied(bid, ask)
			if fillPrice == nil {
				continue
			}
			msg, err := acct.Ledger.PromotePending(id, *fillPrice, now)
			if err != nil {
				continue
			}
			pushes = append(pushes, wire.Ok(msg))
		}

		for id, pos := range acct.Ledger.Open() {
			if pos.SymbolIndex != symbolIndex {
				continue
			}
			closePrice, reason, ok := pos.IsCloseSatisfied(bid, ask)
			if !ok {
				continue
			}

			value, err := getPositionValue(e.Symbols, e.Settings, sym.Name, sym.IsFX, pos.Size)
			if err != nil {
				continue
			}
			price := closePrice
			msg, err := acct.Ledger.ClosePosition(id, &price, value, now, reason)
			if err != nil {
				continue
			}
			pushes = append(pushes, wire.Ok(msg))
		}
	}

	return pushes
}
