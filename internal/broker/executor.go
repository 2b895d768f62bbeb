package broker

import (
	"github.com/google/uuid"

	"github.com/ahlstrom-labs/simbroker/internal/account"
	"github.com/ahlstrom-labs/simbroker/internal/logging"
	"github.com/ahlstrom-labs/simbroker/internal/position"
	"github.com/ahlstrom-labs/simbroker/internal/symbol"
	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

// Executor turns a BrokerAction into a BrokerResult against live account
// and symbol state. The simulation loop calls it synchronously from
// ActionComplete processing, so nothing here blocks or spawns goroutines
// (spec.md §4.3).
type Executor struct {
	Accounts *account.Registry
	Symbols  *symbol.Table
	Settings Settings
	Logger   logging.Logger
}

// NewExecutor constructs an Executor over a shared accounts registry and
// symbol table. A nil logger defaults to logging.Noop.
func NewExecutor(accounts *account.Registry, symbols *symbol.Table, settings Settings, logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.Noop{}
	}
	return &Executor{Accounts: accounts, Symbols: symbols, Settings: settings, Logger: logger}
}

// Execute dispatches action and returns its result. now is the
// broker-processed timestamp (the action's due time on the simulation
// queue, after the delay model has already been applied at enqueue time).
func (e *Executor) Execute(action wire.BrokerAction, now uint64) wire.BrokerResult {
	switch action.Kind {
	case wire.ActionPing:
		return wire.Ok(wire.Pong(now))
	case wire.ActionTrading:
		return e.executeTrading(action.AccountID, action.Trading, now)
	case wire.ActionDisconnect:
		return wire.Err(wire.NewUnimplementedError("disconnect"))
	default:
		return wire.Err(wire.NewUnimplementedError(string(action.Kind)))
	}
}

func (e *Executor) executeTrading(accountID uuid.UUID, action wire.TradingAction, now uint64) wire.BrokerResult {
	switch action.Kind {
	case wire.TradingMarketOrder:
		return e.executeMarketOrder(accountID, action, now)
	case wire.TradingMarketClose:
		return e.executeMarketClose(accountID, action, now)
	case wire.TradingModifyPosition:
		return e.executeModifyPosition(accountID, action, now)
	case wire.TradingLimitOrder:
		return wire.Err(wire.NewUnimplementedError("limit_order"))
	case wire.TradingLimitClose:
		return wire.Err(wire.NewUnimplementedError("limit_close"))
	default:
		return wire.Err(wire.NewUnimplementedError(string(action.Kind)))
	}
}

func (e *Executor) executeMarketOrder(accountID uuid.UUID, action wire.TradingAction, now uint64) wire.BrokerResult {
	sym, err := e.Symbols.ByName(action.Symbol)
	if err != nil {
		return wire.Err(err)
	}
	symbolIndex, err := e.Symbols.IndexOf(action.Symbol)
	if err != nil {
		return wire.Err(err)
	}

	acct, err := e.Accounts.Get(accountID)
	if err != nil {
		return wire.Err(err)
	}

	bid, ask, _ := sym.GetPrice()
	entry := position.EntryPrice(action.Long, bid, ask)
	executionTime := now + e.Settings.ExecutionDelayNS

	pos := position.Position{
		ID:             uuid.New(),
		CreationTime:   now,
		SymbolIndex:    symbolIndex,
		Size:           action.Size,
		Long:           action.Long,
		Stop:           action.Stop,
		TakeProfit:     action.TakeProfit,
		ExecutionTime:  &executionTime,
		ExecutionPrice: &entry,
	}

	if _, err := getPositionValue(e.Symbols, e.Settings, action.Symbol, sym.IsFX, action.Size); err != nil {
		return wire.Err(err)
	}

	msg, err := acct.Ledger.OpenPosition(pos.ID, pos)
	if err != nil {
		return wire.Err(err)
	}
	return wire.Ok(msg)
}

func (e *Executor) executeMarketClose(accountID uuid.UUID, action wire.TradingAction, now uint64) wire.BrokerResult {
	if action.Size == 0 {
		e.Logger.Warning(logging.TimestampString(now), "attempted to close 0 units of position %s", action.PositionID)
	}

	acct, err := e.Accounts.Get(accountID)
	if err != nil {
		return wire.Err(err)
	}

	open := acct.Ledger.Open()
	pos, ok := open[action.PositionID]
	if !ok {
		return wire.Err(wire.ErrNoSuchPosition)
	}

	sym, err := e.Symbols.ByIndex(pos.SymbolIndex)
	if err != nil {
		return wire.Err(err)
	}

	totalValue, err := getPositionValue(e.Symbols, e.Settings, sym.Name, sym.IsFX, pos.Size)
	if err != nil {
		return wire.Err(err)
	}
	var perUnit uint64
	if pos.Size > 0 {
		perUnit = totalValue / pos.Size
	}
	cost := perUnit * action.Size

	msg, err := acct.Ledger.ResizePosition(action.PositionID, -int64(action.Size), cost, now)
	if err != nil {
		return wire.Err(err)
	}
	return wire.Ok(msg)
}

func (e *Executor) executeModifyPosition(accountID uuid.UUID, action wire.TradingAction, now uint64) wire.BrokerResult {
	acct, err := e.Accounts.Get(accountID)
	if err != nil {
		return wire.Err(err)
	}
	msg, err := acct.Ledger.ModifyPosition(action.PositionID, action.Stop, action.TakeProfit, now)
	if err != nil {
		return wire.Err(err)
	}
	return wire.Ok(msg)
}
