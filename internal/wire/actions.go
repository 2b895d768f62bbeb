package wire

import "github.com/google/uuid"

// ActionKind distinguishes the variants of BrokerAction, and doubles as the
// key the delay model uses to look up per-action broker-processing delay.
type ActionKind string

// BrokerAction kinds.
const (
	ActionPing           ActionKind = "ping"
	ActionTrading        ActionKind = "trading"
	ActionDisconnect     ActionKind = "disconnect"
)

// TradingKind distinguishes the variants of TradingAction.
type TradingKind string

// TradingAction kinds.
const (
	TradingMarketOrder    TradingKind = "market_order"
	TradingMarketClose    TradingKind = "market_close"
	TradingLimitOrder     TradingKind = "limit_order"
	TradingLimitClose     TradingKind = "limit_close"
	TradingModifyPosition TradingKind = "modify_position"
)

// TradingAction is any action the platform can take against an account.
type TradingAction struct {
	Kind TradingKind

	// TradingMarketOrder
	Symbol     string
	Long       bool
	Size       uint64
	Stop       *int64
	TakeProfit *int64
	MaxRange   *float64 // accepted but unused — spec.md §9 open question 3

	// TradingMarketClose / TradingModifyPosition / TradingLimitClose
	PositionID uuid.UUID

	// TradingLimitOrder / TradingLimitClose
	EntryPrice *int64
	ExitPrice  *int64
}

// MarketOrder builds a TradingMarketOrder action.
func MarketOrder(symbol string, long bool, size uint64, stop, takeProfit *int64) TradingAction {
	return TradingAction{Kind: TradingMarketOrder, Symbol: symbol, Long: long, Size: size, Stop: stop, TakeProfit: takeProfit}
}

// MarketClose builds a TradingMarketClose action.
func MarketClose(positionID uuid.UUID, size uint64) TradingAction {
	return TradingAction{Kind: TradingMarketClose, PositionID: positionID, Size: size}
}

// ModifyPosition builds a TradingModifyPosition action.
func ModifyPosition(positionID uuid.UUID, stop, takeProfit *int64) TradingAction {
	return TradingAction{Kind: TradingModifyPosition, PositionID: positionID, Stop: stop, TakeProfit: takeProfit}
}

// BrokerAction is any action a client may submit to the broker.
type BrokerAction struct {
	Kind ActionKind

	// ActionTrading
	AccountID uuid.UUID
	Trading   TradingAction
}

// Ping builds an ActionPing action.
func Ping() BrokerAction { return BrokerAction{Kind: ActionPing} }

// Trading builds an ActionTrading action for the given account.
func Trading(accountID uuid.UUID, action TradingAction) BrokerAction {
	return BrokerAction{Kind: ActionTrading, AccountID: accountID, Trading: action}
}

// Disconnect builds an ActionDisconnect action. Reserved — spec.md §9
// open question 4; the executor always returns Unimplemented for it.
func Disconnect() BrokerAction { return BrokerAction{Kind: ActionDisconnect} }

// DelayKey returns the key the delay model uses to look up this action's
// broker-processing delay. Trading actions are keyed by their TradingKind
// so MarketOrder/MarketClose/ModifyPosition can each have distinct delays.
func (a BrokerAction) DelayKey() string {
	if a.Kind == ActionTrading {
		return string(a.Trading.Kind)
	}
	return string(a.Kind)
}
