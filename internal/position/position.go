// Package position defines the mutable position record and its lifecycle:
// pending -> open -> closed, driven entirely by which timestamp fields are
// set. No state regression is ever permitted.
package position

import (
	"github.com/google/uuid"
)

// ClosureReason explains why an open position was closed.
type ClosureReason string

// Closure reasons, matching the wire taxonomy.
const (
	ReasonStopLoss    ClosureReason = "stop_loss"
	ReasonTakeProfit  ClosureReason = "take_profit"
	ReasonMarginCall  ClosureReason = "margin_call"
	ReasonExpired     ClosureReason = "expired"
	ReasonFillOrKill  ClosureReason = "fill_or_kill"
	ReasonMarketClose ClosureReason = "market_close"
)

// Position is the platform's internal representation of a pending, open,
// or closed position.
type Position struct {
	ID            uuid.UUID
	CreationTime  uint64
	SymbolIndex   int
	Size          uint64
	IntendedPrice *int64 // set for pending (limit-entry) positions
	Long          bool
	Stop          *int64
	TakeProfit    *int64
	ExecutionTime *uint64
	ExecutionPrice *int64
	ExitTime      *uint64
	ExitPrice     *int64
	ClosureReason ClosureReason
}

// State reports the lifecycle state implied by the position's timestamps.
type State string

// Lifecycle states.
const (
	StatePending State = "pending"
	StateOpen    State = "open"
	StateClosed  State = "closed"
)

// CurrentState derives the position's lifecycle state from its fields, per
// spec: pending has no execution_time, open has execution_time but no
// exit_time, closed has exit_time.
func (p *Position) CurrentState() State {
	if p.ExitTime != nil {
		return StateClosed
	}
	if p.ExecutionTime != nil {
		return StateOpen
	}
	return StatePending
}

// IsOpenSatisfied returns the fill price at which this pending position
// would execute given the current bid/ask, or nil if conditions aren't
// met. Only valid for pending positions (execution_price unset).
//
// Long positions fill at ask when ask <= intended price; short positions
// fill at bid when bid >= intended price.
func (p *Position) IsOpenSatisfied(bid, ask int64) *int64 {
	if p.IntendedPrice == nil {
		panic("position: IsOpenSatisfied called without an intended price")
	}
	if p.ExecutionPrice != nil {
		panic("position: IsOpenSatisfied called on an already-executed position")
	}

	target := *p.IntendedPrice
	if p.Long {
		if ask <= target {
			fill := ask
			return &fill
		}
		return nil
	}
	if bid >= target {
		fill := bid
		return &fill
	}
	return nil
}

// IsCloseSatisfied returns the close price and reason at which this open
// position would close given the current bid/ask, or ok=false if neither
// the stop nor the take-profit condition is met. Stop wins when both trigger
// on the same tick. Only valid for open positions.
func (p *Position) IsCloseSatisfied(bid, ask int64) (price int64, reason ClosureReason, ok bool) {
	if p.ExecutionPrice == nil {
		panic("position: IsCloseSatisfied called on a position that was never opened")
	}
	if p.ExitPrice != nil {
		panic("position: IsCloseSatisfied called on an already-closed position")
	}

	if p.Long {
		if p.Stop != nil && bid <= *p.Stop {
			return bid, ReasonStopLoss, true
		}
		if p.TakeProfit != nil && ask >= *p.TakeProfit {
			return ask, ReasonTakeProfit, true
		}
		return 0, "", false
	}

	// short
	if p.Stop != nil && ask >= *p.Stop {
		return ask, ReasonStopLoss, true
	}
	if p.TakeProfit != nil && bid <= *p.TakeProfit {
		return bid, ReasonTakeProfit, true
	}
	return 0, "", false
}

// EntryPrice returns the ask if long, bid if short — the price a market
// order fills at immediately.
func EntryPrice(long bool, bid, ask int64) int64 {
	if long {
		return ask
	}
	return bid
}
