// Package ledger implements the per-account balance and position
// bookkeeping described in spec.md §4.2: three disjoint position maps
// (pending, open, closed) and the four balance-affecting operations. Every
// operation either mutates state and returns a success message, or fails
// and leaves state untouched — errors are data, never control-flow
// exceptions, per spec.md §7.
package ledger

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ahlstrom-labs/simbroker/internal/position"
	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

// Ledger holds one account's balance and position collections. Safe for
// concurrent read access (e.g. from the introspection dashboard via
// Clone) while the simulation loop is the sole mutator, matching the
// single-writer/many-reader shape of the teacher's JSONStorage.
type Ledger struct {
	mu      sync.RWMutex
	balance uint64
	pending map[uuid.UUID]position.Position
	open    map[uuid.UUID]position.Position
	closed  map[uuid.UUID]position.Position
}

// New creates a Ledger with the given starting balance and empty position
// maps.
func New(startingBalance uint64) *Ledger {
	return &Ledger{
		balance: startingBalance,
		pending: make(map[uuid.UUID]position.Position),
		open:    make(map[uuid.UUID]position.Position),
		closed:  make(map[uuid.UUID]position.Position),
	}
}

// Balance returns the current account balance.
func (l *Ledger) Balance() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance
}

// Pending returns a snapshot of the position's pending map.
func (l *Ledger) Pending() map[uuid.UUID]position.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneMap(l.pending)
}

// Open returns a snapshot of the open position map.
func (l *Ledger) Open() map[uuid.UUID]position.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneMap(l.open)
}

// Closed returns a snapshot of the closed position map.
func (l *Ledger) Closed() map[uuid.UUID]position.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneMap(l.closed)
}

func cloneMap(m map[uuid.UUID]position.Position) map[uuid.UUID]position.Position {
	out := make(map[uuid.UUID]position.Position, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Clone returns a deep, independent copy of the ledger — used by the
// introspection dashboard (SPEC_FULL.md §SUPPLEMENTED FEATURES, adapted
// from the original source's get_ledger_clone) so reads never race with
// the simulation loop's mutations.
func (l *Ledger) Clone() *Ledger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Ledger{
		balance: l.balance,
		pending: cloneMap(l.pending),
		open:    cloneMap(l.open),
		closed:  cloneMap(l.closed),
	}
}

// PlaceOrder debits the balance by margin_requirement and inserts pos into
// the pending map. Fails with InsufficientBuyingPower, leaving state
// untouched, if the account can't cover the margin requirement.
func (l *Ledger) PlaceOrder(id uuid.UUID, pos position.Position, marginRequirement uint64) (wire.BrokerMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if marginRequirement > l.balance {
		return wire.BrokerMessage{}, wire.ErrInsufficientBuyingPower
	}
	l.balance -= marginRequirement
	l.pending[id] = pos
	return wire.PositionOpened(id, pos, pos.CreationTime), nil
}

// OpenPosition inserts an already-executed position directly into the open
// map (the market-order fast path: execution_time/execution_price are set
// at submission time, there is no pending phase). Requires
// execution_time and execution_price to both be set.
func (l *Ledger) OpenPosition(id uuid.UUID, pos position.Position) (wire.BrokerMessage, error) {
	if pos.ExecutionTime == nil || pos.ExecutionPrice == nil {
		return wire.BrokerMessage{}, wire.NewMessageError("position %s has no execution time/price", id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.open[id] = pos
	return wire.PositionOpened(id, pos, *pos.ExecutionTime), nil
}

// PromotePending moves a satisfied pending position into the open map,
// stamping its execution time/price. Returns NoSuchPosition if id isn't
// pending.
func (l *Ledger) PromotePending(id uuid.UUID, fillPrice int64, now uint64) (wire.BrokerMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.pending[id]
	if !ok {
		return wire.BrokerMessage{}, wire.ErrNoSuchPosition
	}
	delete(l.pending, id)
	pos.ExecutionTime = &now
	pos.ExecutionPrice = &fillPrice
	l.open[id] = pos
	return wire.PositionOpened(id, pos, now), nil
}

// ClosePosition moves an open position to closed, crediting the balance by
// positionValue. timestamp is when the order was processed (after any
// simulated delay). closePrice, if non-nil, is recorded as the exit price —
// the tick-driven stop/take-profit evaluator always knows the exact
// trigger price; an explicit MarketClose without one falls back to the
// position's execution price as its closing basis.
func (l *Ledger) ClosePosition(id uuid.UUID, closePrice *int64, positionValue uint64, timestamp uint64, reason position.ClosureReason) (wire.BrokerMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.open[id]
	if !ok {
		return wire.BrokerMessage{}, wire.ErrNoSuchPosition
	}
	delete(l.open, id)

	l.balance += positionValue
	pos.ExitTime = &timestamp
	if closePrice != nil {
		pos.ExitPrice = closePrice
	} else {
		pos.ExitPrice = pos.ExecutionPrice
	}
	pos.ClosureReason = reason
	l.closed[id] = pos

	return wire.PositionClosed(id, pos, reason, timestamp), nil
}

// ResizePosition increases or decreases an open position's size by the
// signed delta. A resize to exactly zero delegates to ClosePosition with
// reason MarketClose. A resize below zero fails with
// InvalidModificationAmount. Otherwise modificationCost is debited from
// the balance (failing with InsufficientBuyingPower on underflow) and the
// position is resized in place.
func (l *Ledger) ResizePosition(id uuid.UUID, delta int64, modificationCost uint64, timestamp uint64) (wire.BrokerMessage, error) {
	l.mu.Lock()
	pos, ok := l.open[id]
	if !ok {
		l.mu.Unlock()
		return wire.BrokerMessage{}, wire.ErrNoSuchPosition
	}

	newSize := int64(pos.Size) + delta
	if newSize < 0 {
		l.mu.Unlock()
		return wire.BrokerMessage{}, wire.ErrInvalidModificationAmount
	}
	if newSize == 0 {
		l.mu.Unlock()
		return l.ClosePosition(id, nil, modificationCost, timestamp, position.ReasonMarketClose)
	}

	if modificationCost > l.balance {
		l.mu.Unlock()
		return wire.BrokerMessage{}, wire.ErrInsufficientBuyingPower
	}

	l.balance -= modificationCost
	pos.Size = uint64(newSize)
	l.open[id] = pos
	l.mu.Unlock()

	return wire.PositionModified(id, pos, timestamp), nil
}

// ModifyPosition updates the stop-loss and take-profit of an open
// position.
func (l *Ledger) ModifyPosition(id uuid.UUID, stop, takeProfit *int64, timestamp uint64) (wire.BrokerMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.open[id]
	if !ok {
		return wire.BrokerMessage{}, wire.ErrNoSuchPosition
	}
	pos.Stop = stop
	pos.TakeProfit = takeProfit
	l.open[id] = pos
	return wire.PositionModified(id, pos, timestamp), nil
}
