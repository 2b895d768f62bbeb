// Package simqueue implements the deterministic event queue that drives
// the simulation loop: a min-heap ordered by (timestamp, insertion
// sequence) merging the four event kinds from spec.md §5 — NewTick,
// ClientTick, ActionComplete, and Response — plus Push, an internal kind
// that delays an automatic fill/close notification until T + ping_ns.
package simqueue

import (
	"github.com/google/uuid"

	"github.com/ahlstrom-labs/simbroker/internal/tick"
	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

// Kind distinguishes the five event variants the simulation loop merges:
// the four client/broker kinds plus the internal Push kind.
type Kind int

// Event kinds, in the order spec.md §5 lists them.
const (
	KindNewTick Kind = iota
	KindClientTick
	KindActionComplete
	KindResponse
	KindPush
)

// ReplySlot is a one-shot completion handle for a single client request.
// The simulation loop resolves it exactly once with the BrokerResult, when
// the request's Response event is processed; the
// transport adapter that submitted the request is the only reader. This is
// distinct from the push sink, which carries unsolicited notifications
// (position triggered by a tick, not by a direct request) and has no
// per-request owner.
type ReplySlot struct {
	ch chan wire.BrokerResult
}

// NewReplySlot creates an unresolved reply slot.
func NewReplySlot() *ReplySlot {
	return &ReplySlot{ch: make(chan wire.BrokerResult, 1)}
}

// Resolve fulfills the slot. Resolving a slot twice panics — each slot is
// good for exactly one request.
func (r *ReplySlot) Resolve(result wire.BrokerResult) {
	select {
	case r.ch <- result:
	default:
		panic("simqueue: reply slot resolved twice")
	}
}

// Wait blocks until the slot is resolved.
func (r *ReplySlot) Wait() wire.BrokerResult {
	return <-r.ch
}

// Event is one entry in the simulation's priority queue.
type Event struct {
	Timestamp uint64
	Seq       uint64 // insertion order, breaks timestamp ties deterministically
	Kind      Kind

	// KindNewTick
	SymbolIndex int
	Tick        tick.Tick

	// KindClientTick
	ClientSymbolIndex int
	ClientTick        tick.Tick

	// KindActionComplete
	AccountID uuid.UUID
	Action    wire.BrokerAction

	// KindActionComplete / KindResponse
	Reply *ReplySlot

	// KindResponse / KindPush
	Result wire.BrokerResult
}

// NewTickEvent builds a KindNewTick event: a new price has arrived for a
// symbol, due at the tick's own timestamp. Like every other event it is
// ordered against same-timestamp events by insertion sequence only.
func NewTickEvent(seq uint64, symbolIndex int, t tick.Tick) Event {
	return Event{Timestamp: t.Timestamp, Seq: seq, Kind: KindNewTick, SymbolIndex: symbolIndex, Tick: t}
}

// ClientTickEvent builds a KindClientTick event: the tick that was just
// applied is now due for delivery to the client over the capacity-1 sink,
// at dueAt (t.Timestamp + ping_ns per spec.md §4.4).
func ClientTickEvent(seq uint64, dueAt uint64, symbolIndex int, t tick.Tick) Event {
	return Event{Timestamp: dueAt, Seq: seq, Kind: KindClientTick, ClientSymbolIndex: symbolIndex, ClientTick: t}
}

// PushEvent builds a KindPush event: an automatic fill/close notification
// generated by Evaluate is now due for best-effort delivery, at dueAt
// (tick timestamp + ping_ns per spec.md §5).
func PushEvent(seq uint64, dueAt uint64, result wire.BrokerResult) Event {
	return Event{Timestamp: dueAt, Seq: seq, Kind: KindPush, Result: result}
}

// ActionCompleteEvent builds a KindActionComplete event: the delay model
// has determined this action is now due for execution against the
// account's ledger.
func ActionCompleteEvent(seq uint64, dueAt uint64, accountID uuid.UUID, action wire.BrokerAction, reply *ReplySlot) Event {
	return Event{Timestamp: dueAt, Seq: seq, Kind: KindActionComplete, AccountID: accountID, Action: action, Reply: reply}
}

// ResponseEvent builds a KindResponse event: an already-executed action's
// result is now due for delivery back to its reply slot, after the
// simulated network return delay.
func ResponseEvent(seq uint64, dueAt uint64, reply *ReplySlot, result wire.BrokerResult) Event {
	return Event{Timestamp: dueAt, Seq: seq, Kind: KindResponse, Reply: reply, Result: result}
}
