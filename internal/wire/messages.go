package wire

import (
	"github.com/google/uuid"

	"github.com/ahlstrom-labs/simbroker/internal/position"
)

// MessageKind distinguishes the variants of BrokerMessage.
type MessageKind string

// BrokerMessage kinds.
const (
	MsgPong             MessageKind = "pong"
	MsgPositionOpened   MessageKind = "position_opened"
	MsgPositionClosed   MessageKind = "position_closed"
	MsgPositionModified MessageKind = "position_modified"
)

// BrokerMessage is a successful result from a broker operation. Exactly one
// of the payload fields is meaningful, selected by Kind — this mirrors the
// original source's tagged-enum BrokerMessage using a Go-idiomatic typed
// struct instead of an interface, so reply slots and the push sink can
// carry it by value without type assertions at every call site.
type BrokerMessage struct {
	Kind MessageKind

	// MsgPong
	TimeReceived uint64

	// MsgPositionOpened / MsgPositionClosed / MsgPositionModified
	PositionID uuid.UUID
	Position   position.Position
	Timestamp  uint64

	// MsgPositionClosed only
	Reason position.ClosureReason
}

// Pong builds a MsgPong result.
func Pong(timeReceived uint64) BrokerMessage {
	return BrokerMessage{Kind: MsgPong, TimeReceived: timeReceived}
}

// PositionOpened builds a MsgPositionOpened result.
func PositionOpened(id uuid.UUID, pos position.Position, ts uint64) BrokerMessage {
	return BrokerMessage{Kind: MsgPositionOpened, PositionID: id, Position: pos, Timestamp: ts}
}

// PositionClosed builds a MsgPositionClosed result.
func PositionClosed(id uuid.UUID, pos position.Position, reason position.ClosureReason, ts uint64) BrokerMessage {
	return BrokerMessage{Kind: MsgPositionClosed, PositionID: id, Position: pos, Reason: reason, Timestamp: ts}
}

// PositionModified builds a MsgPositionModified result.
func PositionModified(id uuid.UUID, pos position.Position, ts uint64) BrokerMessage {
	return BrokerMessage{Kind: MsgPositionModified, PositionID: id, Position: pos, Timestamp: ts}
}

// BrokerResult is the outcome of any broker operation: exactly one of
// Message or Err is meaningful.
type BrokerResult struct {
	Message BrokerMessage
	Err     error
}

// Ok builds a successful BrokerResult.
func Ok(msg BrokerMessage) BrokerResult { return BrokerResult{Message: msg} }

// Err builds a failed BrokerResult.
func Err(err error) BrokerResult { return BrokerResult{Err: err} }

// IsOk reports whether the result succeeded.
func (r BrokerResult) IsOk() bool { return r.Err == nil }
