// Package wire defines the request/response vocabulary exchanged between a
// client and the simulated broker: actions, results, messages, and the
// typed error taxonomy from spec.md §6. None of these types carry any
// transport-specific framing — the client-facing transport binding is an
// external collaborator, out of scope for this module.
package wire

import "fmt"

// ErrorKind identifies one of the broker's well-known error conditions.
type ErrorKind string

// The wire error taxonomy from spec.md §6.
const (
	ErrKindMessage                   ErrorKind = "message"
	ErrKindUnimplemented              ErrorKind = "unimplemented"
	ErrKindInsufficientBuyingPower    ErrorKind = "insufficient_buying_power"
	ErrKindNoSuchPosition             ErrorKind = "no_such_position"
	ErrKindNoSuchAccount              ErrorKind = "no_such_account"
	ErrKindNoSuchSymbol               ErrorKind = "no_such_symbol"
	ErrKindInvalidModificationAmount  ErrorKind = "invalid_modification_amount"
	ErrKindNoDataAvailable            ErrorKind = "no_data_available"
)

// BrokerError is the typed error every broker-facing operation returns on
// failure. Two BrokerErrors are equal (via errors.Is) when their Kind
// matches, regardless of Message — callers are expected to switch on Kind.
type BrokerError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *BrokerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

// Is lets errors.Is match BrokerErrors by Kind alone, so callers can write
// errors.Is(err, wire.ErrNoSuchSymbol) without constructing a Message.
func (e *BrokerError) Is(target error) bool {
	other, ok := target.(*BrokerError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinel errors for use with errors.Is.
var (
	ErrUnimplemented             = &BrokerError{Kind: ErrKindUnimplemented}
	ErrInsufficientBuyingPower   = &BrokerError{Kind: ErrKindInsufficientBuyingPower}
	ErrNoSuchPosition            = &BrokerError{Kind: ErrKindNoSuchPosition}
	ErrNoSuchAccount             = &BrokerError{Kind: ErrKindNoSuchAccount}
	ErrNoSuchSymbol              = &BrokerError{Kind: ErrKindNoSuchSymbol}
	ErrInvalidModificationAmount = &BrokerError{Kind: ErrKindInvalidModificationAmount}
	ErrNoDataAvailable           = &BrokerError{Kind: ErrKindNoDataAvailable}
)

// NewMessageError wraps a free-form message in the Message error kind.
func NewMessageError(format string, args ...any) *BrokerError {
	return &BrokerError{Kind: ErrKindMessage, Message: fmt.Sprintf(format, args...)}
}

// NewUnimplementedError reports that an action kind is accepted but not
// yet implemented (limit orders, limit closes, disconnect — spec.md §9
// open question 4).
func NewUnimplementedError(what string) *BrokerError {
	return &BrokerError{Kind: ErrKindUnimplemented, Message: what}
}
