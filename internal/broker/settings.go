// Package broker implements the delay model, FX conversion, and action
// executor that together turn a client request into a future event on the
// simulation queue (spec.md §4.3, §4.4, §4.6 of SPEC_FULL.md).
package broker

import "github.com/ahlstrom-labs/simbroker/internal/wire"

// Settings configures one simulation run: the starting balance, the
// network and broker-processing delay model, and the FX conversion mode.
type Settings struct {
	StartingBalance  uint64
	PingNS           uint64
	ExecutionDelayNS uint64
	FX               bool
	FXBaseCurrency   string
	FXLotSize        uint64

	// ActionDelaysNS overrides ExecutionDelayNS per action kind, keyed by
	// wire.BrokerAction.DelayKey(). A kind absent from this map falls back
	// to ExecutionDelayNS.
	ActionDelaysNS map[string]uint64
}

// DefaultSettings mirrors the teacher's DefaultConfig pattern: sensible
// defaults a caller can selectively override.
var DefaultSettings = Settings{
	StartingBalance:  100000,
	PingNS:           1000,
	ExecutionDelayNS: 10,
	FX:               false,
	FXLotSize:        100000,
}

// Normalize fills zero PingNS, ExecutionDelayNS and FXLotSize from
// DefaultSettings and ensures ActionDelaysNS is non-nil; StartingBalance,
// FX and FXBaseCurrency are left as given. Matches the teacher's config.Normalize
// pattern (internal/config/config.go).
func (s *Settings) Normalize() {
	if s.PingNS == 0 {
		s.PingNS = DefaultSettings.PingNS
	}
	if s.ExecutionDelayNS == 0 {
		s.ExecutionDelayNS = DefaultSettings.ExecutionDelayNS
	}
	if s.FXLotSize == 0 {
		s.FXLotSize = DefaultSettings.FXLotSize
	}
	if s.ActionDelaysNS == nil {
		s.ActionDelaysNS = make(map[string]uint64)
	}
}

// Validate rejects a Settings that would make the engine misbehave.
func (s Settings) Validate() error {
	if s.FX && len(s.FXBaseCurrency) != 3 {
		return wire.NewMessageError("fx_base_currency must be a 3-letter currency code, got %q", s.FXBaseCurrency)
	}
	return nil
}

// Delay returns the broker-processing delay, in nanoseconds, for the given
// action. A per-kind override in ActionDelaysNS takes precedence over
// ExecutionDelayNS.
func (s Settings) Delay(action wire.BrokerAction) uint64 {
	if d, ok := s.ActionDelaysNS[action.DelayKey()]; ok {
		return d
	}
	return s.ExecutionDelayNS
}
