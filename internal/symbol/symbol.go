// Package symbol implements the per-symbol tick source, current price
// cache, and the capacity-1 client sink that gives the simulation its
// implicit backpressure (spec.md §4.1).
package symbol

import (
	"github.com/ahlstrom-labs/simbroker/internal/tick"
)

// Symbol holds one tickstream's state: its lazy source, the next tick
// primed from that source, the current bid/ask, and the metadata needed
// for FX conversion and display precision.
type Symbol struct {
	Name              string
	source            tick.Source
	nextTick          *tick.Tick
	Bid               int64
	Ask               int64
	IsFX              bool
	DecimalPrecision  uint8
	clientSink        chan tick.Tick // capacity 1 — see SendClient
}

// New registers a symbol backed by a lazy tick source. The first tick is
// pulled immediately so NextTick is always primed right after
// construction, per spec.md's Symbol invariant.
func New(name string, source tick.Source, isFX bool, decimalPrecision uint8) *Symbol {
	s := &Symbol{
		Name:             name,
		source:           source,
		IsFX:             isFX,
		DecimalPrecision: decimalPrecision,
		clientSink:       make(chan tick.Tick, 1),
	}
	if first, ok := source.Next(); ok {
		s.nextTick = &first
		s.Bid, s.Ask = first.Bid, first.Ask
	}
	return s
}

// NewOneshot registers a symbol with a single static price and no
// tickstream at all — ported from the original source's
// oneshot_price_set, useful for quick tests of FX conversion and position
// valuation without wiring a full stream (SPEC_FULL.md supplemented
// features).
func NewOneshot(name string, bid, ask int64, isFX bool, decimalPrecision uint8) *Symbol {
	return &Symbol{
		Name:             name,
		source:           tick.NewSliceSource(nil),
		Bid:              bid,
		Ask:              ask,
		IsFX:             isFX,
		DecimalPrecision: decimalPrecision,
		clientSink:       make(chan tick.Tick, 1),
	}
}

// Next returns the primed next tick (replenishing it from the source for
// the following call) or ok=false once the stream has been exhausted. The
// simulation loop calls this exactly once per consumed tick per symbol to
// refill the queue.
func (s *Symbol) Next() (t tick.Tick, ok bool) {
	if s.nextTick == nil {
		return tick.Tick{}, false
	}
	t = *s.nextTick
	if following, has := s.source.Next(); has {
		s.nextTick = &following
	} else {
		s.nextTick = nil
	}
	return t, true
}

// SetPrice updates the symbol's current bid/ask, called by the simulation
// loop when a NewTick event for this symbol is processed.
func (s *Symbol) SetPrice(bid, ask int64) {
	s.Bid, s.Ask = bid, ask
}

// GetPrice returns the current bid, ask, and decimal precision.
func (s *Symbol) GetPrice() (bid, ask int64, decimals uint8) {
	return s.Bid, s.Ask, s.DecimalPrecision
}

// SendClient delivers a tick to the client, blocking until it is consumed.
// The capacity-1 channel is the mechanism by which the simulator throttles
// itself to the client's pace: the simulator cannot race ahead, and the
// client is guaranteed to have processed tick T before tick T+1 appears.
func (s *Symbol) SendClient(t tick.Tick) {
	s.clientSink <- t
}

// ClientChannel exposes the read side of the capacity-1 client sink so a
// client-facing transport adapter (outside this module's scope) can drain
// it.
func (s *Symbol) ClientChannel() <-chan tick.Tick {
	return s.clientSink
}
