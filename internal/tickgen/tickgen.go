// Package tickgen provides synthetic tickstream generators for exercising
// the simulation core without a recorded data file, adapted from the
// teacher's mock market-data provider.
package tickgen

import (
	"math/rand"

	"github.com/ahlstrom-labs/simbroker/internal/tick"
)

// RandomWalk generates a deterministic (given a seed) finite tickstream
// that follows a bounded random walk around a starting price — useful for
// property tests and demos where a real historical tickstream isn't
// available.
//
// RandomWalk isn't goroutine-safe; each instance is meant to back exactly
// one Symbol.
type RandomWalk struct {
	rng         *rand.Rand
	timestamp   uint64
	stepNS      uint64
	bid         int64
	spread      int64
	volatility  int64
	remaining   int
}

// NewRandomWalk builds a generator that will emit count ticks, one every
// stepNS nanoseconds starting at startTimestamp, wandering by up to
// volatility per step around startBid with a constant spread.
func NewRandomWalk(seed int64, count int, startTimestamp, stepNS uint64, startBid, spread, volatility int64) *RandomWalk {
	return &RandomWalk{
		rng:        rand.New(rand.NewSource(seed)),
		timestamp:  startTimestamp,
		stepNS:     stepNS,
		bid:        startBid,
		spread:     spread,
		volatility: volatility,
		remaining:  count,
	}
}

// Next implements tick.Source.
func (w *RandomWalk) Next() (tick.Tick, bool) {
	if w.remaining <= 0 {
		return tick.Tick{}, false
	}
	w.remaining--

	if w.volatility > 0 {
		delta := w.rng.Int63n(2*w.volatility+1) - w.volatility
		w.bid += delta
		if w.bid < 1 {
			w.bid = 1
		}
	}

	t := tick.Tick{Timestamp: w.timestamp, Bid: w.bid, Ask: w.bid + w.spread}
	w.timestamp += w.stepNS
	return t, true
}
