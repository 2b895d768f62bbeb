// Package tick defines the immutable market-data point that drives the
// simulation: a single timestamped bid/ask quote in the symbol's fixed
// decimal precision.
package tick

import "fmt"

// Tick is a single market quote. Prices are integers expressed in the
// symbol's declared decimal precision — there is no floating point in the
// money path.
type Tick struct {
	Timestamp uint64
	Bid       int64
	Ask       int64
}

// String renders the tick for log lines.
func (t Tick) String() string {
	return fmt.Sprintf("Tick{ts=%d bid=%d ask=%d}", t.Timestamp, t.Bid, t.Ask)
}

// Spread returns Ask - Bid.
func (t Tick) Spread() int64 {
	return t.Ask - t.Bid
}
