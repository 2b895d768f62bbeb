package simloop

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

// PushSink is the egress channel of unsolicited BrokerResult notifications
// (spec.md §6). The relay goroutine draining it is an ancillary worker
// that never touches core state directly.
type PushSink chan wire.BrokerResult

// NewPushSink creates an unbuffered push sink — sends block until a relay
// goroutine reads them, matching the blocking suspension point in
// spec.md §5.
func NewPushSink() PushSink {
	return make(chan wire.BrokerResult)
}

// ErrPushSinkOpen is returned by Send while the circuit breaker
// is open, i.e. while the push sink has been failing to keep up.
var ErrPushSinkOpen = errors.New("simloop: push sink circuit open")

// BestEffortPusher wraps a PushSink with a circuit breaker so automatic
// fill/close notifications (spec.md §7 — "best-effort notification"; the
// ledger mutation has already committed regardless of delivery) never
// block the loop indefinitely behind a stalled or absent consumer.
type BestEffortPusher struct {
	sink    PushSink
	breaker *gobreaker.CircuitBreaker
}

// NewBestEffortPusher wraps sink with a breaker that opens after 5
// consecutive failed sends and probes again after 2 seconds.
func NewBestEffortPusher(sink PushSink) *BestEffortPusher {
	settings := gobreaker.Settings{
		Name:    "push-sink",
		Timeout: 2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &BestEffortPusher{sink: sink, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Send attempts to deliver result without blocking the caller indefinitely:
// it gives the consumer a short window to accept the send, and treats a
// timed-out send as a failure the breaker can act on.
func (p *BestEffortPusher) Send(result wire.BrokerResult) error {
	_, err := p.breaker.Execute(func() (any, error) {
		select {
		case p.sink <- result:
			return nil, nil
		case <-time.After(50 * time.Millisecond):
			return nil, errors.New("push sink send timed out")
		}
	})
	if errors.Is(err, gobreaker.ErrOpenState) {
		return ErrPushSinkOpen
	}
	return err
}

// Sink exposes the underlying channel so an egress relay goroutine can
// drain it.
func (p *BestEffortPusher) Sink() PushSink {
	return p.sink
}

// SendBlocking delivers result, suspending the caller until the consumer
// accepts it. This is the unconditional suspension point spec.md §5(b)
// describes for Response-event push forwarding — unlike automatic
// fill/close notifications, a direct reply to a client action is not
// best-effort.
func (p *BestEffortPusher) SendBlocking(result wire.BrokerResult) {
	p.sink <- result
}
