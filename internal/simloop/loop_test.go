package simloop

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ahlstrom-labs/simbroker/internal/account"
	"github.com/ahlstrom-labs/simbroker/internal/broker"
	"github.com/ahlstrom-labs/simbroker/internal/ledger"
	"github.com/ahlstrom-labs/simbroker/internal/position"
	"github.com/ahlstrom-labs/simbroker/internal/simqueue"
	"github.com/ahlstrom-labs/simbroker/internal/symbol"
	"github.com/ahlstrom-labs/simbroker/internal/tick"
	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

// drainClientTicks consumes every tick the loop pushes to a symbol's
// capacity-1 client sink until stop fires, so Run() never blocks on an
// unconsumed client delivery.
func drainClientTicks(sym *symbol.Symbol, stop <-chan struct{}) {
	for {
		select {
		case <-sym.ClientChannel():
		case <-stop:
			return
		}
	}
}

func newHarness(t *testing.T, ticks []tick.Tick, settings broker.Settings) (*Loop, *account.Registry, chan Request, *symbol.Symbol) {
	t.Helper()
	symbols := symbol.NewTable()
	sym := symbol.New("AAPL", tick.NewSliceSource(ticks), false, 2)
	symbols.Add("AAPL", sym)

	accounts := account.NewRegistry()
	exec := broker.NewExecutor(accounts, symbols, settings, nil)
	eval := broker.NewEvaluator(accounts, symbols, settings)
	// Buffered so a test can queue its request before Run starts; the loop
	// drains the inbox only while it still has events to pop.
	inbox := make(chan Request, 1)
	push := NewBestEffortPusher(NewPushSink())
	loop := New(symbols, settings, exec, eval, nil, inbox, push, nil)

	return loop, accounts, inbox, sym
}

func runWithTimeout(t *testing.T, loop *Loop, sym *symbol.Symbol) (done chan struct{}) {
	t.Helper()
	stop := make(chan struct{})
	go drainClientTicks(sym, stop)
	// Response events block until the push sink is read, so drain it too.
	go func() {
		for {
			select {
			case <-loop.Push.Sink():
			case <-stop:
				return
			}
		}
	}()

	done = make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()

	go func() {
		<-done
		close(stop)
	}()
	return done
}

func waitOrTimeout(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not complete within timeout")
	}
}

func TestLoopPingRoundTrip(t *testing.T) {
	loop, _, inbox, sym := newHarness(t, []tick.Tick{{Timestamp: 1, Bid: 100, Ask: 101}}, broker.Settings{PingNS: 5, ExecutionDelayNS: 5})

	reply := simqueue.NewReplySlot()
	inbox <- Request{Action: wire.Ping(), Reply: reply}
	done := runWithTimeout(t, loop, sym)

	result := reply.Wait()
	if !result.IsOk() || result.Message.Kind != wire.MsgPong {
		t.Fatalf("Ping reply = %+v, want ok Pong", result)
	}

	waitOrTimeout(t, done)
}

func TestLoopMarketOrderOpensImmediately(t *testing.T) {
	loop, accounts, inbox, sym := newHarness(t, []tick.Tick{{Timestamp: 1, Bid: 100, Ask: 101}}, broker.Settings{PingNS: 1, ExecutionDelayNS: 1})

	acctID := uuid.New()
	accounts.Add(&account.Account{UUID: acctID, Ledger: ledger.New(1000)})

	reply := simqueue.NewReplySlot()
	action := wire.Trading(acctID, wire.MarketOrder("AAPL", true, 10, nil, nil))
	inbox <- Request{AccountID: acctID, Action: action, Reply: reply}

	done := runWithTimeout(t, loop, sym)

	result := reply.Wait()
	if !result.IsOk() || result.Message.Kind != wire.MsgPositionOpened {
		t.Fatalf("MarketOrder reply = %+v, want ok PositionOpened", result)
	}

	waitOrTimeout(t, done)

	acct, _ := accounts.Get(acctID)
	if len(acct.Ledger.Open()) != 1 {
		t.Fatal("expected one open position after market order")
	}
}

func TestLoopPendingOrderTripsOnTick(t *testing.T) {
	ticks := []tick.Tick{
		{Timestamp: 1, Bid: 100, Ask: 101},
		{Timestamp: 2, Bid: 100, Ask: 90},
	}
	loop, accounts, _, sym := newHarness(t, ticks, broker.Settings{PingNS: 1, ExecutionDelayNS: 1})

	acctID := uuid.New()
	l := ledger.New(1000)
	accounts.Add(&account.Account{UUID: acctID, Ledger: l})

	// The pending order is placed before the loop starts so there is no
	// race with the second tick's evaluation.
	posID := uuid.New()
	intended := int64(95)
	l.PlaceOrder(posID, position.Position{ID: posID, Long: true, IntendedPrice: &intended}, 0)

	done := runWithTimeout(t, loop, sym)
	waitOrTimeout(t, done)

	if _, ok := l.Open()[posID]; !ok {
		t.Fatal("pending order should have been promoted to open once ask dropped below intended price")
	}
}

// TestProcessNewTickSchedulesDeliveryAtPingDelay drives processNewTick
// directly (spec.md §4.4/§5: ClientTick and automatic push notifications
// are both due at tick.Timestamp + ping_ns, never delivered inline).
func TestProcessNewTickSchedulesDeliveryAtPingDelay(t *testing.T) {
	settings := broker.Settings{PingNS: 7}
	loop, accounts, _, _ := newHarness(t, nil, settings)

	acctID := uuid.New()
	l := ledger.New(1000)
	accounts.Add(&account.Account{UUID: acctID, Ledger: l})

	posID := uuid.New()
	execTime := uint64(0)
	execPrice := int64(100)
	stop := int64(90)
	l.OpenPosition(posID, position.Position{
		ID: posID, Long: true, Size: 10,
		ExecutionTime: &execTime, ExecutionPrice: &execPrice, Stop: &stop,
	})

	const tickTimestamp = uint64(50)
	loop.processNewTick(simqueue.NewTickEvent(loop.Queue.NextSeq(), 0, tick.Tick{Timestamp: tickTimestamp, Bid: 80, Ask: 81}))

	wantDue := tickTimestamp + settings.PingNS
	sawClientTick, sawPush := false, false
	for {
		ev, ok := loop.Queue.Pop()
		if !ok {
			break
		}
		switch ev.Kind {
		case simqueue.KindClientTick:
			sawClientTick = true
			if ev.Timestamp != wantDue {
				t.Fatalf("ClientTick Timestamp = %d, want %d (tick.Timestamp + ping_ns)", ev.Timestamp, wantDue)
			}
		case simqueue.KindPush:
			sawPush = true
			if ev.Timestamp != wantDue {
				t.Fatalf("Push Timestamp = %d, want %d (tick.Timestamp + ping_ns)", ev.Timestamp, wantDue)
			}
		}
	}
	if !sawClientTick {
		t.Fatal("expected a ClientTick event to be scheduled")
	}
	if !sawPush {
		t.Fatal("expected a Push event for the stop-loss closure to be scheduled")
	}
}

func TestLoopStopLossClosesLongPosition(t *testing.T) {
	ticks := []tick.Tick{
		{Timestamp: 1, Bid: 100, Ask: 101},
		{Timestamp: 2, Bid: 85, Ask: 86},
	}
	loop, accounts, _, sym := newHarness(t, ticks, broker.Settings{PingNS: 1, ExecutionDelayNS: 1})

	acctID := uuid.New()
	l := ledger.New(1000)
	accounts.Add(&account.Account{UUID: acctID, Ledger: l})

	posID := uuid.New()
	execTime := uint64(0)
	execPrice := int64(100)
	stop := int64(90)
	l.OpenPosition(posID, position.Position{
		ID: posID, Long: true, Size: 10,
		ExecutionTime: &execTime, ExecutionPrice: &execPrice, Stop: &stop,
	})

	done := runWithTimeout(t, loop, sym)
	waitOrTimeout(t, done)

	closed, ok := l.Closed()[posID]
	if !ok {
		t.Fatal("position should have closed once bid dropped below stop")
	}
	if closed.ClosureReason != position.ReasonStopLoss {
		t.Fatalf("ClosureReason = %v, want ReasonStopLoss", closed.ClosureReason)
	}
}

func TestLoopMarketOrderUnknownSymbolFails(t *testing.T) {
	loop, accounts, inbox, sym := newHarness(t, []tick.Tick{{Timestamp: 1, Bid: 100, Ask: 101}}, broker.Settings{PingNS: 1, ExecutionDelayNS: 1})

	acctID := uuid.New()
	l := ledger.New(1000)
	accounts.Add(&account.Account{UUID: acctID, Ledger: l})

	reply := simqueue.NewReplySlot()
	action := wire.Trading(acctID, wire.MarketOrder("MSFT", true, 10, nil, nil))
	inbox <- Request{AccountID: acctID, Action: action, Reply: reply}

	done := runWithTimeout(t, loop, sym)

	result := reply.Wait()
	if result.IsOk() {
		t.Fatal("MarketOrder on unregistered symbol should fail, got ok")
	}

	waitOrTimeout(t, done)
}
