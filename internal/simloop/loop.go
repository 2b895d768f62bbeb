// Package simloop implements the simulation's main event loop (C7,
// spec.md §4.4): it owns the priority queue, pumps events in deterministic
// order, and is the sole place in the core that ever blocks on I/O.
package simloop

import (
	"github.com/google/uuid"

	"github.com/ahlstrom-labs/simbroker/internal/broker"
	"github.com/ahlstrom-labs/simbroker/internal/logging"
	"github.com/ahlstrom-labs/simbroker/internal/metrics"
	"github.com/ahlstrom-labs/simbroker/internal/simqueue"
	"github.com/ahlstrom-labs/simbroker/internal/symbol"
	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

// Request is one client action arriving through the ingress inbox,
// carrying the reply slot its result will resolve.
type Request struct {
	AccountID uuid.UUID
	Action    wire.BrokerAction
	Reply     *simqueue.ReplySlot
}

// Loop is the simulation's single-threaded event pump. It is the sole
// mutator of Symbols, Accounts, and Queue for the duration of a run
// (spec.md §3 ownership rules).
type Loop struct {
	Queue    *simqueue.Queue
	Symbols  *symbol.Table
	Settings broker.Settings
	Executor *broker.Executor
	Evaluate *broker.Evaluator
	Logger   logging.Logger

	// Inbox is drained non-blockingly once per iteration, before the
	// popped event is processed (spec.md §4.4).
	Inbox <-chan Request

	Push *BestEffortPusher

	Metrics *metrics.Registry

	finalTimestamp uint64
}

// New constructs a Loop and seeds the queue with one NewTick event per
// registered symbol whose tick source produced a first tick
// (spec.md §4.4 Initialization). metricsReg may be nil to disable
// instrumentation.
func New(symbols *symbol.Table, settings broker.Settings, exec *broker.Executor, eval *broker.Evaluator, logger logging.Logger, inbox <-chan Request, push *BestEffortPusher, metricsReg *metrics.Registry) *Loop {
	if logger == nil {
		logger = logging.Noop{}
	}
	l := &Loop{
		Queue:    simqueue.NewQueue(),
		Symbols:  symbols,
		Settings: settings,
		Executor: exec,
		Evaluate: eval,
		Logger:   logger,
		Inbox:    inbox,
		Push:     push,
		Metrics:  metricsReg,
	}
	for idx, sym := range symbols.All() {
		if t, ok := sym.Next(); ok {
			l.Queue.Push(simqueue.NewTickEvent(l.Queue.NextSeq(), idx, t))
		}
	}
	return l
}

// FinalTimestamp returns the timestamp of the last event processed,
// valid once Run has returned.
func (l *Loop) FinalTimestamp() uint64 { return l.finalTimestamp }

// Run drains the queue to completion, processing one event at a time in
// deterministic (timestamp, sequence) order. It returns once no more
// events remain — the only termination condition the core recognizes
// (spec.md §5 Cancellation/timeouts: none).
func (l *Loop) Run() {
	for {
		ev, ok := l.Queue.Pop()
		if !ok {
			break
		}
		l.finalTimestamp = ev.Timestamp
		l.drainInbox(ev.Timestamp)
		l.process(ev)
		l.observe(ev)
	}
	l.Logger.Notice(logging.TimestampString(l.finalTimestamp), "simulation queue drained, run complete")
}

// drainInbox non-blockingly pulls every request currently waiting on the
// ingress channel and schedules its ActionComplete at now + delay(action).
func (l *Loop) drainInbox(now uint64) {
	for {
		select {
		case req, ok := <-l.Inbox:
			if !ok {
				return
			}
			due := now + l.Settings.Delay(req.Action)
			l.Queue.Push(simqueue.ActionCompleteEvent(l.Queue.NextSeq(), due, req.AccountID, req.Action, req.Reply))
		default:
			return
		}
	}
}

func (l *Loop) observe(ev simqueue.Event) {
	if l.Metrics == nil {
		return
	}
	l.Metrics.EventsProcessed.WithLabelValues(eventKindLabel(ev.Kind)).Inc()
	l.Metrics.QueueDepth.Set(float64(l.Queue.Len()))
	l.Metrics.SimulatedTime.Set(float64(l.finalTimestamp))
}

func eventKindLabel(k simqueue.Kind) string {
	switch k {
	case simqueue.KindNewTick:
		return "new_tick"
	case simqueue.KindClientTick:
		return "client_tick"
	case simqueue.KindActionComplete:
		return "action_complete"
	case simqueue.KindResponse:
		return "response"
	case simqueue.KindPush:
		return "push"
	default:
		return "unknown"
	}
}

func (l *Loop) process(ev simqueue.Event) {
	switch ev.Kind {
	case simqueue.KindNewTick:
		l.processNewTick(ev)
	case simqueue.KindClientTick:
		l.processClientTick(ev)
	case simqueue.KindActionComplete:
		l.processActionComplete(ev)
	case simqueue.KindResponse:
		l.processResponse(ev)
	case simqueue.KindPush:
		l.processPush(ev)
	}
}

func (l *Loop) processNewTick(ev simqueue.Event) {
	sym, err := l.Symbols.ByIndex(ev.SymbolIndex)
	if err != nil {
		return
	}
	sym.SetPrice(ev.Tick.Bid, ev.Tick.Ask)

	due := ev.Tick.Timestamp + l.Settings.PingNS
	l.Queue.Push(simqueue.ClientTickEvent(l.Queue.NextSeq(), due, ev.SymbolIndex, ev.Tick))

	for _, push := range l.Evaluate.Evaluate(ev.SymbolIndex, ev.Tick.Bid, ev.Tick.Ask, ev.Tick.Timestamp) {
		l.Queue.Push(simqueue.PushEvent(l.Queue.NextSeq(), due, push))
	}

	if next, ok := sym.Next(); ok {
		l.Queue.Push(simqueue.NewTickEvent(l.Queue.NextSeq(), ev.SymbolIndex, next))
	}
}

func (l *Loop) processClientTick(ev simqueue.Event) {
	sym, err := l.Symbols.ByIndex(ev.ClientSymbolIndex)
	if err != nil {
		return
	}
	sym.SendClient(ev.ClientTick)
}

func (l *Loop) processActionComplete(ev simqueue.Event) {
	result := l.Executor.Execute(ev.Action, ev.Timestamp)
	due := ev.Timestamp + l.Settings.PingNS
	l.Queue.Push(simqueue.ResponseEvent(l.Queue.NextSeq(), due, ev.Reply, result))
}

func (l *Loop) processResponse(ev simqueue.Event) {
	ev.Reply.Resolve(ev.Result)
	l.Push.SendBlocking(ev.Result)
}

// processPush delivers an automatic fill/close notification queued by
// processNewTick, now that its T + ping_ns delay has elapsed.
func (l *Loop) processPush(ev simqueue.Event) {
	if err := l.Push.Send(ev.Result); err != nil {
		l.Logger.Warning(logging.TimestampString(ev.Timestamp), "push sink send failed: %v", err)
		if l.Metrics != nil {
			l.Metrics.PushSinkDrops.Inc()
		}
	}
}
