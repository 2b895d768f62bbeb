package position

import (
	"fmt"
	"time"
)

// Transition describes one allowed lifecycle move and the condition that
// triggers it.
type Transition struct {
	From        State
	To          State
	Condition   string
	Description string
}

// ValidTransitions enumerates every lifecycle move the simulation loop is
// allowed to make. Unlike the teacher's multi-state "football system", this
// lifecycle only ever moves forward: pending -> open -> closed. There is no
// return transition, mirroring spec.md's "no state regression" invariant.
var ValidTransitions = []Transition{
	{StatePending, StateOpen, "pending_filled", "Pending order satisfied by a tick and opened"},
	{StatePending, StateClosed, "market_order_filled", "Market order opened and closed instantly (size-0 close)"},
	{StateOpen, StateClosed, "closed", "Position closed via resize-to-zero, stop, take-profit, or explicit close"},
}

var transitionLookup map[State]map[State]map[string]bool

func init() {
	transitionLookup = make(map[State]map[State]map[string]bool)
	for _, tr := range ValidTransitions {
		if transitionLookup[tr.From] == nil {
			transitionLookup[tr.From] = make(map[State]map[string]bool)
		}
		if transitionLookup[tr.From][tr.To] == nil {
			transitionLookup[tr.From][tr.To] = make(map[string]bool)
		}
		transitionLookup[tr.From][tr.To][tr.Condition] = true
	}
}

// Lifecycle tracks the transition history of a single position, guarding
// against the position ever regressing to an earlier state. It is a thin
// bookkeeping layer on top of Position.CurrentState: the position's fields
// remain the source of truth, this just validates *how* they may change.
type Lifecycle struct {
	current        State
	transitionTime time.Time
	transitions    []Transition
}

// NewLifecycle creates a lifecycle tracker starting in the pending state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{current: StatePending}
}

// CurrentState returns the last validated state.
func (l *Lifecycle) CurrentState() State {
	return l.current
}

// IsValidTransition reports whether moving to `to` under `condition` is
// allowed from the current state.
func (l *Lifecycle) IsValidTransition(to State, condition string) error {
	if fromMap, ok := transitionLookup[l.current]; ok {
		if toMap, ok := fromMap[to]; ok {
			if toMap[condition] {
				return nil
			}
		}
	}
	return fmt.Errorf("invalid position transition from %s to %s on condition %q", l.current, to, condition)
}

// Transition validates and records a lifecycle move. now is the event
// timestamp driving the transition (broker time, not wall-clock), recorded
// only for observability.
func (l *Lifecycle) Transition(to State, condition string, now uint64) error {
	if err := l.IsValidTransition(to, condition); err != nil {
		return err
	}
	from := l.current
	l.current = to
	l.transitionTime = time.Unix(0, int64(now))
	l.transitions = append(l.transitions, Transition{From: from, To: to, Condition: condition})
	return nil
}

// TransitionTime returns the wall-clock-shaped time.Time derived from the
// last transition's broker timestamp (nanoseconds since epoch 0, not actual
// wall time — useful only for formatting in logs).
func (l *Lifecycle) TransitionTime() time.Time {
	return l.transitionTime
}
