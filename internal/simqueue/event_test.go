package simqueue

import (
	"testing"

	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

func TestReplySlotResolveAndWait(t *testing.T) {
	slot := NewReplySlot()
	want := wire.Ok(wire.Pong(42))
	slot.Resolve(want)

	got := slot.Wait()
	if got.Message.Kind != wire.MsgPong || got.Message.TimeReceived != 42 {
		t.Fatalf("Wait() = %+v, want %+v", got, want)
	}
}

func TestReplySlotDoubleResolvePanics(t *testing.T) {
	slot := NewReplySlot()
	slot.Resolve(wire.Ok(wire.Pong(1)))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double Resolve")
		}
	}()
	slot.Resolve(wire.Ok(wire.Pong(2)))
}

func TestActionCompleteEventCarriesDueTimestamp(t *testing.T) {
	reply := NewReplySlot()
	action := wire.Ping()
	ev := ActionCompleteEvent(7, 1000, [16]byte{}, action, reply)

	if ev.Kind != KindActionComplete {
		t.Fatalf("Kind = %v, want KindActionComplete", ev.Kind)
	}
	if ev.Timestamp != 1000 {
		t.Fatalf("Timestamp = %d, want 1000", ev.Timestamp)
	}
	if ev.Seq != 7 {
		t.Fatalf("Seq = %d, want 7", ev.Seq)
	}
	if ev.Reply != reply {
		t.Fatal("Reply pointer mismatch")
	}
}

func TestResponseEventCarriesResult(t *testing.T) {
	reply := NewReplySlot()
	result := wire.Ok(wire.Pong(99))
	ev := ResponseEvent(3, 500, reply, result)

	if ev.Kind != KindResponse {
		t.Fatalf("Kind = %v, want KindResponse", ev.Kind)
	}
	if ev.Timestamp != 500 {
		t.Fatalf("Timestamp = %d, want 500", ev.Timestamp)
	}
	if ev.Result.Message.TimeReceived != 99 {
		t.Fatalf("Result = %+v, want TimeReceived 99", ev.Result)
	}
}
