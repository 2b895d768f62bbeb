package wire

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ahlstrom-labs/simbroker/internal/position"
)

func TestOkAndErrIsOk(t *testing.T) {
	ok := Ok(Pong(10))
	if !ok.IsOk() {
		t.Fatal("Ok(...).IsOk() = false, want true")
	}
	failed := Err(ErrNoSuchAccount)
	if failed.IsOk() {
		t.Fatal("Err(...).IsOk() = true, want false")
	}
}

func TestPositionOpenedCarriesFields(t *testing.T) {
	id := uuid.New()
	pos := position.Position{Long: true}
	result := PositionOpened(id, pos, 123)

	if result.Kind != MsgPositionOpened {
		t.Fatalf("Kind = %v, want MsgPositionOpened", result.Kind)
	}
	if result.PositionID != id {
		t.Fatalf("PositionID = %v, want %v", result.PositionID, id)
	}
	if result.Timestamp != 123 {
		t.Fatalf("Timestamp = %d, want 123", result.Timestamp)
	}
}

func TestPositionClosedCarriesReason(t *testing.T) {
	id := uuid.New()
	result := PositionClosed(id, position.Position{}, position.ReasonStopLoss, 456)
	if result.Kind != MsgPositionClosed {
		t.Fatalf("Kind = %v, want MsgPositionClosed", result.Kind)
	}
	if result.Reason != position.ReasonStopLoss {
		t.Fatalf("Reason = %v, want ReasonStopLoss", result.Reason)
	}
}
