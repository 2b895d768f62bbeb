package symbol

import (
	"errors"
	"testing"

	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

func TestTableAddAndLookup(t *testing.T) {
	tbl := NewTable()
	sym := NewOneshot("EURUSD", 100, 101, true, 5)

	idx, err := tbl.Add("EURUSD", sym)
	if err != nil {
		t.Fatalf("Add() = %v, want nil", err)
	}
	if idx != 0 {
		t.Fatalf("Add() idx = %d, want 0", idx)
	}

	if !tbl.Contains("EURUSD") {
		t.Fatal("Contains(EURUSD) = false, want true")
	}

	gotIdx, err := tbl.IndexOf("EURUSD")
	if err != nil || gotIdx != 0 {
		t.Fatalf("IndexOf() = %d, %v; want 0, nil", gotIdx, err)
	}

	byIdx, err := tbl.ByIndex(0)
	if err != nil || byIdx != sym {
		t.Fatalf("ByIndex(0) = %v, %v; want original symbol", byIdx, err)
	}

	byName, err := tbl.ByName("EURUSD")
	if err != nil || byName != sym {
		t.Fatalf("ByName() = %v, %v; want original symbol", byName, err)
	}

	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
	if len(tbl.All()) != 1 {
		t.Fatalf("len(All()) = %d, want 1", len(tbl.All()))
	}
}

func TestTableAddDuplicateFails(t *testing.T) {
	tbl := NewTable()
	tbl.Add("EURUSD", NewOneshot("EURUSD", 100, 101, true, 5))
	if _, err := tbl.Add("EURUSD", NewOneshot("EURUSD", 100, 101, true, 5)); err == nil {
		t.Fatal("Add() duplicate = nil, want error")
	}
}

func TestTableLookupMissingSymbol(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.IndexOf("GBPUSD"); !errors.Is(err, wire.ErrNoSuchSymbol) {
		t.Fatalf("IndexOf(missing) = %v, want ErrNoSuchSymbol", err)
	}
	if _, err := tbl.ByName("GBPUSD"); !errors.Is(err, wire.ErrNoSuchSymbol) {
		t.Fatalf("ByName(missing) = %v, want ErrNoSuchSymbol", err)
	}
	if _, err := tbl.ByIndex(4); !errors.Is(err, wire.ErrNoSuchSymbol) {
		t.Fatalf("ByIndex(out of range) = %v, want ErrNoSuchSymbol", err)
	}
	if _, err := tbl.ByIndex(-1); !errors.Is(err, wire.ErrNoSuchSymbol) {
		t.Fatalf("ByIndex(-1) = %v, want ErrNoSuchSymbol", err)
	}
}
