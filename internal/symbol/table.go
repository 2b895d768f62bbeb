package symbol

import "github.com/ahlstrom-labs/simbroker/internal/wire"

// Table is the dense, index-addressed collection of registered symbols.
// Positions reference symbols by SymbolIndex rather than by name so the
// simulation's hot path never does a string lookup (spec.md §4.1).
type Table struct {
	byName  map[string]int
	symbols []*Symbol
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{byName: make(map[string]int)}
}

// Add registers sym under name, assigning it the next dense index. Returns
// a Message error if the name is already registered.
func (t *Table) Add(name string, sym *Symbol) (int, error) {
	if _, exists := t.byName[name]; exists {
		return 0, wire.NewMessageError("symbol %q already registered", name)
	}
	idx := len(t.symbols)
	t.byName[name] = idx
	t.symbols = append(t.symbols, sym)
	return idx, nil
}

// Contains reports whether name is registered.
func (t *Table) Contains(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// IndexOf returns the dense index for name.
func (t *Table) IndexOf(name string) (int, error) {
	idx, ok := t.byName[name]
	if !ok {
		return 0, wire.ErrNoSuchSymbol
	}
	return idx, nil
}

// ByIndex returns the symbol at the given dense index.
func (t *Table) ByIndex(idx int) (*Symbol, error) {
	if idx < 0 || idx >= len(t.symbols) {
		return nil, wire.ErrNoSuchSymbol
	}
	return t.symbols[idx], nil
}

// ByName returns the symbol registered under name.
func (t *Table) ByName(name string) (*Symbol, error) {
	idx, err := t.IndexOf(name)
	if err != nil {
		return nil, err
	}
	return t.symbols[idx], nil
}

// Len returns the number of registered symbols.
func (t *Table) Len() int { return len(t.symbols) }

// All returns every registered symbol in index order.
func (t *Table) All() []*Symbol { return t.symbols }
