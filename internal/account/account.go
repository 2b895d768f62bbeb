// Package account implements the accounts registry: the mapping from
// account identity to Account, and the uniform per-symbol slot allocation
// new accounts need when a new tickstream is registered.
package account

import (
	"github.com/google/uuid"

	"github.com/ahlstrom-labs/simbroker/internal/ledger"
	"github.com/ahlstrom-labs/simbroker/internal/wire"
)

// Account is a single simulated trading account.
type Account struct {
	UUID   uuid.UUID
	Ledger *ledger.Ledger
	Live   bool // false for a demo/backtest account
}

// Registry maps account identity to Account. The simulation loop is the
// sole mutator for the duration of a run (spec.md §3 ownership rules).
type Registry struct {
	accounts map[uuid.UUID]*Account
}

// NewRegistry creates an empty accounts registry.
func NewRegistry() *Registry {
	return &Registry{accounts: make(map[uuid.UUID]*Account)}
}

// Add registers a new account, keyed by its own UUID (spec.md §9 open
// question 2 — the original source inserted under a freshly generated key
// unrelated to Account.uuid; this implementation keys by Account.UUID as
// the spec requires).
func (r *Registry) Add(acct *Account) {
	r.accounts[acct.UUID] = acct
}

// Get looks up an account by UUID.
func (r *Registry) Get(id uuid.UUID) (*Account, error) {
	acct, ok := r.accounts[id]
	if !ok {
		return nil, wire.ErrNoSuchAccount
	}
	return acct, nil
}

// All returns every registered account. The returned slice shares no
// backing array with the registry's internal map, but the *Account
// pointers themselves alias live state.
func (r *Registry) All() []*Account {
	out := make([]*Account, 0, len(r.accounts))
	for _, acct := range r.accounts {
		out = append(out, acct)
	}
	return out
}

// AddSymbol is a no-op placeholder invoked whenever a new tickstream is
// registered so each account reserves whatever uniform per-symbol state it
// needs (spec.md §4.1 — symbols are addressed by a dense index, and
// accounts need no symbol-keyed storage of their own since positions
// already carry their own SymbolIndex). Kept as an explicit call site so a
// future per-symbol account field has one place to initialize from.
func (r *Registry) AddSymbol() {}
