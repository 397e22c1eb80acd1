// Package ledger owns the transaction and category collections. It is the
// only component that mutates them; metrics and codecs work on read-only
// snapshots taken from here.
package ledger

import (
	"context"
	"log/slog"
	"sync"

	"kopilka/internal/core"
	"kopilka/internal/obs"
)

// Store holds the ledger in memory and writes the full snapshot through the
// persister after every mutation. Reads hand out copies; callers never see
// the internal slices.
//
// The store performs no input validation. Callers are expected to validate
// at the boundary; records passed in are persisted as given.
type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	categories   []core.Category

	persister Persister
	observers []Observer
}

// Open hydrates a store from the persisted snapshot. A missing snapshot
// initializes empty transactions and the seed categories.
func Open(ctx context.Context, p Persister) (*Store, error) {
	s := &Store{persister: p}
	snap, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		s.transactions = snap.Transactions
		s.categories = snap.Categories
		slog.InfoContext(ctx, "Ledger hydrated from snapshot",
			"transactions", len(s.transactions),
			"categories", len(s.categories))
	} else {
		s.categories = core.SeedCategories()
		slog.InfoContext(ctx, "Ledger initialized with seed categories",
			"categories", len(s.categories))
	}
	return s, nil
}

// Subscribe registers an observer for change notifications. Observers are
// invoked synchronously after each successful mutation; their errors are
// logged and never propagated to the mutating caller.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// AddTransaction assigns a fresh id, appends the record and persists the
// updated snapshot. The generated id is returned so callers never need to
// re-scan the collection for the record they just created.
func (s *Store) AddTransaction(ctx context.Context, in core.TransactionInput) string {
	s.mu.Lock()
	id := s.newTransactionID()
	s.transactions = append(s.transactions, in.Record(id))
	s.persistLocked(ctx)
	s.mu.Unlock()

	obs.Mutations.WithLabelValues(string(OpAddTransaction)).Inc()
	s.notify(ctx, Event{Op: OpAddTransaction, ID: id})
	return id
}

// UpdateTransaction replaces the record matching id, keeping the id itself.
// An unknown id leaves the store untouched: the miss is intentionally
// silent and only visible in the debug log.
func (s *Store) UpdateTransaction(ctx context.Context, id string, in core.TransactionInput) {
	s.mu.Lock()
	found := false
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i] = in.Record(id)
			found = true
			break
		}
	}
	if found {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if !found {
		slog.DebugContext(ctx, "Update for unknown transaction ignored", "id", id)
		return
	}
	obs.Mutations.WithLabelValues(string(OpUpdateTransaction)).Inc()
	s.notify(ctx, Event{Op: OpUpdateTransaction, ID: id})
}

// DeleteTransaction removes the record matching id; a miss is a silent no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	s.mu.Lock()
	found := false
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			found = true
			break
		}
	}
	if found {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if !found {
		slog.DebugContext(ctx, "Delete for unknown transaction ignored", "id", id)
		return
	}
	obs.Mutations.WithLabelValues(string(OpDeleteTransaction)).Inc()
	s.notify(ctx, Event{Op: OpDeleteTransaction, ID: id})
}

// AddCategory assigns a fresh id, appends and persists. Name uniqueness is
// not enforced here; the boundary decides whether duplicates are acceptable.
func (s *Store) AddCategory(ctx context.Context, in core.CategoryInput) string {
	s.mu.Lock()
	id := s.newCategoryID()
	s.categories = append(s.categories, in.Record(id))
	s.persistLocked(ctx)
	s.mu.Unlock()

	obs.Mutations.WithLabelValues(string(OpAddCategory)).Inc()
	s.notify(ctx, Event{Op: OpAddCategory, ID: id})
	return id
}

// UpdateCategory merges the non-nil patch fields into the category matching
// id; a miss is a silent no-op. Renaming does not touch transactions that
// reference the old name.
func (s *Store) UpdateCategory(ctx context.Context, id string, patch core.CategoryPatch) {
	s.mu.Lock()
	found := false
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		c := &s.categories[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Color != nil {
			c.Color = *patch.Color
		}
		if patch.Icon != nil {
			c.Icon = *patch.Icon
		}
		if patch.IsQuickAccess != nil {
			c.IsQuickAccess = *patch.IsQuickAccess
		}
		if patch.Limit != nil {
			c.Limit = *patch.Limit
		}
		found = true
		break
	}
	if found {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if !found {
		slog.DebugContext(ctx, "Update for unknown category ignored", "id", id)
		return
	}
	obs.Mutations.WithLabelValues(string(OpUpdateCategory)).Inc()
	s.notify(ctx, Event{Op: OpUpdateCategory, ID: id})
}

// ClearAllData resets transactions to empty and categories to the seed set.
// User-added categories are discarded; this is a full reset, not a partial
// clear.
func (s *Store) ClearAllData(ctx context.Context) {
	s.mu.Lock()
	s.transactions = nil
	s.categories = core.SeedCategories()
	s.persistLocked(ctx)
	s.mu.Unlock()

	obs.Mutations.WithLabelValues(string(OpClear)).Inc()
	s.notify(ctx, Event{Op: OpClear})
}

// Restore replaces the whole ledger with the given records, assigning fresh
// ids throughout so that imported ids never collide with live ones. The
// final snapshot is persisted once.
func (s *Store) Restore(ctx context.Context, categories []core.Category, transactions []core.Transaction) {
	s.mu.Lock()
	s.transactions = nil
	s.categories = nil
	for _, c := range categories {
		c.ID = s.newCategoryID()
		s.categories = append(s.categories, c)
	}
	for _, t := range transactions {
		t.ID = s.newTransactionID()
		s.transactions = append(s.transactions, t)
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	obs.Mutations.WithLabelValues(string(OpRestore)).Inc()
	s.notify(ctx, Event{Op: OpRestore})
	slog.InfoContext(ctx, "Ledger restored from import",
		"transactions", len(transactions),
		"categories", len(categories))
}

// Balance returns the sum of income amounts minus the sum of expense
// amounts over the whole collection.
func (s *Store) Balance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, t := range s.transactions {
		if t.Type == core.Income {
			sum += t.Amount
		} else {
			sum -= t.Amount
		}
	}
	return sum
}

// TransactionsByType returns all transactions of the given type in
// insertion order.
func (s *Store) TransactionsByType(tt core.TransactionType) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.Type == tt {
			out = append(out, t)
		}
	}
	return out
}

// TransactionsByDateRange returns transactions with start <= date <= end.
// Plain string comparison is correct for zero-padded ISO dates.
func (s *Store) TransactionsByDateRange(start, end string) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.Date >= start && t.Date <= end {
			out = append(out, t)
		}
	}
	return out
}

// Snapshot returns a copy of the full ledger state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Categories returns a copy of the category collection in insertion order.
func (s *Store) Categories() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...)
}

// TransactionCount reports the number of stored transactions.
func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Transactions: append([]core.Transaction(nil), s.transactions...),
		Categories:   append([]core.Category(nil), s.categories...),
	}
}

// persistLocked writes the current snapshot through the persister. A write
// failure does not roll back the in-memory mutation: the error is logged
// and counted, and the operation is still reported as successful.
func (s *Store) persistLocked(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		obs.PersistFailures.Inc()
		slog.ErrorContext(ctx, "Snapshot persistence failed, in-memory state kept",
			"error", err,
			"transactions", len(s.transactions),
			"categories", len(s.categories))
	}
}

func (s *Store) notify(ctx context.Context, ev Event) {
	s.mu.Lock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()
	for _, o := range observers {
		if err := o.LedgerChanged(ctx, ev); err != nil {
			slog.WarnContext(ctx, "Ledger observer failed", "op", ev.Op, "error", err)
		}
	}
}
