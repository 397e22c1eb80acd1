package ledger

import (
	"context"
	"errors"
	"testing"

	"kopilka/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), NewMemoryPersister())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func tx(typ core.TransactionType, amount float64, category, date string) core.TransactionInput {
	return core.TransactionInput{Type: typ, Amount: amount, Category: category, Date: date}
}

func TestBalanceEmpty(t *testing.T) {
	s := newTestStore(t)
	if got := s.Balance(); got != 0 {
		t.Fatalf("empty ledger balance = %v, want 0", got)
	}
}

func TestBalanceMixed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddTransaction(ctx, tx(core.Income, 5000, "Зарплата", "2024-01-01"))
	s.AddTransaction(ctx, tx(core.Income, 1000, "Подарки", "2024-01-15"))
	s.AddTransaction(ctx, tx(core.Expense, 1500, "Еда", "2024-01-05"))
	s.AddTransaction(ctx, tx(core.Expense, 800, "Транспорт", "2024-01-10"))
	s.AddTransaction(ctx, tx(core.Expense, 200, "Развлечения", "2024-01-20"))

	if got := s.Balance(); got != 3500 {
		t.Fatalf("balance = %v, want 3500", got)
	}
}

func TestBalanceOrderIndependent(t *testing.T) {
	ctx := context.Background()
	a := newTestStore(t)
	b := newTestStore(t)
	entries := []core.TransactionInput{
		tx(core.Expense, 300, "Еда", "2024-01-02"),
		tx(core.Income, 1000, "Зарплата", "2024-01-01"),
		tx(core.Expense, 200, "Транспорт", "2024-01-03"),
	}
	for _, e := range entries {
		a.AddTransaction(ctx, e)
	}
	for i := len(entries) - 1; i >= 0; i-- {
		b.AddTransaction(ctx, entries[i])
	}
	if a.Balance() != b.Balance() {
		t.Fatalf("balance depends on insertion order: %v vs %v", a.Balance(), b.Balance())
	}
}

func TestAddTransactionAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		id := s.AddTransaction(ctx, tx(core.Expense, 1, "Еда", "2024-01-01"))
		if id == "" {
			t.Fatalf("empty id at %d", i)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q at %d", id, i)
		}
		seen[id] = true
	}
	if s.TransactionCount() != 2000 {
		t.Fatalf("count = %d, want 2000", s.TransactionCount())
	}
}

func TestAddTransactionStoresFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := s.AddTransaction(ctx, core.TransactionInput{
		Type:     core.Income,
		Amount:   1000,
		Category: "Зарплата",
		Date:     "2024-01-01",
		Comment:  "аванс",
	})

	snap := s.Snapshot()
	if len(snap.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(snap.Transactions))
	}
	got := snap.Transactions[0]
	if got.ID != id || got.Type != core.Income || got.Amount != 1000 ||
		got.Category != "Зарплата" || got.Date != "2024-01-01" || got.Comment != "аванс" {
		t.Fatalf("stored record mismatch: %+v", got)
	}
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := s.AddTransaction(ctx, tx(core.Income, 1000, "Зарплата", "2024-01-01"))
	other := s.AddTransaction(ctx, tx(core.Expense, 50, "Еда", "2024-01-02"))

	s.UpdateTransaction(ctx, id, tx(core.Income, 2000, "Зарплата", "2024-01-01"))

	snap := s.Snapshot()
	if snap.Transactions[0].ID != id || snap.Transactions[0].Amount != 2000 {
		t.Fatalf("update missed target: %+v", snap.Transactions[0])
	}
	if snap.Transactions[1].ID != other || snap.Transactions[1].Amount != 50 {
		t.Fatalf("update touched unrelated record: %+v", snap.Transactions[1])
	}
}

func TestUpdateTransactionUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddTransaction(ctx, tx(core.Income, 1000, "Зарплата", "2024-01-01"))
	before := s.Snapshot()

	s.UpdateTransaction(ctx, "missing", tx(core.Expense, 9999, "Еда", "2024-02-01"))

	after := s.Snapshot()
	if len(after.Transactions) != len(before.Transactions) {
		t.Fatalf("collection length changed on miss")
	}
	if after.Transactions[0] != before.Transactions[0] {
		t.Fatalf("record changed on miss: %+v", after.Transactions[0])
	}
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := s.AddTransaction(ctx, tx(core.Income, 1000, "Зарплата", "2024-01-01"))
	keep := s.AddTransaction(ctx, tx(core.Expense, 50, "Еда", "2024-01-02"))

	s.DeleteTransaction(ctx, id)
	if s.TransactionCount() != 1 {
		t.Fatalf("count after delete = %d, want 1", s.TransactionCount())
	}
	if s.Snapshot().Transactions[0].ID != keep {
		t.Fatalf("wrong record deleted")
	}

	s.DeleteTransaction(ctx, "missing")
	if s.TransactionCount() != 1 {
		t.Fatalf("miss changed the collection")
	}
}

func TestTransactionsByTypePreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddTransaction(ctx, tx(core.Income, 1000, "Зарплата", "2024-01-01"))
	s.AddTransaction(ctx, tx(core.Expense, 500, "Еда", "2024-01-02"))
	s.AddTransaction(ctx, tx(core.Income, 200, "Подарки", "2024-01-03"))

	incomes := s.TransactionsByType(core.Income)
	if len(incomes) != 2 {
		t.Fatalf("expected 2 incomes, got %d", len(incomes))
	}
	if incomes[0].Amount != 1000 || incomes[1].Amount != 200 {
		t.Fatalf("insertion order lost: %+v", incomes)
	}

	expenses := s.TransactionsByType(core.Expense)
	if len(expenses) != 1 || expenses[0].Amount != 500 {
		t.Fatalf("expected the single expense, got %+v", expenses)
	}
}

func TestTransactionsByDateRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddTransaction(ctx, tx(core.Income, 1000, "Зарплата", "2024-01-01"))
	s.AddTransaction(ctx, tx(core.Expense, 500, "Еда", "2024-01-15"))
	s.AddTransaction(ctx, tx(core.Expense, 200, "Транспорт", "2024-02-01"))

	january := s.TransactionsByDateRange("2024-01-01", "2024-01-31")
	if len(january) != 2 {
		t.Fatalf("january count = %d, want 2", len(january))
	}
	// Bounds are inclusive on both ends.
	exact := s.TransactionsByDateRange("2024-02-01", "2024-02-01")
	if len(exact) != 1 {
		t.Fatalf("inclusive bound missed: %d", len(exact))
	}
	if got := s.TransactionsByDateRange("2024-12-01", "2024-12-31"); len(got) != 0 {
		t.Fatalf("expected empty range, got %d", len(got))
	}
}

func TestClearAllDataResetsToSeed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddTransaction(ctx, tx(core.Expense, 500, "Еда", "2024-01-02"))
	s.AddCategory(ctx, core.CategoryInput{Name: "Мелкие траты", Color: "#9E9E9E"})

	s.ClearAllData(ctx)

	if s.TransactionCount() != 0 {
		t.Fatalf("transactions not cleared")
	}
	cats := s.Categories()
	seed := core.SeedCategories()
	if len(cats) != len(seed) {
		t.Fatalf("categories = %d, want seed set of %d", len(cats), len(seed))
	}
	for i := range seed {
		if cats[i] != seed[i] {
			t.Fatalf("category %d = %+v, want %+v", i, cats[i], seed[i])
		}
	}
}

func TestUpdateCategoryMergesPatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := s.AddCategory(ctx, core.CategoryInput{Name: "Кафе", Color: "#FF5722", Icon: "☕"})

	limit := 3000.0
	quick := true
	s.UpdateCategory(ctx, id, core.CategoryPatch{Limit: &limit, IsQuickAccess: &quick})

	var got core.Category
	for _, c := range s.Categories() {
		if c.ID == id {
			got = c
		}
	}
	if got.Name != "Кафе" || got.Color != "#FF5722" || got.Icon != "☕" {
		t.Fatalf("patch clobbered unset fields: %+v", got)
	}
	if got.Limit != 3000 || !got.IsQuickAccess {
		t.Fatalf("patch fields not applied: %+v", got)
	}

	before := s.Categories()
	s.UpdateCategory(ctx, "missing", core.CategoryPatch{Limit: &limit})
	after := s.Categories()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("miss mutated categories")
		}
	}
}

func TestRestoreAssignsFreshIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddTransaction(ctx, tx(core.Expense, 500, "Еда", "2024-01-02"))

	s.Restore(ctx,
		[]core.Category{{ID: "old-cat", Name: "Еда", Color: "#4CAF50"}},
		[]core.Transaction{{ID: "old-tx", Type: core.Income, Amount: 100, Category: "Еда", Date: "2024-02-01"}},
	)

	snap := s.Snapshot()
	if len(snap.Transactions) != 1 || len(snap.Categories) != 1 {
		t.Fatalf("restore did not replace collections: %d/%d", len(snap.Transactions), len(snap.Categories))
	}
	if snap.Transactions[0].ID == "old-tx" || snap.Categories[0].ID == "old-cat" {
		t.Fatalf("imported ids were reused")
	}
	if snap.Transactions[0].Amount != 100 || snap.Categories[0].Name != "Еда" {
		t.Fatalf("restore lost field values")
	}
}

func TestHydrationFromPersistedSnapshot(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()

	first, err := Open(ctx, p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id := first.AddTransaction(ctx, tx(core.Income, 700, "Зарплата", "2024-03-01"))

	second, err := Open(ctx, p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	snap := second.Snapshot()
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != id {
		t.Fatalf("hydration lost the persisted transaction: %+v", snap.Transactions)
	}
}

type failingPersister struct{}

func (failingPersister) Save(context.Context, Snapshot) error {
	return errors.New("disk full")
}
func (failingPersister) Load(context.Context) (*Snapshot, error) { return nil, nil }

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, failingPersister{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	id := s.AddTransaction(ctx, tx(core.Expense, 42, "Еда", "2024-01-01"))
	if id == "" {
		t.Fatalf("add should succeed despite persistence failure")
	}
	if s.TransactionCount() != 1 {
		t.Fatalf("in-memory mutation rolled back on persistence failure")
	}
}

type recordingObserver struct {
	events []Event
}

func (o *recordingObserver) LedgerChanged(_ context.Context, ev Event) error {
	o.events = append(o.events, ev)
	return nil
}

func TestObserverNotifications(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	obs := &recordingObserver{}
	s.Subscribe(obs)

	id := s.AddTransaction(ctx, tx(core.Expense, 10, "Еда", "2024-01-01"))
	s.UpdateTransaction(ctx, "missing", tx(core.Expense, 10, "Еда", "2024-01-01"))
	s.DeleteTransaction(ctx, id)
	s.ClearAllData(ctx)

	want := []Op{OpAddTransaction, OpDeleteTransaction, OpClear}
	if len(obs.events) != len(want) {
		t.Fatalf("events = %+v, want ops %v", obs.events, want)
	}
	for i, op := range want {
		if obs.events[i].Op != op {
			t.Fatalf("event %d = %q, want %q", i, obs.events[i].Op, op)
		}
	}
	// Misses must not notify; the first two real mutations carry the id.
	if obs.events[0].ID != id || obs.events[1].ID != id {
		t.Fatalf("events missing transaction id: %+v", obs.events)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddTransaction(ctx, tx(core.Expense, 10, "Еда", "2024-01-01"))

	snap := s.Snapshot()
	snap.Transactions[0].Amount = 9999
	snap.Categories[0].Name = "mutated"

	if s.Snapshot().Transactions[0].Amount == 9999 {
		t.Fatalf("snapshot shares transaction backing array with the store")
	}
	if s.Categories()[0].Name == "mutated" {
		t.Fatalf("snapshot shares category backing array with the store")
	}
}
