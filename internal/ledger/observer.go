package ledger

import "context"

type Op string

const (
	OpAddTransaction    Op = "transaction.add"
	OpUpdateTransaction Op = "transaction.update"
	OpDeleteTransaction Op = "transaction.delete"
	OpAddCategory       Op = "category.add"
	OpUpdateCategory    Op = "category.update"
	OpClear             Op = "ledger.clear"
	OpRestore           Op = "ledger.restore"
)

// Event describes a completed mutation. ID is empty for whole-ledger
// operations (clear, restore).
type Event struct {
	Op Op     `json:"op"`
	ID string `json:"id,omitempty"`
}

// Observer receives change notifications after each successful mutation.
// Notification is synchronous and best-effort: errors are logged by the
// store and never surfaced to the mutating caller.
type Observer interface {
	LedgerChanged(ctx context.Context, ev Event) error
}
