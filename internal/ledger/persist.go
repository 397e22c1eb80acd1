package ledger

import (
	"context"
	"sync"

	"kopilka/internal/core"
)

// Snapshot is the full ledger state at a point in time. It doubles as the
// persisted payload layout: {"transactions": [...], "categories": [...]}.
type Snapshot struct {
	Transactions []core.Transaction `json:"transactions"`
	Categories   []core.Category    `json:"categories"`
}

// Persister writes and reads the durable snapshot slot. Save is called
// synchronously after every mutation with the complete state; Load returns
// nil (no error) when the slot is empty.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
}

// MemoryPersister keeps the snapshot in process memory. It backs the
// "memory" data backend and the tests.
type MemoryPersister struct {
	mu   sync.Mutex
	snap *Snapshot
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (p *MemoryPersister) Save(_ context.Context, snap Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = &snap
	return nil
}

func (p *MemoryPersister) Load(_ context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snap == nil {
		return nil, nil
	}
	snap := *p.snap
	return &snap, nil
}
