package memdb

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/hedisam/paritytracer/internal/store"
)

// PendingTxStore keeps the pending pool transactions seen so far, keyed by
// transaction hash.
type PendingTxStore struct {
	hashToTx map[string]*store.PendingTxRecord
	mu       sync.RWMutex
}

func NewPendingTxStore(opts ...Option) *PendingTxStore {
	cfg := &config{memSize: DefaultMemSize}
	for opt := range slices.Values(opts) {
		opt(cfg)
	}

	return &PendingTxStore{
		hashToTx: make(map[string]*store.PendingTxRecord, cfg.memSize),
	}
}

// InsertPendingTransaction records a pending transaction. Re-inserting the
// same hash overwrites the previous record.
func (s *PendingTxStore) InsertPendingTransaction(_ context.Context, tx *store.PendingTxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hashToTx[tx.Hash] = tx
	return nil
}

// ListPendingTransactions returns all recorded pending transactions.
func (s *PendingTxStore) ListPendingTransactions(_ context.Context) ([]*store.PendingTxRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Collect(maps.Values(s.hashToTx)), nil
}
