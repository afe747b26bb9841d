package memdb

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hedisam/paritytracer/internal/store"
)

const (
	// BlockNone is used to denote we haven't indexed any blocks yet.
	BlockNone = -1
)

// TraceStore holds canonical call traces of indexed blocks, keyed by the
// hash of the transaction they belong to.
type TraceStore struct {
	hashToTraces    map[string][]*store.TraceRecord
	currentBlockNum *atomic.Int64
	mu              sync.RWMutex
}

func NewTraceStore(opts ...Option) *TraceStore {
	cfg := &config{memSize: DefaultMemSize}
	for opt := range slices.Values(opts) {
		opt(cfg)
	}

	var currentBlockNum atomic.Int64
	currentBlockNum.Store(BlockNone)
	return &TraceStore{
		hashToTraces:    make(map[string][]*store.TraceRecord, cfg.memSize),
		currentBlockNum: &currentBlockNum,
	}
}

// InsertBlockTraces records the traces of one fully indexed block and
// advances the current block number. Re-inserting a block, e.g. a backfill
// range overlapping the live stream, replaces its transactions' traces
// instead of appending duplicates.
func (s *TraceStore) InsertBlockTraces(_ context.Context, blockNumber uint64, traces []*store.TraceRecord) error {
	byHash := make(map[string][]*store.TraceRecord)
	for trace := range slices.Values(traces) {
		byHash[trace.TransactionHash] = append(byHash[trace.TransactionHash], trace)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentBlockNum.Store(int64(blockNumber))
	maps.Copy(s.hashToTraces, byHash)

	return nil
}

// GetTransactionTraces returns the recorded traces of the given transaction.
func (s *TraceStore) GetTransactionTraces(_ context.Context, txHash string) ([]*store.TraceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	traces, ok := s.hashToTraces[txHash]
	if !ok {
		return nil, store.ErrNotFound
	}
	return traces, nil
}

// GetCurrentBlockNumber returns the last indexed block number.
func (s *TraceStore) GetCurrentBlockNumber(_ context.Context) (int64, error) {
	blockNum := s.currentBlockNum.Load()
	if blockNum == BlockNone {
		return BlockNone, store.ErrNotFound
	}

	return blockNum, nil
}
