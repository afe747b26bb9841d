package memdb

import (
	"context"
	"slices"
	"sync"

	"github.com/hedisam/paritytracer/internal/store"
)

// BeneficiaryStore holds block reward beneficiaries keyed by block number.
type BeneficiaryStore struct {
	blockToBeneficiaries map[uint64][]*store.BeneficiaryRecord
	mu                   sync.RWMutex
}

func NewBeneficiaryStore(opts ...Option) *BeneficiaryStore {
	cfg := &config{memSize: DefaultMemSize}
	for opt := range slices.Values(opts) {
		opt(cfg)
	}

	return &BeneficiaryStore{
		blockToBeneficiaries: make(map[uint64][]*store.BeneficiaryRecord, cfg.memSize),
	}
}

// InsertBeneficiaries records the given reward credits under their block numbers.
func (s *BeneficiaryStore) InsertBeneficiaries(_ context.Context, beneficiaries []*store.BeneficiaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for beneficiary := range slices.Values(beneficiaries) {
		s.blockToBeneficiaries[beneficiary.BlockNumber] = append(s.blockToBeneficiaries[beneficiary.BlockNumber], beneficiary)
	}

	return nil
}

// GetBlockBeneficiaries returns the reward credits recorded for the given block.
func (s *BeneficiaryStore) GetBlockBeneficiaries(_ context.Context, blockNumber uint64) ([]*store.BeneficiaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	beneficiaries, ok := s.blockToBeneficiaries[blockNumber]
	if !ok {
		return nil, store.ErrNotFound
	}
	return beneficiaries, nil
}
