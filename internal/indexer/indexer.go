package indexer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/paritytracer/internal/parity"
	"github.com/hedisam/paritytracer/internal/store"
	"github.com/hedisam/pipeline/chans"
)

type Client interface {
	FetchBlockTraces(ctx context.Context, params []parity.TraceParams) ([]*parity.Trace, error)
	FetchBeneficiaries(ctx context.Context, from, to uint64) ([]*parity.Beneficiary, error)
	GetBlock(ctx context.Context, number int64) (*parity.Block, error)
}

type TraceStore interface {
	InsertBlockTraces(ctx context.Context, blockNumber uint64, traces []*store.TraceRecord) error
}

type BeneficiaryStore interface {
	InsertBeneficiaries(ctx context.Context, beneficiaries []*store.BeneficiaryRecord) error
}

type PendingTxStore interface {
	InsertPendingTransaction(ctx context.Context, tx *store.PendingTxRecord) error
}

// Indexer turns confirmed blocks into canonical trace and beneficiary
// records. A block is only marked indexed once both its replay traces and
// its reward beneficiaries landed in the store.
type Indexer struct {
	logger           *logrus.Logger
	client           Client
	traceStore       TraceStore
	beneficiaryStore BeneficiaryStore
	pendingStore     PendingTxStore
}

func New(logger *logrus.Logger, client Client, traceStore TraceStore, beneficiaryStore BeneficiaryStore, pendingStore PendingTxStore) *Indexer {
	return &Indexer{
		logger:           logger,
		client:           client,
		traceStore:       traceStore,
		beneficiaryStore: beneficiaryStore,
		pendingStore:     pendingStore,
	}
}

// Start consumes confirmed blocks until the context is cancelled or the
// channel closes. A block that fails to index is logged and skipped; the
// stream keeps going.
func (ix *Indexer) Start(ctx context.Context, in <-chan *parity.Block) {
	for block := range chans.ReceiveOrDoneSeq(ctx, in) {
		err := ix.indexBlock(ctx, block)
		if err != nil {
			ix.logger.WithFields(logrus.Fields{
				"block_hash":   block.Hash,
				"block_number": block.Number,
			}).WithError(err).Error("Failed to index block")
			blocksFailedProcessing.Inc()
		}
	}
}

// StartPending consumes newly seen pending pool transactions.
func (ix *Indexer) StartPending(ctx context.Context, in <-chan *parity.PendingTransaction) {
	for tx := range chans.ReceiveOrDoneSeq(ctx, in) {
		err := ix.pendingStore.InsertPendingTransaction(ctx, PendingTxRecord(tx))
		if err != nil {
			ix.logger.WithField("tx_hash", tx.Hash).WithError(err).Error("Failed to store pending transaction")
			continue
		}
		indexedPendingTxs.Inc()
	}
}

// Backfill indexes the inclusive block range [from, to]. Beneficiaries for
// the whole range are fetched as one batch up front; traces are fetched
// block by block since each block needs its transaction hashes first.
func (ix *Indexer) Backfill(ctx context.Context, from, to uint64) error {
	err := ix.indexBeneficiaries(ctx, from, to)
	if err != nil {
		return fmt.Errorf("backfill beneficiaries for range %d..%d: %w", from, to, err)
	}

	for number := from; number <= to; number++ {
		block, err := ix.client.GetBlock(ctx, int64(number))
		if err != nil {
			return fmt.Errorf("backfill block %d: %w", number, err)
		}
		err = ix.indexTraces(ctx, block)
		if err != nil {
			return fmt.Errorf("backfill traces of block %d: %w", number, err)
		}
	}

	ix.logger.WithFields(logrus.Fields{
		"from": from,
		"to":   to,
	}).Info("Backfill completed")

	return nil
}

func (ix *Indexer) indexBlock(ctx context.Context, block *parity.Block) error {
	if block == nil {
		return nil
	}

	err := ix.indexTraces(ctx, block)
	if err != nil {
		return err
	}

	err = ix.indexBeneficiaries(ctx, block.Number, block.Number)
	if err != nil {
		return err
	}

	indexedBlocks.Inc()
	ix.logger.WithFields(logrus.Fields{
		"block_number": block.Number,
		"total_txs":    len(block.Transactions),
	}).Debug("Successfully indexed block")

	return nil
}

func (ix *Indexer) indexTraces(ctx context.Context, block *parity.Block) error {
	traces, err := ix.client.FetchBlockTraces(ctx, parity.TraceParamsForBlock(block))
	if err != nil {
		return fmt.Errorf("fetch traces: %w", err)
	}

	records, err := TraceRecords(traces)
	if err != nil {
		return fmt.Errorf("convert traces: %w", err)
	}

	err = ix.traceStore.InsertBlockTraces(ctx, block.Number, records)
	if err != nil {
		return fmt.Errorf("store traces: %w", err)
	}

	indexedTraces.Add(float64(len(records)))
	return nil
}

func (ix *Indexer) indexBeneficiaries(ctx context.Context, from, to uint64) error {
	beneficiaries, err := ix.client.FetchBeneficiaries(ctx, from, to)
	if err != nil {
		return fmt.Errorf("fetch beneficiaries: %w", err)
	}

	err = ix.beneficiaryStore.InsertBeneficiaries(ctx, BeneficiaryRecords(beneficiaries))
	if err != nil {
		return fmt.Errorf("store beneficiaries: %w", err)
	}

	return nil
}
