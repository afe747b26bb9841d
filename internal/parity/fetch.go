package parity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/paritytracer/internal/jsonrpc"
	"github.com/hedisam/pipeline/chans"
)

// Client fetches traces, beneficiaries and pending transactions from a
// Parity-style node. It holds no per-batch state; every fetch builds its own
// request batch and id map, so concurrent fetches don't interfere.
type Client struct {
	logger    *logrus.Logger
	transport jsonrpc.Transport
}

func NewClient(logger *logrus.Logger, transport jsonrpc.Transport) *Client {
	return &Client{
		logger:    logger,
		transport: transport,
	}
}

// FetchBlockTraces replays every given transaction in one batch and returns
// all call-level traces annotated with their origin context, in response
// order. If any call fails with a node-reported error the returned error is
// a *BatchError and no traces are returned.
func (c *Client) FetchBlockTraces(ctx context.Context, params []TraceParams) ([]*Trace, error) {
	if len(params) == 0 {
		return nil, nil
	}

	b := newBatch(params, traceReplayRequest)
	responses, err := c.transport.Dispatch(ctx, b.requests)
	if err != nil {
		return nil, fmt.Errorf("dispatch trace replay batch: %w", err)
	}

	traces, err := correlateTraces(b, responses)
	if err != nil {
		failedBatches.Inc()
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"transactions": len(params),
		"traces":       len(traces),
	}).Debug("Fetched transaction traces")
	fetchedTraces.Add(float64(len(traces)))

	return traces, nil
}

// FetchBeneficiaries fetches the reward beneficiaries for every block in the
// inclusive range [from, to] as one batch.
func (c *Client) FetchBeneficiaries(ctx context.Context, from, to uint64) ([]*Beneficiary, error) {
	if from > to {
		return nil, fmt.Errorf("invalid block range %d..%d", from, to)
	}

	params := make([]BeneficiaryParams, 0, to-from+1)
	for number := from; number <= to; number++ {
		params = append(params, BeneficiaryParams{BlockNumber: number})
	}

	b := newBatch(params, beneficiariesRequest)
	responses, err := c.transport.Dispatch(ctx, b.requests)
	if err != nil {
		return nil, fmt.Errorf("dispatch beneficiaries batch: %w", err)
	}

	beneficiaries, err := correlateBeneficiaries(b, responses)
	if err != nil {
		failedBatches.Inc()
		return nil, err
	}

	return beneficiaries, nil
}

// FetchPendingTransactions lists the node's pending transaction pool. This is
// a single fixed request, not a batch, so no correlation is involved.
func (c *Client) FetchPendingTransactions(ctx context.Context) ([]*PendingTransaction, error) {
	resp, err := c.transport.Call(ctx, pendingTransactionsRequest())
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", pendingTransactionsMethod, err)
	}
	if resp.Error != nil {
		return nil, annotateNodeError(resp.Error, nil)
	}

	var txs []*PendingTransaction
	err = resp.UnmarshalResult(&txs)
	if err != nil {
		return nil, fmt.Errorf("decode pending transactions: %w", err)
	}

	return txs, nil
}

// GetBlock fetches a block by number, or the latest block if number is
// negative. It returns ErrNotFound for a block that hasn't been minted yet.
func (c *Client) GetBlock(ctx context.Context, number int64) (*Block, error) {
	blockTag := "latest"
	if number >= 0 {
		blockTag = jsonrpc.Quantity(uint64(number))
	}

	resp, err := c.transport.Call(ctx, getBlockRequest(blockTag))
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", blockTag, err)
	}
	if resp.Error != nil {
		return nil, annotateNodeError(resp.Error, map[string]any{"blockTag": blockTag})
	}
	if resp.Result == nil || bytes.Equal(resp.Result, []byte("null")) {
		return nil, ErrNotFound
	}

	var block Block
	err = resp.UnmarshalResult(&block)
	if err != nil {
		return nil, fmt.Errorf("decode block %s: %w", blockTag, err)
	}

	return &block, nil
}

// Stream polls the node for new blocks and emits them in order. The first
// emitted block is the latest one at startup; after that it walks the chain
// block by block.
func (c *Client) Stream(ctx context.Context, pollTick time.Duration) <-chan *Block {
	out := make(chan *Block)

	go func() {
		defer close(out)

		t := time.NewTicker(pollTick)
		defer t.Stop()

		next := int64(-1) // maps to the 'latest' block on the first poll
		for range chans.ReceiveOrDoneSeq(ctx, t.C) {
			block, err := c.GetBlock(ctx, next)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				c.logger.WithError(err).Error("Failed to get block from node")
				failedBlockRetrievals.Inc()
				continue
			}

			c.logger.WithFields(logrus.Fields{
				"number": block.Number,
				"hash":   block.Hash,
			}).Debug("Received block")
			if !chans.SendOrDone(ctx, out, block) {
				return
			}
			next = int64(block.Number) + 1
			retrievedBlocks.Inc()
		}
	}()

	return out
}
