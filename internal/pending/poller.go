package pending

import (
	"context"
	"fmt"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/hedisam/paritytracer/internal/parity"
	"github.com/hedisam/pipeline/chans"
)

type Fetcher interface {
	FetchPendingTransactions(ctx context.Context) ([]*parity.PendingTransaction, error)
}

// Poller periodically lists the node's pending transaction pool and emits
// only the transactions it hasn't seen before. The seen-set is a bounded lru
// cache so long-running polling doesn't grow memory without limit.
type Poller struct {
	logger  *logrus.Logger
	fetcher Fetcher
	seen    *lru.Cache[string, struct{}]
}

func NewPoller(logger *logrus.Logger, fetcher Fetcher, dedupCacheSize int) (*Poller, error) {
	seen, err := lru.New[string, struct{}](dedupCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create dedup cache: %w", err)
	}

	return &Poller{
		logger:  logger,
		fetcher: fetcher,
		seen:    seen,
	}, nil
}

// Stream emits newly seen pending transactions until the context is cancelled.
func (p *Poller) Stream(ctx context.Context, pollTick time.Duration) <-chan *parity.PendingTransaction {
	out := make(chan *parity.PendingTransaction)

	go func() {
		defer close(out)

		t := time.NewTicker(pollTick)
		defer t.Stop()

		for range chans.ReceiveOrDoneSeq(ctx, t.C) {
			txs, err := p.fetcher.FetchPendingTransactions(ctx)
			if err != nil {
				p.logger.WithError(err).Error("Failed to fetch pending transactions")
				failedPendingFetches.Inc()
				continue
			}

			var newTxs int
			for tx := range slices.Values(txs) {
				alreadySeen, _ := p.seen.ContainsOrAdd(tx.Hash, struct{}{})
				if alreadySeen {
					continue
				}
				if !chans.SendOrDone(ctx, out, tx) {
					return
				}
				newTxs++
			}

			p.logger.WithFields(logrus.Fields{
				"pool_size": len(txs),
				"new":       newTxs,
			}).Debug("Polled pending transaction pool")
			newPendingTxs.Add(float64(newTxs))
		}
	}()

	return out
}
