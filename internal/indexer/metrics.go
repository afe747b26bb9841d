package indexer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hedisam/paritytracer/internal/metricsreg"
)

var (
	indexedBlocks = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_blocks_indexed_total",
		Help: "Total number of blocks fully indexed",
	})
	blocksFailedProcessing = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_blocks_failed_processing_total",
		Help: "Total number of blocks that failed indexing",
	})
	indexedTraces = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_traces_indexed_total",
		Help: "Total number of canonical trace records stored",
	})
	indexedPendingTxs = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_pending_transactions_indexed_total",
		Help: "Total number of pending pool transactions stored",
	})
)
