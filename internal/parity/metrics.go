package parity

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hedisam/paritytracer/internal/metricsreg"
)

var (
	retrievedBlocks = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_block_retrievals_total",
		Help: "Number of successful block retrievals",
	})
	failedBlockRetrievals = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_failed_block_retrievals_total",
		Help: "Number of failed block retrievals",
	})
	fetchedTraces = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_fetched_traces_total",
		Help: "Number of call-level traces fetched via trace replay",
	})
	failedBatches = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_failed_batches_total",
		Help: "Number of batches invalidated by node-reported errors",
	})
	reorgDroppedBlocks = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_reorg_dropped_blocks_total",
		Help: "Number of blocks dropped from buffer due to chain reorganization",
	})
)
