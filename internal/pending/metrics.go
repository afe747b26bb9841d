package pending

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hedisam/paritytracer/internal/metricsreg"
)

var (
	failedPendingFetches = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_failed_pending_fetches_total",
		Help: "Number of failed pending transaction pool fetches",
	})
	newPendingTxs = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
		Name: "paritytracer_new_pending_transactions_total",
		Help: "Number of newly observed pending pool transactions",
	})
)
