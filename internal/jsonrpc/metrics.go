package jsonrpc

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hedisam/paritytracer/internal/metricsreg"
)

var dispatchedBatches = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
	Name: "paritytracer_rpc_batches_dispatched_total",
	Help: "Number of successfully dispatched json-rpc batches",
})

var roundTripFailures = metricsreg.Factory().NewCounter(prometheus.CounterOpts{
	Name: "paritytracer_rpc_round_trip_failures_total",
	Help: "Number of json-rpc round trips that failed at the transport level",
})
