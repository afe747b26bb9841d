package parity

import (
	"github.com/hedisam/paritytracer/internal/jsonrpc"
)

const (
	traceReplayMethod         = "trace_replayTransaction"
	traceBlockMethod          = "trace_block"
	pendingTransactionsMethod = "parity_pendingTransactions"
	getBlockByNumberMethod    = "eth_getBlockByNumber"
)

// batch pairs the wire requests of one round trip with the id-to-parameter
// association needed to correlate the responses back. It is built fresh per
// call and discarded once correlation completes.
type batch[P any] struct {
	requests []*jsonrpc.Request
	byID     map[int64]P
}

// newBatch assigns each parameter record a batch-unique id and builds its
// wire request. Ids are sequential starting at 1.
func newBatch[P any](params []P, build func(id int64, p P) *jsonrpc.Request) batch[P] {
	b := batch[P]{
		requests: make([]*jsonrpc.Request, 0, len(params)),
		byID:     make(map[int64]P, len(params)),
	}
	for i, p := range params {
		id := int64(i + 1)
		b.byID[id] = p
		b.requests = append(b.requests, build(id, p))
	}
	return b
}

// traceReplayRequest replays a transaction in trace-only mode; vmTrace and
// stateDiff are left out to keep the response small.
func traceReplayRequest(id int64, p TraceParams) *jsonrpc.Request {
	return jsonrpc.NewRequest(id, traceReplayMethod, p.TransactionHash, []string{"trace"})
}

func beneficiariesRequest(id int64, p BeneficiaryParams) *jsonrpc.Request {
	return jsonrpc.NewRequest(id, traceBlockMethod, jsonrpc.Quantity(p.BlockNumber))
}

// pendingTransactionsRequest is a fixed single request, never batched.
func pendingTransactionsRequest() *jsonrpc.Request {
	return jsonrpc.NewRequest(1, pendingTransactionsMethod)
}

func getBlockRequest(blockTag string) *jsonrpc.Request {
	// second param false: transaction hashes only, no full transaction objects
	return jsonrpc.NewRequest(1, getBlockByNumberMethod, blockTag, false)
}
