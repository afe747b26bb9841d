package parity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/paritytracer/internal/jsonrpc"
)

func TestNewBatchAssignsUniqueIDs(t *testing.T) {
	params := []TraceParams{
		{TransactionHash: "0xaaa"},
		{TransactionHash: "0xbbb"},
		{TransactionHash: "0xccc"},
		{TransactionHash: "0xddd"},
	}
	b := newBatch(params, traceReplayRequest)

	require.Len(t, b.requests, len(params))
	require.Len(t, b.byID, len(params))

	seen := make(map[int64]struct{}, len(params))
	for i, req := range b.requests {
		_, dup := seen[req.ID]
		assert.False(t, dup, "request ids must be pairwise distinct within a batch")
		seen[req.ID] = struct{}{}

		// pairing between id and originating params must be stable
		assert.Equal(t, params[i], b.byID[req.ID])
	}
}

func TestTraceReplayRequestShape(t *testing.T) {
	req := traceReplayRequest(7, TraceParams{
		BlockNumber:      1,
		TransactionIndex: 0,
		TransactionHash:  "0xf00d",
	})

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"jsonrpc": "2.0",
		"id": 7,
		"method": "trace_replayTransaction",
		"params": ["0xf00d", ["trace"]]
	}`, string(data))
}

func TestBeneficiariesRequestShape(t *testing.T) {
	req := beneficiariesRequest(3, BeneficiaryParams{BlockNumber: 100})

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"jsonrpc": "2.0",
		"id": 3,
		"method": "trace_block",
		"params": ["0x64"]
	}`, string(data))
}

func TestPendingTransactionsRequestShape(t *testing.T) {
	req := pendingTransactionsRequest()

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"jsonrpc": "2.0",
		"id": 1,
		"method": "parity_pendingTransactions",
		"params": []
	}`, string(data))
}

func TestGetBlockRequestShape(t *testing.T) {
	req := getBlockRequest(jsonrpc.Quantity(255))

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"jsonrpc": "2.0",
		"id": 1,
		"method": "eth_getBlockByNumber",
		"params": ["0xff", false]
	}`, string(data))
}
