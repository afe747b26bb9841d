package rest_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	restapi "github.com/hedisam/paritytracer/api/rest"
	"github.com/hedisam/paritytracer/internal/store"
)

type traceStoreMock struct {
	GetCurrentBlockNumberFunc func(ctx context.Context) (int64, error)
	GetTransactionTracesFunc  func(ctx context.Context, txHash string) ([]*store.TraceRecord, error)
}

func (m *traceStoreMock) GetCurrentBlockNumber(ctx context.Context) (int64, error) {
	return m.GetCurrentBlockNumberFunc(ctx)
}

func (m *traceStoreMock) GetTransactionTraces(ctx context.Context, txHash string) ([]*store.TraceRecord, error) {
	return m.GetTransactionTracesFunc(ctx, txHash)
}

type beneficiaryStoreMock struct {
	GetBlockBeneficiariesFunc func(ctx context.Context, blockNumber uint64) ([]*store.BeneficiaryRecord, error)
}

func (m *beneficiaryStoreMock) GetBlockBeneficiaries(ctx context.Context, blockNumber uint64) ([]*store.BeneficiaryRecord, error) {
	return m.GetBlockBeneficiariesFunc(ctx, blockNumber)
}

type pendingStoreMock struct {
	ListPendingTransactionsFunc func(ctx context.Context) ([]*store.PendingTxRecord, error)
}

func (m *pendingStoreMock) ListPendingTransactions(ctx context.Context) ([]*store.PendingTxRecord, error) {
	return m.ListPendingTransactionsFunc(ctx)
}

func assertRESTErr(t *testing.T, err error, expected *restapi.Err) {
	t.Helper()

	require.Error(t, err)
	castedErr := &restapi.Err{}
	require.ErrorAs(t, err, &castedErr)
	assert.Equal(t, expected, castedErr)
}

func TestGetCurrentBlock(t *testing.T) {
	tests := map[string]struct {
		currentBlockNumber *int64
		expectedResp       *restapi.GetCurrentBlockResponse
		expectedErr        *restapi.Err
	}{
		"no blocks yet": {
			expectedErr: &restapi.Err{
				StatusCode: http.StatusServiceUnavailable,
				Message:    "No indexed blocks yet, please retry later",
			},
		},
		"success": {
			currentBlockNumber: ptr[int64](1234),
			expectedResp: &restapi.GetCurrentBlockResponse{
				BlockNumber:    "0x4d2",
				BlockNumberInt: 1234,
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			storeMock := &traceStoreMock{
				GetCurrentBlockNumberFunc: func(ctx context.Context) (int64, error) {
					if test.currentBlockNumber == nil {
						return 0, store.ErrNotFound
					}
					return *test.currentBlockNumber, nil
				},
			}

			s := restapi.NewServer(logrus.New(), storeMock, nil, nil)
			resp, err := s.GetCurrentBlock(context.Background(), &restapi.GetCurrentBlockRequest{})
			if test.expectedErr != nil {
				assertRESTErr(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedResp, resp)
		})
	}
}

func TestGetTransactionTraces(t *testing.T) {
	validHash := "0x" + strings.Repeat("ab", 32)

	tests := map[string]struct {
		hash           string
		storedTraces   []*store.TraceRecord
		storeErr       error
		expectedLookup string
		expectedErr    *restapi.Err
	}{
		"invalid hash": {
			hash: "0x1234",
			expectedErr: &restapi.Err{
				StatusCode: http.StatusBadRequest,
				Message:    restapi.InvalidHashMessage,
			},
		},
		"not indexed": {
			hash:           validHash,
			storeErr:       store.ErrNotFound,
			expectedLookup: validHash,
			expectedErr: &restapi.Err{
				StatusCode: http.StatusNotFound,
				Message:    "No traces recorded for this transaction; its block may not be indexed yet.",
			},
		},
		"success normalizes the hash": {
			hash:           strings.Repeat("AB", 32),
			storedTraces:   []*store.TraceRecord{{TransactionHash: validHash, Index: 0}},
			expectedLookup: validHash,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var lookedUp string
			storeMock := &traceStoreMock{
				GetTransactionTracesFunc: func(ctx context.Context, txHash string) ([]*store.TraceRecord, error) {
					lookedUp = txHash
					return test.storedTraces, test.storeErr
				},
			}

			s := restapi.NewServer(logrus.New(), storeMock, nil, nil)
			resp, err := s.GetTransactionTraces(context.Background(), &restapi.GetTransactionTracesRequest{Hash: test.hash})
			if test.expectedErr != nil {
				assertRESTErr(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedLookup, lookedUp)
			assert.Equal(t, test.storedTraces, resp.Traces)
		})
	}
}

func TestGetBlockBeneficiaries(t *testing.T) {
	tests := map[string]struct {
		number         string
		expectedLookup uint64
		expectedErr    *restapi.Err
	}{
		"decimal number": {number: "100", expectedLookup: 100},
		"hex quantity":   {number: "0x64", expectedLookup: 100},
		"invalid number": {
			number: "not-a-number",
			expectedErr: &restapi.Err{
				StatusCode: http.StatusBadRequest,
				Message:    restapi.InvalidBlockNumberMessage,
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var lookedUp uint64
			storeMock := &beneficiaryStoreMock{
				GetBlockBeneficiariesFunc: func(ctx context.Context, blockNumber uint64) ([]*store.BeneficiaryRecord, error) {
					lookedUp = blockNumber
					return []*store.BeneficiaryRecord{{BlockNumber: blockNumber, Address: "0xminer"}}, nil
				},
			}

			s := restapi.NewServer(logrus.New(), nil, storeMock, nil)
			resp, err := s.GetBlockBeneficiaries(context.Background(), &restapi.GetBlockBeneficiariesRequest{Number: test.number})
			if test.expectedErr != nil {
				assertRESTErr(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedLookup, lookedUp)
			require.Len(t, resp.Beneficiaries, 1)
			assert.Equal(t, "0xminer", resp.Beneficiaries[0].Address)
		})
	}
}

func TestListPendingTransactions(t *testing.T) {
	tests := map[string]struct {
		storedTxs    []*store.PendingTxRecord
		storeErr     error
		expectedResp *restapi.ListPendingTransactionsResponse
		expectedErr  *restapi.Err
	}{
		"success with full tx": {
			storedTxs: []*store.PendingTxRecord{
				{Hash: "0x1", From: "0xa", To: "0xb", Raw: []byte(`{"hash":"0x1","nonce":"0x5"}`)},
			},
			expectedResp: &restapi.ListPendingTransactionsResponse{
				Transactions: []*restapi.PendingTransaction{
					{Hash: "0x1", From: "0xa", To: "0xb", FullTx: map[string]any{"hash": "0x1", "nonce": "0x5"}},
				},
			},
		},
		"store error": {
			storeErr: errors.New("internal error"),
			expectedErr: &restapi.Err{
				StatusCode: http.StatusInternalServerError,
				Message:    "Could not list pending transactions from store",
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			storeMock := &pendingStoreMock{
				ListPendingTransactionsFunc: func(ctx context.Context) ([]*store.PendingTxRecord, error) {
					return test.storedTxs, test.storeErr
				},
			}

			s := restapi.NewServer(logrus.New(), nil, nil, storeMock)
			resp, err := s.ListPendingTransactions(context.Background(), &restapi.ListPendingTransactionsRequest{})
			if test.expectedErr != nil {
				assertRESTErr(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedResp, resp)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
