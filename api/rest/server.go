package rest

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/paritytracer/internal/store"
)

const (
	// InvalidHashMessage is returned when users request traces with an invalid transaction hash.
	InvalidHashMessage = "Invalid transaction hash. Expected a 64-character hex string, with or without '0x' prefix."
	// InvalidBlockNumberMessage is returned when users request beneficiaries with an invalid block number.
	InvalidBlockNumberMessage = "Invalid block number. Expected a decimal number or a 0x-prefixed hex quantity."
)

type TraceStore interface {
	GetCurrentBlockNumber(ctx context.Context) (int64, error)
	GetTransactionTraces(ctx context.Context, txHash string) ([]*store.TraceRecord, error)
}

type BeneficiaryStore interface {
	GetBlockBeneficiaries(ctx context.Context, blockNumber uint64) ([]*store.BeneficiaryRecord, error)
}

type PendingTxStore interface {
	ListPendingTransactions(ctx context.Context) ([]*store.PendingTxRecord, error)
}

type Server struct {
	logger           *logrus.Logger
	traceStore       TraceStore
	beneficiaryStore BeneficiaryStore
	pendingStore     PendingTxStore
}

func NewServer(logger *logrus.Logger, traceStore TraceStore, beneficiaryStore BeneficiaryStore, pendingStore PendingTxStore) *Server {
	return &Server{
		logger:           logger,
		traceStore:       traceStore,
		beneficiaryStore: beneficiaryStore,
		pendingStore:     pendingStore,
	}
}

func (s *Server) GetCurrentBlock(ctx context.Context, _ *GetCurrentBlockRequest) (*GetCurrentBlockResponse, error) {
	logger := s.logger.WithContext(ctx)

	blockNumber, err := s.traceStore.GetCurrentBlockNumber(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn("No indexed blocks yet when requesting current block number")
			return nil, NewErrf(http.StatusServiceUnavailable, "No indexed blocks yet, please retry later")
		}
		logger.WithError(err).Error("Failed to get current block number from store")
		return nil, NewErrf(http.StatusInternalServerError, "could not get current block number from store")
	}

	return &GetCurrentBlockResponse{
		BlockNumber:    fmt.Sprintf("0x%x", blockNumber),
		BlockNumberInt: blockNumber,
	}, nil
}

func (s *Server) GetTransactionTraces(ctx context.Context, req *GetTransactionTracesRequest) (*GetTransactionTracesResponse, error) {
	logger := s.logger.WithContext(ctx).WithField("tx_hash", req.Hash)

	hash, valid := validateAndNormalizeHash(req.Hash)
	if !valid {
		logger.Warn("Invalid transaction hash provided to get traces")
		return nil, NewErrf(http.StatusBadRequest, InvalidHashMessage)
	}

	traces, err := s.traceStore.GetTransactionTraces(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewErrf(http.StatusNotFound, "No traces recorded for this transaction; its block may not be indexed yet.")
		}
		logger.WithError(err).Error("Failed to get transaction traces from store")
		return nil, NewErrf(http.StatusInternalServerError, "Could not get transaction traces from store")
	}

	return &GetTransactionTracesResponse{
		Traces: traces,
	}, nil
}

func (s *Server) GetBlockBeneficiaries(ctx context.Context, req *GetBlockBeneficiariesRequest) (*GetBlockBeneficiariesResponse, error) {
	logger := s.logger.WithContext(ctx).WithField("block_number", req.Number)

	blockNumber, err := strconv.ParseUint(strings.TrimSpace(req.Number), 0, 64)
	if err != nil {
		logger.Warn("Invalid block number provided to get beneficiaries")
		return nil, NewErrf(http.StatusBadRequest, InvalidBlockNumberMessage)
	}

	beneficiaries, err := s.beneficiaryStore.GetBlockBeneficiaries(ctx, blockNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewErrf(http.StatusNotFound, "No beneficiaries recorded for this block; it may not be indexed yet.")
		}
		logger.WithError(err).Error("Failed to get block beneficiaries from store")
		return nil, NewErrf(http.StatusInternalServerError, "Could not get block beneficiaries from store")
	}

	return &GetBlockBeneficiariesResponse{
		Beneficiaries: beneficiaries,
	}, nil
}

func (s *Server) ListPendingTransactions(ctx context.Context, _ *ListPendingTransactionsRequest) (*ListPendingTransactionsResponse, error) {
	logger := s.logger.WithContext(ctx)

	storedTxs, err := s.pendingStore.ListPendingTransactions(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to list pending transactions from store")
		return nil, NewErrf(http.StatusInternalServerError, "Could not list pending transactions from store")
	}

	var txs []*PendingTransaction
	for storedTx := range slices.Values(storedTxs) {
		tx, err := convertStoredToAPIPendingTx(storedTx)
		if err != nil {
			logger.WithError(err).Error("Failed to unmarshal pending transaction in ListPendingTransactions")
			return nil, NewErrf(http.StatusInternalServerError, "Could not unmarshal pending transaction")
		}

		txs = append(txs, tx)
	}

	return &ListPendingTransactionsResponse{
		Transactions: txs,
	}, nil
}

func validateAndNormalizeHash(hash string) (string, bool) {
	hash = strings.ToLower(strings.TrimSpace(hash))
	hash = strings.TrimPrefix(hash, "0x")
	if len(hash) != 64 {
		return "", false
	}

	_, err := hex.DecodeString(hash)
	if err != nil {
		return "", false
	}

	hash = "0x" + hash
	return hash, true
}

func convertStoredToAPIPendingTx(tx *store.PendingTxRecord) (*PendingTransaction, error) {
	var fullTx map[string]any
	if len(tx.Raw) > 0 {
		err := json.Unmarshal(tx.Raw, &fullTx)
		if err != nil {
			return nil, fmt.Errorf("unmarshal full stored pending transaction: %w", err)
		}
	}

	return &PendingTransaction{
		Hash:   tx.Hash,
		From:   tx.From,
		To:     tx.To,
		FullTx: fullTx,
	}, nil
}
