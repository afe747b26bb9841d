package rest

import (
	"net/http"

	"github.com/hedisam/paritytracer/internal/store"
)

// request and response types are defined below
// these types can be defined as protobuf messages in a production system (specifically if using gRPC + gRPC-gateway)

type GetCurrentBlockRequest struct{}

type GetCurrentBlockResponse struct {
	BlockNumber    string `json:"blockNumber"`
	BlockNumberInt int64  `json:"blockNumberInt"`
}

type GetTransactionTracesRequest struct {
	Hash string `json:"hash"`
}

func (r *GetTransactionTracesRequest) bindPath(req *http.Request) {
	r.Hash = req.PathValue("hash")
}

type GetTransactionTracesResponse struct {
	Traces []*store.TraceRecord `json:"traces"`
}

type GetBlockBeneficiariesRequest struct {
	Number string `json:"number"`
}

func (r *GetBlockBeneficiariesRequest) bindPath(req *http.Request) {
	r.Number = req.PathValue("number")
}

type GetBlockBeneficiariesResponse struct {
	Beneficiaries []*store.BeneficiaryRecord `json:"beneficiaries"`
}

type ListPendingTransactionsRequest struct{}

type ListPendingTransactionsResponse struct {
	Transactions []*PendingTransaction `json:"transactions"`
}

type PendingTransaction struct {
	Hash   string         `json:"hash,omitempty"`
	From   string         `json:"from,omitempty"`
	To     string         `json:"to,omitempty"`
	FullTx map[string]any `json:"fullTx,omitempty"`
}
