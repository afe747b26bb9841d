package store

import "errors"

var (
	// ErrNotFound is returned when an item in store is not found.
	ErrNotFound = errors.New("not found")
)

// TraceRecord is the canonical, persistence-ready form of one annotated
// call-level trace. Hex wire quantities are parsed into integers here.
type TraceRecord struct {
	BlockNumber      uint64 `json:"blockNumber"`
	TransactionHash  string `json:"transactionHash"`
	TransactionIndex int    `json:"transactionIndex"`
	Index            int    `json:"index"`
	Type             string `json:"type"`
	CallType         string `json:"callType,omitempty"`
	From             string `json:"from,omitempty"`
	To               string `json:"to,omitempty"`
	Value            string `json:"value,omitempty"`
	Gas              uint64 `json:"gas"`
	GasUsed          uint64 `json:"gasUsed"`
	Input            string `json:"input,omitempty"`
	Output           string `json:"output,omitempty"`
	Error            string `json:"error,omitempty"`
	TraceAddress     []int  `json:"traceAddress"`
}

// BeneficiaryRecord is the canonical form of one block reward credit.
type BeneficiaryRecord struct {
	BlockNumber uint64 `json:"blockNumber"`
	Address     string `json:"address"`
	RewardType  string `json:"rewardType"`
}

// PendingTxRecord is the canonical form of one pending pool transaction.
type PendingTxRecord struct {
	Hash string `json:"hash"`
	From string `json:"from"`
	To   string `json:"to"`
	Raw  []byte `json:"-"`
}
