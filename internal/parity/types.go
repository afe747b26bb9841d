package parity

import (
	"encoding/json"
	"fmt"

	"github.com/hedisam/paritytracer/internal/jsonrpc"
)

// TraceParams identifies one mined transaction whose execution should be
// replayed. The block/transaction context it carries is not part of the wire
// response and is recovered through request id correlation.
type TraceParams struct {
	BlockNumber      uint64
	TransactionIndex int
	TransactionHash  string
}

// errorContext is the origin context merged into the data of every error
// produced for this request.
func (p TraceParams) errorContext() map[string]any {
	return map[string]any{
		"blockNumber":      p.BlockNumber,
		"transactionIndex": p.TransactionIndex,
		"transactionHash":  p.TransactionHash,
	}
}

// BeneficiaryParams identifies one block whose reward beneficiaries should be
// fetched.
type BeneficiaryParams struct {
	BlockNumber uint64
}

func (p BeneficiaryParams) errorContext() map[string]any {
	return map[string]any{
		"blockNumber": p.BlockNumber,
	}
}

// Trace is a single call-level trace of a replayed transaction. Action and
// Result are kept raw since their shape depends on the trace type; the
// annotation fields are stamped during response correlation.
type Trace struct {
	Type         string          `json:"type"`
	Action       json.RawMessage `json:"action"`
	Result       json.RawMessage `json:"result,omitempty"`
	Error        string          `json:"error,omitempty"`
	Subtraces    int             `json:"subtraces"`
	TraceAddress []int           `json:"traceAddress"`

	// recovered origin context, not present in the node's response
	BlockNumber      uint64 `json:"blockNumber"`
	TransactionHash  string `json:"transactionHash"`
	TransactionIndex int    `json:"transactionIndex"`
	// Index is the zero-based position of this trace within its transaction,
	// in the order the node returned the traces.
	Index int `json:"index"`
}

// Beneficiary is an address credited with a block reward.
type Beneficiary struct {
	BlockNumber uint64 `json:"blockNumber"`
	Address     string `json:"address"`
	RewardType  string `json:"rewardType"`
}

// PendingTransaction is a transaction sitting in the node's pending pool.
type PendingTransaction struct {
	Hash string `json:"hash"`
	From string `json:"from"`
	To   string `json:"to"`
	Raw  []byte `json:"-"`
}

// UnmarshalJSON keeps the full raw transaction next to the parsed fields.
func (t *PendingTransaction) UnmarshalJSON(data []byte) error {
	var aux struct {
		Hash string `json:"hash"`
		From string `json:"from"`
		To   string `json:"to"`
	}
	err := json.Unmarshal(data, &aux)
	if err != nil {
		return fmt.Errorf("unmarshal into aux pending transaction: %w", err)
	}

	t.Hash = aux.Hash
	t.From = aux.From
	t.To = aux.To
	t.Raw = append([]byte(nil), data...) // make a copy; safe against mutations

	return nil
}

// Block is a mined block header plus the hashes of its transactions, enough
// to build the trace replay parameters for every transaction in it.
type Block struct {
	Hash         string   `json:"hash"`
	ParentHash   string   `json:"parentHash"`
	Number       uint64   `json:"number"`
	Transactions []string `json:"transactions"`
}

// UnmarshalJSON customizes Block decoding to parse the hex block number.
func (b *Block) UnmarshalJSON(data []byte) error {
	// alias to avoid infinite recursion
	type blockAlias Block
	aux := &struct {
		*blockAlias
		Number string `json:"number"`
	}{
		blockAlias: (*blockAlias)(b),
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		return fmt.Errorf("error unmarshalling Block: %w", err)
	}

	blockNum, err := jsonrpc.ParseQuantity(aux.Number)
	if err != nil {
		return fmt.Errorf("invalid block number: %w", err)
	}
	b.Number = blockNum

	return nil
}

// TraceParamsForBlock builds the replay parameters for every transaction of
// the block, with the transaction index taken from its position in the block.
func TraceParamsForBlock(block *Block) []TraceParams {
	params := make([]TraceParams, 0, len(block.Transactions))
	for i, hash := range block.Transactions {
		params = append(params, TraceParams{
			BlockNumber:      block.Number,
			TransactionIndex: i,
			TransactionHash:  hash,
		})
	}
	return params
}
