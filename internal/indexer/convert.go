package indexer

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/hedisam/paritytracer/internal/jsonrpc"
	"github.com/hedisam/paritytracer/internal/parity"
	"github.com/hedisam/paritytracer/internal/store"
)

// traceAction covers the action payloads of call, create, suicide and reward
// traces; irrelevant fields stay empty for each type.
type traceAction struct {
	CallType      string `json:"callType"`
	From          string `json:"from"`
	To            string `json:"to"`
	Gas           string `json:"gas"`
	Value         string `json:"value"`
	Input         string `json:"input"`
	Init          string `json:"init"`
	Address       string `json:"address"`
	RefundAddress string `json:"refundAddress"`
}

type traceResult struct {
	GasUsed string `json:"gasUsed"`
	Output  string `json:"output"`
	Address string `json:"address"`
}

// TraceRecords converts annotated raw traces into canonical records, parsing
// hex quantities into integers. Order is preserved.
func TraceRecords(traces []*parity.Trace) ([]*store.TraceRecord, error) {
	records := make([]*store.TraceRecord, 0, len(traces))
	for trace := range slices.Values(traces) {
		record, err := traceRecord(trace)
		if err != nil {
			return nil, fmt.Errorf("convert trace %d of tx %q: %w", trace.Index, trace.TransactionHash, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func traceRecord(trace *parity.Trace) (*store.TraceRecord, error) {
	var action traceAction
	if len(trace.Action) > 0 {
		err := json.Unmarshal(trace.Action, &action)
		if err != nil {
			return nil, fmt.Errorf("unmarshal trace action: %w", err)
		}
	}

	var result traceResult
	if len(trace.Result) > 0 {
		err := json.Unmarshal(trace.Result, &result)
		if err != nil {
			return nil, fmt.Errorf("unmarshal trace result: %w", err)
		}
	}

	gas, err := jsonrpc.ParseQuantity(action.Gas)
	if err != nil {
		return nil, fmt.Errorf("parse gas: %w", err)
	}
	gasUsed, err := jsonrpc.ParseQuantity(result.GasUsed)
	if err != nil {
		return nil, fmt.Errorf("parse gasUsed: %w", err)
	}

	record := &store.TraceRecord{
		BlockNumber:      trace.BlockNumber,
		TransactionHash:  trace.TransactionHash,
		TransactionIndex: trace.TransactionIndex,
		Index:            trace.Index,
		Type:             trace.Type,
		CallType:         action.CallType,
		From:             action.From,
		To:               action.To,
		Value:            action.Value,
		Gas:              gas,
		GasUsed:          gasUsed,
		Input:            action.Input,
		Output:           result.Output,
		Error:            trace.Error,
		TraceAddress:     trace.TraceAddress,
	}

	switch trace.Type {
	case "create":
		// a create trace has no 'to'; the created contract address is in the
		// result and the deployment code is the action's init field
		record.To = result.Address
		record.Input = action.Init
	case "suicide":
		record.From = action.Address
		record.To = action.RefundAddress
	}

	return record, nil
}

// BeneficiaryRecords converts fetched beneficiaries into canonical records,
// order preserving.
func BeneficiaryRecords(beneficiaries []*parity.Beneficiary) []*store.BeneficiaryRecord {
	records := make([]*store.BeneficiaryRecord, 0, len(beneficiaries))
	for beneficiary := range slices.Values(beneficiaries) {
		records = append(records, &store.BeneficiaryRecord{
			BlockNumber: beneficiary.BlockNumber,
			Address:     beneficiary.Address,
			RewardType:  beneficiary.RewardType,
		})
	}
	return records
}

// PendingTxRecord converts a pending pool transaction into its canonical record.
func PendingTxRecord(tx *parity.PendingTransaction) *store.PendingTxRecord {
	return &store.PendingTxRecord{
		Hash: tx.Hash,
		From: tx.From,
		To:   tx.To,
		Raw:  tx.Raw,
	}
}
