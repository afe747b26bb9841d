package parity

import (
	"encoding/json"
	"fmt"

	"github.com/hedisam/paritytracer/internal/jsonrpc"
)

// replayResult is the success payload of a trace_replayTransaction call.
type replayResult struct {
	Trace []*Trace `json:"trace"`
}

// blockTrace is one entry of a trace_block payload; only reward traces are
// of interest for beneficiary extraction.
type blockTrace struct {
	Type   string `json:"type"`
	Action struct {
		Author     string `json:"author"`
		RewardType string `json:"rewardType"`
	} `json:"action"`
}

// correlateTraces walks the responses in the order the transport returned
// them, recovers each response's origin context through the batch id map and
// folds the per-call outcomes into a single all-or-nothing result: either
// every replayed transaction's traces concatenated in response order, or a
// BatchError with every node-reported error in response order.
func correlateTraces(b batch[TraceParams], responses []*jsonrpc.Response) ([]*Trace, error) {
	var traces []*Trace
	var nodeErrs []*NodeError
	answered := make(map[int64]struct{}, len(responses))
	for _, resp := range responses {
		params := mustCorrelate(b, resp)
		answered[resp.ID] = struct{}{}

		if resp.Error != nil {
			nodeErrs = append(nodeErrs, annotateNodeError(resp.Error, params.errorContext()))
			continue
		}

		var result replayResult
		err := resp.UnmarshalResult(&result)
		if err != nil {
			return nil, fmt.Errorf("decode trace replay result for tx %q: %w", params.TransactionHash, err)
		}
		traces = append(traces, annotateTraces(result.Trace, params)...)
	}

	nodeErrs = append(nodeErrs, unansweredErrors(b, answered, TraceParams.errorContext)...)
	if len(nodeErrs) > 0 {
		return nil, &BatchError{Errors: nodeErrs}
	}
	return traces, nil
}

// correlateBeneficiaries recovers each trace_block response's block number
// from the batch id map and extracts the reward traces. Same all-or-nothing
// fold as for replay traces.
func correlateBeneficiaries(b batch[BeneficiaryParams], responses []*jsonrpc.Response) ([]*Beneficiary, error) {
	var beneficiaries []*Beneficiary
	var nodeErrs []*NodeError
	answered := make(map[int64]struct{}, len(responses))
	for _, resp := range responses {
		params := mustCorrelate(b, resp)
		answered[resp.ID] = struct{}{}

		if resp.Error != nil {
			nodeErrs = append(nodeErrs, annotateNodeError(resp.Error, params.errorContext()))
			continue
		}

		var blockTraces []*blockTrace
		err := resp.UnmarshalResult(&blockTraces)
		if err != nil {
			return nil, fmt.Errorf("decode block traces for block %d: %w", params.BlockNumber, err)
		}

		for _, bt := range blockTraces {
			if bt.Type != "reward" {
				continue
			}
			beneficiaries = append(beneficiaries, &Beneficiary{
				BlockNumber: params.BlockNumber,
				Address:     bt.Action.Author,
				RewardType:  bt.Action.RewardType,
			})
		}
	}

	nodeErrs = append(nodeErrs, unansweredErrors(b, answered, BeneficiaryParams.errorContext)...)
	if len(nodeErrs) > 0 {
		return nil, &BatchError{Errors: nodeErrs}
	}
	return beneficiaries, nil
}

// unansweredErrors synthesizes an error for every request the node left out
// of the response array. An unanswered call must fail the batch like any
// node-reported error; otherwise a short response array would pass partial
// data off as success. Errors follow request order, after the node-reported
// ones.
func unansweredErrors[P any](b batch[P], answered map[int64]struct{}, context func(P) map[string]any) []*NodeError {
	var errs []*NodeError
	for _, req := range b.requests {
		if _, ok := answered[req.ID]; ok {
			continue
		}
		errs = append(errs, &NodeError{
			Message: "no response received for batched call",
			Data:    context(b.byID[req.ID]),
		})
	}
	return errs
}

// mustCorrelate looks a response's id up in the batch. A response to a
// request we never issued means the transport broke its contract; that is a
// bug, not a recoverable condition, so it panics.
func mustCorrelate[P any](b batch[P], resp *jsonrpc.Response) P {
	params, ok := b.byID[resp.ID]
	if !ok {
		panic(fmt.Sprintf("received response with unknown request id %d", resp.ID))
	}
	return params
}

// annotateTraces stamps each trace with its zero-based position and the
// recovered block/transaction context. The node-returned order encodes call
// order within the transaction and is preserved. Stamping is a plain
// overwrite, so annotating twice with the same context is a no-op.
func annotateTraces(traces []*Trace, params TraceParams) []*Trace {
	for i, trace := range traces {
		trace.Index = i
		trace.BlockNumber = params.BlockNumber
		trace.TransactionHash = params.TransactionHash
		trace.TransactionIndex = params.TransactionIndex
	}
	return traces
}

// annotateNodeError merges the recovered origin context into the error's
// data. Object-shaped data is merged key-wise; any other data is kept under
// a "data" key so nothing the node reported is dropped.
func annotateNodeError(wireErr *jsonrpc.Error, context map[string]any) *NodeError {
	data := make(map[string]any, len(context)+1)
	if len(wireErr.Data) > 0 {
		err := json.Unmarshal(wireErr.Data, &data)
		if err != nil {
			var v any
			if json.Unmarshal(wireErr.Data, &v) == nil {
				data["data"] = v
			}
		}
	}
	for k, v := range context {
		data[k] = v
	}

	return &NodeError{
		Code:    wireErr.Code,
		Message: wireErr.Message,
		Data:    data,
	}
}
