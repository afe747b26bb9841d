package parity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when we request a block by number that hasn't been minted yet.
	ErrNotFound = errors.New("block is not minted")
)

// NodeError is a well-formed error the node reported for one call of a batch.
// Data carries the error's original data merged with the origin context of
// the request that produced it.
type NodeError struct {
	Code    int
	Message string
	Data    map[string]any
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node error %d: %s", e.Code, e.Message)
}

// BatchError is the failure of a whole batch: one or more calls came back
// with a node-reported error, which invalidates the batch's usable output.
// Errors holds every failed call's error in the original response order.
type BatchError struct {
	Errors []*NodeError
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d batched calls failed, first: %v", len(e.Errors), e.Errors[0])
}
