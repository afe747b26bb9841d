package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Version is the JSON-RPC protocol version used for every request.
const Version = "2.0"

// Request is a single JSON-RPC call. Within a batch its ID must be unique so
// the matching response can be correlated back to it.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// NewRequest creates a request with the given batch-local id.
func NewRequest(id int64, method string, params ...any) *Request {
	if params == nil {
		// the node expects "params": [] rather than null
		params = []any{}
	}
	return &Request{
		JSONRPC: Version,
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

// Response is a single JSON-RPC response. Exactly one of Result or Error is
// set; Error carries a well-formed error reported by the node for this call.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// UnmarshalResult decodes the success payload into v.
func (r *Response) UnmarshalResult(v any) error {
	if r.Result == nil {
		return fmt.Errorf("response %d has no result", r.ID)
	}
	err := json.Unmarshal(r.Result, v)
	if err != nil {
		return fmt.Errorf("unmarshal result of response %d: %w", r.ID, err)
	}
	return nil
}

// Error is the error object of a failed JSON-RPC call.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

// Transport performs the network round trip to the node. Implementations own
// retries, timeouts and connection management; callers treat a returned error
// as the whole round trip having failed.
type Transport interface {
	// Dispatch sends all requests as one batch and returns the raw responses,
	// in whatever order the node returned them.
	Dispatch(ctx context.Context, requests []*Request) ([]*Response, error)
	// Call sends a single non-batched request.
	Call(ctx context.Context, request *Request) (*Response, error)
}

// Quantity encodes n as a 0x-prefixed hex quantity, the wire format the node
// expects for block numbers and other numeric arguments.
func Quantity(n uint64) string {
	return "0x" + strconv.FormatUint(n, 16)
}

// ParseQuantity decodes a 0x-prefixed hex quantity. An empty string decodes
// to zero since the node omits zero-valued fields in some payloads.
func ParseQuantity(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	trimmed := strings.TrimPrefix(s, "0x")
	n, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex quantity %q: %w", s, err)
	}
	return n, nil
}
