package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// HTTPTransport talks to the node over HTTP POST. Transient failures are
// retried with exponential backoff; a request that keeps failing surfaces as
// a single transport error to the caller.
type HTTPTransport struct {
	logger     *logrus.Logger
	httpClient *http.Client
	nodeAddr   string
}

func NewHTTPTransport(logger *logrus.Logger, httpClient *http.Client, nodeAddr string) *HTTPTransport {
	return &HTTPTransport{
		logger:     logger,
		httpClient: httpClient,
		nodeAddr:   nodeAddr,
	}
}

// Dispatch sends the requests as one JSON array and decodes the response array.
func (t *HTTPTransport) Dispatch(ctx context.Context, requests []*Request) ([]*Response, error) {
	body, err := t.post(ctx, requests, "dispatch_batch")
	if err != nil {
		roundTripFailures.Inc()
		return nil, err
	}

	var responses []*Response
	err = json.Unmarshal(body, &responses)
	if err != nil {
		roundTripFailures.Inc()
		return nil, fmt.Errorf("decode batch response body: %w", err)
	}

	dispatchedBatches.Inc()
	return responses, nil
}

// Call sends a single request object, not wrapped in a batch array.
func (t *HTTPTransport) Call(ctx context.Context, request *Request) (*Response, error) {
	body, err := t.post(ctx, request, request.Method)
	if err != nil {
		roundTripFailures.Inc()
		return nil, err
	}

	var response Response
	err = json.Unmarshal(body, &response)
	if err != nil {
		roundTripFailures.Inc()
		return nil, fmt.Errorf("decode response body: %w", err)
	}

	return &response, nil
}

func (t *HTTPTransport) post(ctx context.Context, payload any, name string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal json-rpc payload: %w", err)
	}

	bk := newExponentialBackoffConfig()
	body, err := backoff.RetryWithData[[]byte](func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.nodeAddr, bytes.NewReader(data))
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("create http request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Content-Length", strconv.Itoa(len(data)))

		resp, err := t.httpClient.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, backoff.Permanent(fmt.Errorf("could not make http call: %w", err))
			}
			t.logger.WithField("call", name).WithError(err).Error("Failed to make http request, retrying...")
			return nil, fmt.Errorf("http request failed: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.logger.WithFields(logrus.Fields{
				"call":     name,
				"status":   resp.Status,
				"response": string(body),
			}).Error("Node returned unexpected status code, retrying...")
			return nil, fmt.Errorf("received unexpected status: %s", resp.Status)
		}

		return body, nil
	}, bk)
	if err != nil {
		return nil, err
	}

	return body, nil
}

func newExponentialBackoffConfig() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(time.Second*3),
		backoff.WithMaxInterval(time.Second),
		backoff.WithInitialInterval(time.Millisecond*100),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0.2),
	)
}
