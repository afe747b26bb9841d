package pending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/paritytracer/internal/parity"
)

type fetcherMock struct {
	FetchPendingTransactionsFunc func(ctx context.Context) ([]*parity.PendingTransaction, error)
}

func (m *fetcherMock) FetchPendingTransactions(ctx context.Context) ([]*parity.PendingTransaction, error) {
	return m.FetchPendingTransactionsFunc(ctx)
}

func TestPollerDeduplicates(t *testing.T) {
	fetcher := &fetcherMock{
		FetchPendingTransactionsFunc: func(ctx context.Context) ([]*parity.PendingTransaction, error) {
			// the same pool snapshot on every poll
			return []*parity.PendingTransaction{
				{Hash: "0x1"},
				{Hash: "0x2"},
			}, nil
		},
	}

	poller, err := NewPoller(logrus.New(), fetcher, 100)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := poller.Stream(ctx, time.Millisecond*10)

	var received []string
	for range 2 {
		select {
		case tx := <-out:
			received = append(received, tx.Hash)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for pending transactions")
		}
	}
	assert.Equal(t, []string{"0x1", "0x2"}, received)

	// repeated polls must not emit already seen hashes
	select {
	case tx := <-out:
		t.Fatalf("received duplicate pending transaction %q", tx.Hash)
	case <-time.After(time.Millisecond * 100):
	}
}

func TestPollerKeepsGoingOnFetchError(t *testing.T) {
	var calls int
	fetcher := &fetcherMock{
		FetchPendingTransactionsFunc: func(ctx context.Context) ([]*parity.PendingTransaction, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("node unavailable")
			}
			return []*parity.PendingTransaction{{Hash: "0x1"}}, nil
		},
	}

	poller, err := NewPoller(logrus.New(), fetcher, 100)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := poller.Stream(ctx, time.Millisecond*10)

	select {
	case tx := <-out:
		assert.Equal(t, "0x1", tx.Hash)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pending transaction after a failed poll")
	}
	assert.GreaterOrEqual(t, calls, 2)
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	fetcher := &fetcherMock{
		FetchPendingTransactionsFunc: func(ctx context.Context) ([]*parity.PendingTransaction, error) {
			return nil, nil
		},
	}

	poller, err := NewPoller(logrus.New(), fetcher, 100)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out := poller.Stream(ctx, time.Millisecond*10)
	cancel()

	select {
	case _, open := <-out:
		assert.False(t, open, "stream channel must be closed after cancellation")
	case <-time.After(time.Second):
		t.Fatal("stream channel was not closed after cancellation")
	}
}
