package terrain

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tactica/tactica-core/internal/errors"
)

func startWorker(t *testing.T) (*Worker, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(zaptest.NewLogger(t))
	w.Start(ctx)
	t.Cleanup(cancel)
	return w, cancel
}

func TestWorkerMatchesDirectGeneration(t *testing.T) {
	w, _ := startWorker(t)
	req := testRequest(101)

	want, err := Generate(req)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := w.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWorkerSingleInFlight(t *testing.T) {
	w, _ := startWorker(t)
	require.NoError(t, w.Submit(testRequest(1)))
	assert.ErrorIs(t, w.Submit(testRequest(2)), ErrRequestInFlight)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	first, err := w.Await(ctx)
	require.NoError(t, err)

	want, err := Generate(testRequest(1))
	require.NoError(t, err)
	assert.Equal(t, want.NextSeed, first.NextSeed)

	require.NoError(t, w.Submit(testRequest(2)), "slot frees after the response is collected")
	_, err = w.Await(ctx)
	require.NoError(t, err)

	_, err = w.Await(ctx)
	assert.ErrorIs(t, err, ErrNoRequest)
}

func TestWorkerPropagatesConfigErrors(t *testing.T) {
	w, _ := startWorker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := w.Generate(ctx, Request{Width: 0, Height: 4})
	require.Error(t, err)
	assert.True(t, errors.IsConfig(err))
	assert.Equal(t, errors.CodeBoardZeroArea, errors.CodeOf(err))
}

func TestWorkerStopsOnCancel(t *testing.T) {
	w, cancel := startWorker(t)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.ErrorIs(t, w.Submit(testRequest(1)), ErrWorkerStopped)
}

func TestWorkerRecoversFromAbandonedRequest(t *testing.T) {
	w, _ := startWorker(t)

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	_, err := w.Generate(cancelled, testRequest(1))
	require.ErrorIs(t, err, context.Canceled)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, seed := range []uint32{2, 3} {
		want, err := Generate(testRequest(seed))
		require.NoError(t, err)
		got, err := w.Generate(ctx, testRequest(seed))
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, want, got)
	}
}

func TestWorkerAwaitAfterAbandon(t *testing.T) {
	w, _ := startWorker(t)
	require.NoError(t, w.Submit(testRequest(4)))

	cancelled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	_, err := w.Await(cancelled)
	require.ErrorIs(t, err, context.Canceled)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Settle(ctx))
	_, err = w.Await(ctx)
	assert.ErrorIs(t, err, ErrNoRequest, "the abandoned response is not handed out")
	assert.NoError(t, w.Submit(testRequest(5)))
	_, err = w.Await(ctx)
	assert.NoError(t, err)
}
