package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddRejectsBadSpec(t *testing.T) {
	s := New(zap.NewNop())
	assert.Error(t, s.Add("every now and then", "x", func(context.Context) error { return nil }))
}

func TestStartRunsImmediately(t *testing.T) {
	s := New(nil)
	var n atomic.Int32
	require.NoError(t, s.Add("@every 1h", "refresh", func(context.Context) error {
		n.Add(1)
		return nil
	}))

	s.Start(context.Background(), true)
	defer s.Stop()

	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestStopCancelsTaskContext(t *testing.T) {
	s := New(nil)
	started := make(chan struct{})
	done := make(chan error, 1)
	require.NoError(t, s.Add("@every 1h", "slow", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	}))

	s.Start(context.Background(), true)
	<-started
	s.Stop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("task context was not cancelled")
	}
}
