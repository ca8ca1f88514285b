package traffic_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nabbar/tlsbench/internal/traffic"
)

func TestNewStartsDrained(t *testing.T) {
	c := traffic.New(10)
	require.Equal(t, int64(0), c.Available())
}

func TestFlowSteadyNeverExceedsCapacity(t *testing.T) {
	c := traffic.New(5)
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Flow(ctx, 50, 0)
		close(done)
	}()

	deadline := time.After(200 * time.Millisecond)
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ticker.C:
			require.GreaterOrEqual(t, c.Available(), int64(0))
			require.LessOrEqual(t, c.Available(), int64(5))
		case <-done:
			break loop
		case <-deadline:
			break loop
		}
	}
}

func TestAcquireSucceedsAsFlowReplenishes(t *testing.T) {
	c := traffic.New(3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go c.Flow(ctx, 1000, 0)

	for i := 0; i < 3; i++ {
		acqCtx, acqCancel := context.WithTimeout(context.Background(), time.Second)
		err := c.Acquire(acqCtx)
		acqCancel()
		require.NoError(t, err)
	}
}

func TestAcquireBlocksUntilCancelled(t *testing.T) {
	c := traffic.New(1)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := c.Acquire(ctx)
	require.Error(t, err)
}
