package limiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmsforge/ingest/pkg/limiter"
)

func TestTokenBucketLimiter_AcquireWithinBurst(t *testing.T) {
	rl := limiter.NewTokenBucketLimiter()
	rl.SetBurst(5)
	rl.SetRate(0) // no refill: prove burst tokens are consumed without blocking

	for i := 0; i < 5; i++ {
		err := rl.Acquire(context.Background())
		require.NoError(t, err)
	}
}

func TestTokenBucketLimiter_BlocksPastBurstUntilRefill(t *testing.T) {
	clock := time.Now()
	rl := limiter.NewTokenBucketLimiter()
	rl.SetBurst(1)
	rl.SetRate(1000) // fast refill so the test doesn't sleep for real
	rl.SetClock(func() time.Time { return clock })

	require.NoError(t, rl.Acquire(context.Background()))

	clock = clock.Add(2 * time.Millisecond)
	require.NoError(t, rl.Acquire(context.Background()))
}

func TestTokenBucketLimiter_AcquireRespectsCancellation(t *testing.T) {
	rl := limiter.NewTokenBucketLimiter()
	rl.SetBurst(0)
	rl.SetRate(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rl.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenBucketLimiter_ConcurrentAcquire(t *testing.T) {
	rl := limiter.NewTokenBucketLimiter()
	rl.SetBurst(10)
	rl.SetRate(0)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = rl.Acquire(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestRealSleeperSleeps(t *testing.T) {
	s := limiter.RealSleeper{}
	start := time.Now()
	s.Sleep(5 * time.Millisecond)
	if time.Since(start) < 5*time.Millisecond {
		t.Errorf("RealSleeper.Sleep returned before the requested duration elapsed")
	}
}
