package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLimiterFixedWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(NewMemoryStore(), WithClock(clock.Now))
	window := 5 * time.Minute

	for i := 1; i <= 10; i++ {
		res := limiter.Check("client", window, 10)
		require.Truef(t, res.Allowed, "attempt %d denied", i)
		assert.Equal(t, 10-i, res.Remaining)
		clock.Advance(time.Second)
	}

	denied := limiter.Check("client", window, 10)
	assert.False(t, denied.Allowed)
	assert.Equal(t, 0, denied.Remaining)
	assert.LessOrEqual(t, denied.ResetIn, window)
	assert.Equal(t, window-10*time.Second, denied.ResetIn)

	clock.Advance(window)
	fresh := limiter.Check("client", window, 10)
	assert.True(t, fresh.Allowed)
	assert.Equal(t, 9, fresh.Remaining, "window reset starts a fresh count of 1")
}

func TestLimiterWindowBoundaryIsExclusive(t *testing.T) {
	clock := newFakeClock()
	limiter := NewLimiter(nil, WithClock(clock.Now))

	require.True(t, limiter.Check("k", time.Minute, 1).Allowed)

	clock.Advance(time.Minute)
	assert.False(t, limiter.Check("k", time.Minute, 1).Allowed, "elapsed == window still inside the window")

	clock.Advance(time.Nanosecond)
	assert.True(t, limiter.Check("k", time.Minute, 1).Allowed)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	limiter := NewLimiter(store)

	require.True(t, limiter.Check("a", time.Minute, 1).Allowed)
	assert.False(t, limiter.Check("a", time.Minute, 1).Allowed)
	assert.True(t, limiter.Check("b", time.Minute, 1).Allowed)
	assert.Equal(t, 2, store.Len())
}

func TestLimiterClampsLimit(t *testing.T) {
	limiter := NewLimiter(nil)
	res := limiter.Check("k", time.Minute, 0)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.False(t, limiter.Check("k", time.Minute, 0).Allowed)
}

func TestLimiterConcurrentNoLostUpdates(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore())
	const limit = 50

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Check("shared", time.Hour, limit).Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), allowed.Load())
}

func TestClientIdentity(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", LoopbackIdentity},
		{"   ", LoopbackIdentity},
		{"203.0.113.7", "203.0.113.7"},
		{" 203.0.113.7 , 10.0.0.1, 10.0.0.2", "203.0.113.7"},
		{", 10.0.0.1", LoopbackIdentity},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.header), func(t *testing.T) {
			assert.Equal(t, tt.want, ClientIdentity(tt.header))
		})
	}
}
