package governor

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/weaver/metrics"
)

type fakeClock struct {
	mux sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(clk *fakeClock, options ...Option) *Service {
	config := DefaultConfig()
	config.PollInterval = 5 * time.Millisecond
	config.CleanupInterval = 5 * time.Millisecond
	return New(config, append([]Option{WithClock(clk.Now)}, options...)...)
}

func TestService_Acquire(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	collector := metrics.NewCollector("governor_test")
	srv := newTestService(clk, WithMetrics(collector))

	assert.True(t, srv.Acquire("wf", "u1", "e1"))
	assert.False(t, srv.Acquire("wf", "u1", "e2"), "held slot denies")
	assert.True(t, srv.Acquire("wf", "u2", "e3"), "keys are independent")

	clk.Advance(29 * time.Minute)
	assert.False(t, srv.Acquire("wf", "u1", "e4"), "slot not yet stale")

	clk.Advance(time.Minute)
	assert.False(t, srv.Acquire("wf", "u1", "e4"), "slot held exactly the threshold is not stale")

	clk.Advance(time.Nanosecond)
	assert.True(t, srv.Acquire("wf", "u1", "e5"), "stale slot is replaced")
	slots := srv.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, "wf:u1", slots[0].Key)
	assert.Equal(t, "e5", slots[0].ExecutionID)

	srv.Release("wf", "u1")
	srv.Release("wf", "u1")
	assert.True(t, srv.Acquire("wf", "u1", "e6"), "released slot is free")

	assert.Equal(t, 3.0, testutil.ToFloat64(collector.SlotDecisions.WithLabelValues("denied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.SlotDecisions.WithLabelValues("reclaimed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.ActiveSlots))
}

func TestService_Acquire_Concurrent(t *testing.T) {
	srv := newTestService(&fakeClock{now: time.Now()})
	var granted int32
	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if srv.Acquire("wf", "u1", "e") {
				atomic.AddInt32(&granted, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), granted)
}

func TestService_WaitForSlot(t *testing.T) {
	testCases := []struct {
		description string
		release     bool
		cancel      bool
		timeout     time.Duration
		expected    bool
	}{
		{description: "slot freed while waiting", release: true, timeout: time.Second, expected: true},
		{description: "timeout", timeout: 30 * time.Millisecond, expected: false},
		{description: "context cancelled", cancel: true, timeout: time.Second, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			var ids int32
			srv := newTestService(&fakeClock{now: time.Now()}, WithIDGenerator(func() string {
				atomic.AddInt32(&ids, 1)
				return "fresh"
			}))
			require.True(t, srv.Acquire("wf", "u1", "holder"))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				time.Sleep(15 * time.Millisecond)
				if tc.release {
					srv.Release("wf", "u1")
				}
				if tc.cancel {
					cancel()
				}
			}()
			assert.Equal(t, tc.expected, srv.WaitForSlot(ctx, "wf", "u1", tc.timeout))
			assert.Greater(t, atomic.LoadInt32(&ids), int32(1), "each attempt uses a fresh id")
		})
	}
}

func TestService_CleanupStale(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	srv := newTestService(clk)
	require.True(t, srv.Acquire("wf", "old", "e1"))
	clk.Advance(20 * time.Minute)
	require.True(t, srv.Acquire("wf", "new", "e2"))
	clk.Advance(11 * time.Minute)

	assert.Equal(t, 1, srv.CleanupStale())
	slots := srv.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, "wf:new", slots[0].Key)
	assert.Equal(t, 0, srv.CleanupStale())

	clk.Advance(10 * time.Minute)
	assert.Equal(t, 0, srv.CleanupStale(), "slot held exactly the threshold is kept")
	clk.Advance(time.Nanosecond)
	assert.Equal(t, 1, srv.CleanupStale())
}

func TestService_StartShutdown(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	srv := newTestService(clk)
	require.True(t, srv.Acquire("wf", "u1", "e1"))
	clk.Advance(time.Hour)

	done := make(chan error, 1)
	go func() { done <- srv.Start(context.Background()) }()
	assert.Eventually(t, func() bool { return len(srv.Slots()) == 0 }, time.Second, 5*time.Millisecond)
	srv.Shutdown()
	srv.Shutdown()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestService_Slot(t *testing.T) {
	clk := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	srv := newTestService(clk)
	_, ok := srv.Slot("wf", "u1")
	assert.False(t, ok)
	require.True(t, srv.Acquire("wf", "u1", "e1"))
	slot, ok := srv.Slot("wf", "u1")
	require.True(t, ok)
	assert.Equal(t, "e1", slot.ExecutionID)
	assert.Equal(t, "wf:u1", slot.Key)
}
