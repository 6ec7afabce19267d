package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManual_FiresOncePerInterval(t *testing.T) {
	clock := NewManual()
	count := 0
	clock.Every(time.Second, func() { count++ })

	clock.Advance(999 * time.Millisecond)
	require.Equal(t, 0, count)

	clock.Advance(time.Millisecond)
	require.Equal(t, 1, count)

	clock.Advance(3 * time.Second)
	require.Equal(t, 4, count)
	require.Equal(t, 4*time.Second, clock.Now())
}

func TestManual_CancelStopsFurtherCallbacks(t *testing.T) {
	clock := NewManual()
	count := 0
	token := clock.Every(time.Second, func() { count++ })

	clock.Advance(2 * time.Second)
	token.Cancel()
	token.Cancel()
	clock.Advance(10 * time.Second)

	require.Equal(t, 2, count)
	require.Equal(t, 0, clock.Pending())
}

func TestManual_CallbackMayCancelItself(t *testing.T) {
	clock := NewManual()
	count := 0
	var token Token
	token = clock.Every(time.Second, func() {
		count++
		if count == 3 {
			token.Cancel()
		}
	})

	clock.Advance(time.Minute)
	require.Equal(t, 3, count)
	require.Equal(t, 0, clock.Pending())
}

func TestManual_InterleavesLoopsInDeadlineOrder(t *testing.T) {
	clock := NewManual()
	var order []string
	clock.Every(time.Second, func() { order = append(order, "fast") })
	clock.Every(4*time.Second, func() { order = append(order, "slow") })

	clock.Advance(4 * time.Second)
	require.Equal(t, []string{"fast", "fast", "fast", "fast", "slow"}, order)
}

func TestManual_LoopScheduledInsideCallbackStartsFromCurrentTime(t *testing.T) {
	clock := NewManual()
	inner := 0
	var outer Token
	outer = clock.Every(time.Second, func() {
		outer.Cancel()
		clock.Every(time.Second, func() { inner++ })
	})

	clock.Advance(3 * time.Second)
	require.Equal(t, 2, inner)
}

func TestTicker_CancelStopsLoop(t *testing.T) {
	var count atomic.Int32
	token := NewTicker().Every(5*time.Millisecond, func() { count.Add(1) })

	require.Eventually(t, func() bool { return count.Load() >= 2 }, time.Second, time.Millisecond)

	token.Cancel()
	token.Cancel()
	// One callback may already be executing when Cancel returns.
	time.Sleep(10 * time.Millisecond)
	settled := count.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, settled, count.Load())
}
