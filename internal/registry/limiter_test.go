package registry

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterAdmitWithinWindow(t *testing.T) {
	l := NewLimiter(20, 10*time.Second)
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		require.True(t, l.Admit("1.2.3.4", now), "request %d should be admitted", i+1)
	}

	require.False(t, l.Admit("1.2.3.4", now), "21st request should be rejected")
	require.False(t, l.Admit("1.2.3.4", now), "rejections persist until the window elapses")
}

func TestLimiterWindowReset(t *testing.T) {
	l := NewLimiter(20, 10*time.Second)
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		l.Admit("1.2.3.4", now)
	}
	require.False(t, l.Admit("1.2.3.4", now))

	// Elapsed window resets the counter to 1
	later := now.Add(10*time.Second + time.Millisecond)
	require.True(t, l.Admit("1.2.3.4", later))

	// The fresh window has capacity again
	for i := 0; i < 19; i++ {
		require.True(t, l.Admit("1.2.3.4", later))
	}
	require.False(t, l.Admit("1.2.3.4", later))
}

func TestLimiterOriginsIndependent(t *testing.T) {
	l := NewLimiter(1, 10*time.Second)
	now := time.Now()

	require.True(t, l.Admit("1.1.1.1", now))
	require.False(t, l.Admit("1.1.1.1", now))
	require.True(t, l.Admit("2.2.2.2", now), "other origins are not affected")
}

func TestLimiterSweepBefore(t *testing.T) {
	l := NewLimiter(20, 10*time.Second)
	now := time.Now()

	for i := 0; i < 5; i++ {
		l.Admit(fmt.Sprintf("10.0.0.%d", i), now)
	}
	require.Equal(t, 5, l.Len())

	removed := l.SweepBefore(now.Add(time.Second))
	require.Equal(t, 5, removed)
	require.Equal(t, 0, l.Len())

	// A swept origin starts over with a fresh window
	require.True(t, l.Admit("10.0.0.0", now))
}
