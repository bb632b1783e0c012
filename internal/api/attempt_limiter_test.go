package api

import (
	"fmt"
	"testing"
	"time"
)

func TestAttemptLimiterWindowAndReset(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter(2, time.Hour)
	key := "127.0.0.1"
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	limiter.fail(key, now.Add(-2*time.Hour))
	limiter.fail(key, now.Add(-90*time.Minute))
	if limiter.blocked(key, now) {
		t.Fatal("expected attempts outside the window to be pruned")
	}

	limiter.fail(key, now.Add(-30*time.Minute))
	if limiter.blocked(key, now) {
		t.Fatal("expected one recent failure to stay under limit 2")
	}
	limiter.fail(key, now.Add(-time.Minute))
	if !limiter.blocked(key, now) {
		t.Fatal("expected two recent failures to hit limit 2")
	}
	if limiter.blocked("10.0.0.2", now) {
		t.Fatal("expected other keys to be unaffected")
	}

	limiter.reset(key)
	if limiter.blocked(key, now) {
		t.Fatal("expected no attempts after reset")
	}
}

func TestAttemptLimiterSweepsStaleKeys(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter(1, time.Minute)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for index := 0; index < sweepThreshold; index++ {
		limiter.fail(fmt.Sprintf("10.0.%d.%d", index/256, index%256), start)
	}

	limiter.fail("192.168.0.1", start.Add(time.Hour))
	if got := len(limiter.failures); got != 1 {
		t.Fatalf("expected stale keys to be swept, %d keys remain", got)
	}
}
