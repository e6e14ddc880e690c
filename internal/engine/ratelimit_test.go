package engine

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	t.Run("allows up to max then denies", func(t *testing.T) {
		rl := NewRateLimiter(0)
		for i := 0; i < 5; i++ {
			if !rl.Allow("ip", 5, time.Minute) {
				t.Fatalf("request %d denied, want allowed", i+1)
			}
		}
		if rl.Allow("ip", 5, time.Minute) {
			t.Error("request 6 allowed, want denied")
		}
	})

	t.Run("recovers after window", func(t *testing.T) {
		rl := NewRateLimiter(0)
		if !rl.Allow("ip", 1, 20*time.Millisecond) {
			t.Fatal("first request denied")
		}
		if rl.Allow("ip", 1, 20*time.Millisecond) {
			t.Fatal("second request allowed inside window")
		}
		time.Sleep(25 * time.Millisecond)
		if !rl.Allow("ip", 1, 20*time.Millisecond) {
			t.Error("request denied after window reset")
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		rl := NewRateLimiter(0)
		if !rl.Allow("a", 1, time.Minute) {
			t.Fatal("first request for a denied")
		}
		if !rl.Allow("b", 1, time.Minute) {
			t.Error("first request for b denied, keys share a window")
		}
	})

	t.Run("zero max denies everything", func(t *testing.T) {
		rl := NewRateLimiter(0)
		if rl.Allow("ip", 0, time.Minute) {
			t.Error("max=0 allowed a request")
		}
	})
}

func TestRateLimiterTimeUntilReset(t *testing.T) {
	rl := NewRateLimiter(0)

	t.Run("unknown key resets immediately", func(t *testing.T) {
		if got := rl.TimeUntilReset("nobody", time.Minute); got != 0 {
			t.Errorf("TimeUntilReset = %v, want 0", got)
		}
	})

	t.Run("active window is positive and bounded", func(t *testing.T) {
		rl.Allow("ip", 1, time.Minute)
		got := rl.TimeUntilReset("ip", time.Minute)
		if got <= 0 || got > time.Minute {
			t.Errorf("TimeUntilReset = %v, want in (0, 1m]", got)
		}
	})
}
