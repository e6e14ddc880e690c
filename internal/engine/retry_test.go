package engine

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetryDo(t *testing.T) {
	transient := &net.OpError{Op: "dial", Err: errors.New("connection refused")}

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		got, err := RetryDo(context.Background(), fastRetry(), func() (string, error) {
			calls++
			return "ok", nil
		})
		if err != nil || got != "ok" || calls != 1 {
			t.Errorf("got %q, err=%v, calls=%d; want ok, nil, 1", got, err, calls)
		}
	})

	t.Run("retries transient errors", func(t *testing.T) {
		calls := 0
		got, err := RetryDo(context.Background(), fastRetry(), func() (string, error) {
			calls++
			if calls < 3 {
				return "", transient
			}
			return "ok", nil
		})
		if err != nil || got != "ok" {
			t.Errorf("got %q, err=%v; want ok, nil", got, err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		_, err := RetryDo(context.Background(), fastRetry(), func() (string, error) {
			calls++
			return "", transient
		})
		if err == nil {
			t.Fatal("want error after exhausting retries")
		}
		if calls != 4 { // initial attempt + 3 retries
			t.Errorf("calls = %d, want 4", calls)
		}
	})

	t.Run("non-retryable error stops immediately", func(t *testing.T) {
		calls := 0
		_, err := RetryDo(context.Background(), fastRetry(), func() (string, error) {
			calls++
			return "", errors.New("bad input")
		})
		if err == nil || calls != 1 {
			t.Errorf("err=%v, calls=%d; want error after single call", err, calls)
		}
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := RetryDo(ctx, fastRetry(), func() (string, error) {
			return "", transient
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http status error", &httpStatusError{StatusCode: 503}, true},
		{"op error", &net.OpError{Op: "read", Err: errors.New("reset")}, true},
		{"dns error", &net.DNSError{Err: "no such host"}, true},
		{"plain error", errors.New("nope"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		if !isRetryableStatus(code) {
			t.Errorf("status %d should be retryable", code)
		}
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404} {
		if isRetryableStatus(code) {
			t.Errorf("status %d should not be retryable", code)
		}
	}
}
