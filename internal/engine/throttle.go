package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// Outbound throttle for YouTube endpoints. A single process fans out
// transcript fetches for search results, and YouTube tolerates sustained
// bursts badly, so every outbound call waits on this limiter first.
var ytLimiter *rate.Limiter

func initThrottle(qps float64) {
	if qps <= 0 {
		qps = 4
	}
	burst := int(qps)
	if burst < 1 {
		burst = 1
	}
	ytLimiter = rate.NewLimiter(rate.Limit(qps), burst)
}

// WaitYouTube blocks until the outbound limiter admits one request,
// or the context is cancelled.
func WaitYouTube(ctx context.Context) error {
	if ytLimiter == nil {
		return nil
	}
	return ytLimiter.Wait(ctx)
}
