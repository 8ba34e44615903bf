package llm

import (
	"context"
	"time"
)

// rpsLimiter spaces provider calls out to a target request rate. It is a
// token bucket: Acquire takes a token, a background ticker puts one back
// every 1/rps seconds, and the bucket capacity bounds the burst. A nil
// limiter never blocks, so callers don't branch on whether throttling is
// configured.
type rpsLimiter struct {
	tokens chan struct{}
	stopCh chan struct{}
}

func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	l := &rpsLimiter{
		tokens: make(chan struct{}, burst),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}

	interval := time.Duration(float64(time.Second) / rps)
	if interval <= 0 {
		interval = time.Millisecond
	}
	go l.refill(interval)
	return l
}

func (l *rpsLimiter) refill(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			select {
			case l.tokens <- struct{}{}:
			default:
				// bucket already full
			}
		case <-l.stopCh:
			return
		}
	}
}

// Acquire blocks until a token is available, the context is canceled, or
// the limiter is stopped.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopCh:
		return context.Canceled
	case <-l.tokens:
		return nil
	}
}

// Stop shuts down the refill goroutine. Pending Acquire calls unblock with
// an error.
func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	close(l.stopCh)
}
