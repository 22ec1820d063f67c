package ratelimit

// Token-bucket limiters for rate-sensitive providers
// Aggregators ask CanMakeRequest before a call and skip the provider
// when denied instead of queueing

import (
	"golang.org/x/time/rate"
)

// Limiter wraps x/time/rate with the non-blocking ask-and-skip
// contract the aggregators rely on.
type Limiter struct {
	limiter *rate.Limiter
}

// PerMinute builds a limiter refilling n tokens per minute with a
// burst of n.
func PerMinute(n int) *Limiter {
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(float64(n)/60.0), n)}
}

// CanMakeRequest consumes one token if available. A false return means
// the caller should treat the provider as unavailable for this request.
func (l *Limiter) CanMakeRequest() bool {
	return l.limiter.Allow()
}
