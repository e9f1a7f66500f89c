package service

import (
	"sync"

	"golang.org/x/time/rate"
)

// LimiterPool holds per-tenant token buckets used as an in-process burst
// guard in front of the shared minute window. QPS 0 disables the guard
// (rate.Inf), leaving the ledger's window as the only cap.
type LimiterPool struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	qps      rate.Limit
	burst    int
}

func NewLimiterPool(qps float64, burst int) *LimiterPool {
	limit := rate.Limit(qps)
	if qps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &LimiterPool{
		limiters: make(map[string]*rate.Limiter),
		qps:      limit,
		burst:    burst,
	}
}

func (p *LimiterPool) Allow(tenantID string) bool {
	p.mu.Lock()
	limiter, ok := p.limiters[tenantID]
	if !ok {
		limiter = rate.NewLimiter(p.qps, p.burst)
		p.limiters[tenantID] = limiter
	}
	p.mu.Unlock()
	return limiter.Allow()
}
