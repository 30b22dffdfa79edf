package metrics

import (
	"sync/atomic"
	"time"
)

// Collector counts portal traffic and authorization outcomes. Client
// denials are guard pre-checks that blocked rendering; upstream
// denials are 403s reported by the HR backend.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	clientDenials   uint64
	upstreamDenials uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordClientDenial() {
	atomic.AddUint64(&c.clientDenials, 1)
}

func (c *Collector) RecordUpstreamDenial() {
	atomic.AddUint64(&c.upstreamDenials, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	client := atomic.LoadUint64(&c.clientDenials)
	upstream := atomic.LoadUint64(&c.upstreamDenials)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          errs,
		"clientDenialsTotal":   client,
		"upstreamDenialsTotal": upstream,
		"avgDurationMs":        avg,
	}
}
