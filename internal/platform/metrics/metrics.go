package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps cheap process-wide request counters. It is safe for
// concurrent use.
type Collector struct {
	requests    atomic.Uint64
	errors      atomic.Uint64
	rateLimited atomic.Uint64
	durationMs  atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	if status >= 500 {
		c.errors.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.durationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	requests := c.requests.Load()
	totalMs := c.durationMs.Load()
	avg := float64(0)
	if requests > 0 {
		avg = float64(totalMs) / float64(requests)
	}
	return map[string]any{
		"requestsTotal":    requests,
		"errorsTotal":      c.errors.Load(),
		"rateLimitedTotal": c.rateLimited.Load(),
		"avgDurationMs":    avg,
	}
}
