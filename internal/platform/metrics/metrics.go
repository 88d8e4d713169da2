package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	autoApproved uint64
	challenged   uint64
	escalated    uint64
	blocked      uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordDecision counts one adjudication outcome by verification path.
func (c *Collector) RecordDecision(path string) {
	switch path {
	case "AUTO_APPROVE":
		atomic.AddUint64(&c.autoApproved, 1)
	case "OTP_REQUIRED":
		atomic.AddUint64(&c.challenged, 1)
	case "MANAGER_REQUIRED":
		atomic.AddUint64(&c.escalated, 1)
	case "BLOCK":
		atomic.AddUint64(&c.blocked, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      errs,
		"rateLimitedTotal": limited,
		"avgDurationMs":    avg,
		"decisionsAuto":    atomic.LoadUint64(&c.autoApproved),
		"decisionsOTP":     atomic.LoadUint64(&c.challenged),
		"decisionsManager": atomic.LoadUint64(&c.escalated),
		"decisionsBlocked": atomic.LoadUint64(&c.blocked),
	}
}
