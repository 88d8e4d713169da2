package metrics

import (
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.Record(429, 2*time.Millisecond)
	c.RecordDecision("AUTO_APPROVE")
	c.RecordDecision("AUTO_APPROVE")
	c.RecordDecision("BLOCK")
	c.RecordDecision("something-else")

	snap := c.Snapshot()
	if snap["requestsTotal"].(uint64) != 3 {
		t.Fatalf("requestsTotal = %v, want 3", snap["requestsTotal"])
	}
	if snap["errorsTotal"].(uint64) != 1 {
		t.Fatalf("errorsTotal = %v, want 1", snap["errorsTotal"])
	}
	if snap["rateLimitedTotal"].(uint64) != 1 {
		t.Fatalf("rateLimitedTotal = %v, want 1", snap["rateLimitedTotal"])
	}
	if snap["decisionsAuto"].(uint64) != 2 {
		t.Fatalf("decisionsAuto = %v, want 2", snap["decisionsAuto"])
	}
	if snap["decisionsBlocked"].(uint64) != 1 {
		t.Fatalf("decisionsBlocked = %v, want 1", snap["decisionsBlocked"])
	}
	if avg := snap["avgDurationMs"].(float64); avg != 14 {
		t.Fatalf("avgDurationMs = %v, want 14", avg)
	}
}
