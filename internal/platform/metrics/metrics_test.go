package metrics

import (
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.Record(429, 20*time.Millisecond)

	snap := c.Snapshot()
	if snap["requestsTotal"].(uint64) != 3 {
		t.Fatalf("requests = %v", snap["requestsTotal"])
	}
	if snap["errorsTotal"].(uint64) != 1 {
		t.Fatalf("errors = %v", snap["errorsTotal"])
	}
	if snap["rateLimitedTotal"].(uint64) != 1 {
		t.Fatalf("rate limited = %v", snap["rateLimitedTotal"])
	}
	if snap["avgDurationMs"].(float64) != 20 {
		t.Fatalf("avg duration = %v", snap["avgDurationMs"])
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	snap := New().Snapshot()
	if snap["requestsTotal"].(uint64) != 0 || snap["avgDurationMs"].(float64) != 0 {
		t.Fatalf("fresh collector must report zeros: %v", snap)
	}
}
