package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Quote("ok")
	m.Quote("ok")
	m.Quote("rate_unavailable")
	m.Submit("backend_error")
	m.RejectedRemoval("trip")
	m.ObserveRequest("GET /api/quote", "200", 15*time.Millisecond)

	if got := testutil.ToFloat64(m.quotes.WithLabelValues("ok")); got != 2 {
		t.Fatalf("ok quotes = %v", got)
	}
	if got := testutil.ToFloat64(m.submits.WithLabelValues("backend_error")); got != 1 {
		t.Fatalf("failed submits = %v", got)
	}
	if got := testutil.ToFloat64(m.removals.WithLabelValues("trip")); got != 1 {
		t.Fatalf("trip removals = %v", got)
	}
	if n := testutil.CollectAndCount(m.latency); n != 1 {
		t.Fatalf("latency series = %d", n)
	}
}
