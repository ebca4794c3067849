package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorsRegistered(t *testing.T) {
	ClaimAttempts.WithLabelValues(OutcomeSuccess).Inc()
	PointsCredited.Add(48)
	ObserveTransaction("accept", time.Now())

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	want := map[string]bool{
		"recyclepoints_claim_attempts_total":         false,
		"recyclepoints_points_credited_total":        false,
		"recyclepoints_transaction_duration_seconds": false,
	}
	for _, mf := range families {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("metric %s not registered", name)
		}
	}
}
