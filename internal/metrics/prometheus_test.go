package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusObserver(t *testing.T) {
	obs := NewPrometheusObserver()

	before := testutil.ToFloat64(deliveries.WithLabelValues("acked"))
	obs.RecordDelivery("acked")
	if got := testutil.ToFloat64(deliveries.WithLabelValues("acked")); got != before+1 {
		t.Errorf("expected acked counter %v, got %v", before+1, got)
	}

	obs.SetQueueDepth("pending", 7)
	if got := testutil.ToFloat64(queueDepth.WithLabelValues("pending")); got != 7 {
		t.Errorf("expected pending depth 7, got %v", got)
	}

	// Just call the rest to ensure no panic
	obs.ObserveDeliveryLatency(0.25)
	obs.RecordSymbolWarning("vs", "suffix_overflow")
}

func TestNop(t *testing.T) {
	var _ SyncObserver = Nop{}
	var _ SymbolObserver = Nop{}
	var _ SyncObserver = NewPrometheusObserver()
	var _ SymbolObserver = NewPrometheusObserver()
}
