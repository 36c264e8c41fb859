package metrics

// SyncObserver receives sync queue events.
type SyncObserver interface {
	RecordDelivery(outcome string)
	ObserveDeliveryLatency(seconds float64)
	SetQueueDepth(status string, n int)
}

// SymbolObserver receives symbol composition warnings.
type SymbolObserver interface {
	RecordSymbolWarning(field, kind string)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordDelivery(string)              {}
func (Nop) ObserveDeliveryLatency(float64)     {}
func (Nop) SetQueueDepth(string, int)          {}
func (Nop) RecordSymbolWarning(string, string) {}
