package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncItemCreated is a no-op.
func (n *NoopRecorder) IncItemCreated() {}

// IncItemUpdated is a no-op.
func (n *NoopRecorder) IncItemUpdated() {}

// IncItemDeleted is a no-op.
func (n *NoopRecorder) IncItemDeleted() {}

// IncItemMarkedFound is a no-op.
func (n *NoopRecorder) IncItemMarkedFound() {}

// IncSecurityAnswer is a no-op.
func (n *NoopRecorder) IncSecurityAnswer(outcome string) {}

// ObserveSignDuration is a no-op.
func (n *NoopRecorder) ObserveSignDuration(duration time.Duration) {}

// IncOrphanedBlob is a no-op.
func (n *NoopRecorder) IncOrphanedBlob(reason string) {}

// IncOrphanSwept is a no-op.
func (n *NoopRecorder) IncOrphanSwept(status string) {}

// SetOrphanQueueDepth is a no-op.
func (n *NoopRecorder) SetOrphanQueueDepth(depth int64) {}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited(scope string) {}
