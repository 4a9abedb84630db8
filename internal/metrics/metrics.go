// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
type Recorder interface {
	// Item lifecycle
	IncItemCreated()
	IncItemUpdated()
	IncItemDeleted()
	IncItemMarkedFound()

	// Disclosure workflow
	IncSecurityAnswer(outcome string) // outcome: "correct", "wrong", "no_question"

	// Blob store
	ObserveSignDuration(duration time.Duration)
	IncOrphanedBlob(reason string) // reason: "delete_failed", "rollback_failed"
	IncOrphanSwept(status string)  // status: "deleted" or "failed"
	SetOrphanQueueDepth(n int64)

	// HTTP
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	IncRateLimited(scope string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
