package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ItemsCreated     uint64
	ItemsUpdated     uint64
	ItemsDeleted     uint64
	ItemsMarkedFound uint64
	SignCount        uint64
	SignTotalNs      int64
	HTTPRequests     uint64
	OrphanQueueDepth int64
	SecurityAnswers  map[string]uint64
	OrphanedBlobs    map[string]uint64
	OrphansSwept     map[string]uint64
	RateLimited      map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	itemsCreated     uint64
	itemsUpdated     uint64
	itemsDeleted     uint64
	itemsMarkedFound uint64
	signCount        uint64
	signTotalNs      int64
	httpRequests     uint64
	orphanQueueDepth int64

	mu              sync.Mutex
	securityAnswers map[string]uint64
	orphanedBlobs   map[string]uint64
	orphansSwept    map[string]uint64
	rateLimited     map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		securityAnswers: make(map[string]uint64),
		orphanedBlobs:   make(map[string]uint64),
		orphansSwept:    make(map[string]uint64),
		rateLimited:     make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		ItemsCreated:     atomic.LoadUint64(&m.itemsCreated),
		ItemsUpdated:     atomic.LoadUint64(&m.itemsUpdated),
		ItemsDeleted:     atomic.LoadUint64(&m.itemsDeleted),
		ItemsMarkedFound: atomic.LoadUint64(&m.itemsMarkedFound),
		SignCount:        atomic.LoadUint64(&m.signCount),
		SignTotalNs:      atomic.LoadInt64(&m.signTotalNs),
		HTTPRequests:     atomic.LoadUint64(&m.httpRequests),
		OrphanQueueDepth: atomic.LoadInt64(&m.orphanQueueDepth),
		SecurityAnswers:  copyCounts(m.securityAnswers),
		OrphanedBlobs:    copyCounts(m.orphanedBlobs),
		OrphansSwept:     copyCounts(m.orphansSwept),
		RateLimited:      copyCounts(m.rateLimited),
	}
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, label string) {
	m.mu.Lock()
	counts[label]++
	m.mu.Unlock()
}

// IncItemCreated increments item created counter.
func (m *InMemoryRecorder) IncItemCreated() {
	atomic.AddUint64(&m.itemsCreated, 1)
}

// IncItemUpdated increments item updated counter.
func (m *InMemoryRecorder) IncItemUpdated() {
	atomic.AddUint64(&m.itemsUpdated, 1)
}

// IncItemDeleted increments item deleted counter.
func (m *InMemoryRecorder) IncItemDeleted() {
	atomic.AddUint64(&m.itemsDeleted, 1)
}

// IncItemMarkedFound increments the mark-as-found counter.
func (m *InMemoryRecorder) IncItemMarkedFound() {
	atomic.AddUint64(&m.itemsMarkedFound, 1)
}

// IncSecurityAnswer counts answer attempts by outcome.
func (m *InMemoryRecorder) IncSecurityAnswer(outcome string) {
	m.inc(m.securityAnswers, outcome)
}

// ObserveSignDuration records signed URL latency.
func (m *InMemoryRecorder) ObserveSignDuration(duration time.Duration) {
	atomic.AddUint64(&m.signCount, 1)
	atomic.AddInt64(&m.signTotalNs, duration.Nanoseconds())
}

// IncOrphanedBlob counts blobs left behind by failed cleanup.
func (m *InMemoryRecorder) IncOrphanedBlob(reason string) {
	m.inc(m.orphanedBlobs, reason)
}

// IncOrphanSwept counts sweeper outcomes.
func (m *InMemoryRecorder) IncOrphanSwept(status string) {
	m.inc(m.orphansSwept, status)
}

// SetOrphanQueueDepth stores the last observed orphan queue size.
func (m *InMemoryRecorder) SetOrphanQueueDepth(n int64) {
	atomic.StoreInt64(&m.orphanQueueDepth, n)
}

// ObserveHTTPRequest counts handled requests.
func (m *InMemoryRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
}

// IncRateLimited counts rejected requests per limiter scope.
func (m *InMemoryRecorder) IncRateLimited(scope string) {
	m.inc(m.rateLimited, scope)
}
