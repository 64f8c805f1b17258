package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SyncRequested          uint64
	SyncRejectedForged     uint64
	SyncRejectedInvalid    uint64
	SyncRejectedThrottled  uint64
	SyncSucceeded          uint64
	SyncFailed             uint64
	SyncDurationCount      uint64
	SyncDurationTotalNs    int64
	IntegrationsLoaded     int64
	WebhooksVerified       uint64
	WebhooksRejected       uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	syncRequested         uint64
	syncRejectedForged    uint64
	syncRejectedInvalid   uint64
	syncRejectedThrottled uint64
	syncSucceeded         uint64
	syncFailed            uint64
	syncDurationCount     uint64
	syncDurationTotalNs   int64
	integrationsLoaded    int64
	webhooksVerified      uint64
	webhooksRejected      uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		SyncRequested:         atomic.LoadUint64(&m.syncRequested),
		SyncRejectedForged:    atomic.LoadUint64(&m.syncRejectedForged),
		SyncRejectedInvalid:   atomic.LoadUint64(&m.syncRejectedInvalid),
		SyncRejectedThrottled: atomic.LoadUint64(&m.syncRejectedThrottled),
		SyncSucceeded:         atomic.LoadUint64(&m.syncSucceeded),
		SyncFailed:            atomic.LoadUint64(&m.syncFailed),
		SyncDurationCount:     atomic.LoadUint64(&m.syncDurationCount),
		SyncDurationTotalNs:   atomic.LoadInt64(&m.syncDurationTotalNs),
		IntegrationsLoaded:    atomic.LoadInt64(&m.integrationsLoaded),
		WebhooksVerified:      atomic.LoadUint64(&m.webhooksVerified),
		WebhooksRejected:      atomic.LoadUint64(&m.webhooksRejected),
	}
}

// IncSyncRequested increments the inbound trigger counter.
func (m *InMemoryRecorder) IncSyncRequested() {
	atomic.AddUint64(&m.syncRequested, 1)
}

// IncSyncRejected increments the rejection counter for the given reason.
func (m *InMemoryRecorder) IncSyncRejected(reason string) {
	switch reason {
	case RejectForged:
		atomic.AddUint64(&m.syncRejectedForged, 1)
	case RejectInvalidInput:
		atomic.AddUint64(&m.syncRejectedInvalid, 1)
	case RejectRateLimited:
		atomic.AddUint64(&m.syncRejectedThrottled, 1)
	}
}

// IncSyncSucceeded increments the successful sync counter.
func (m *InMemoryRecorder) IncSyncSucceeded() {
	atomic.AddUint64(&m.syncSucceeded, 1)
}

// IncSyncFailed increments the failed sync counter.
func (m *InMemoryRecorder) IncSyncFailed() {
	atomic.AddUint64(&m.syncFailed, 1)
}

// ObserveSyncDuration records how long a dispatched sync took.
func (m *InMemoryRecorder) ObserveSyncDuration(duration time.Duration) {
	atomic.AddUint64(&m.syncDurationCount, 1)
	atomic.AddInt64(&m.syncDurationTotalNs, duration.Nanoseconds())
}

// SetIntegrationsLoaded records the loaded integration count.
func (m *InMemoryRecorder) SetIntegrationsLoaded(count int64) {
	atomic.StoreInt64(&m.integrationsLoaded, count)
}

// IncWebhookReceived increments the inbound webhook counter.
func (m *InMemoryRecorder) IncWebhookReceived(status string) {
	switch status {
	case WebhookVerified:
		atomic.AddUint64(&m.webhooksVerified, 1)
	case WebhookRejected:
		atomic.AddUint64(&m.webhooksRejected, 1)
	}
}
