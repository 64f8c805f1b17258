package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSyncRequested is a no-op.
func (n *NoopRecorder) IncSyncRequested() {}

// IncSyncRejected is a no-op.
func (n *NoopRecorder) IncSyncRejected(reason string) {}

// IncSyncSucceeded is a no-op.
func (n *NoopRecorder) IncSyncSucceeded() {}

// IncSyncFailed is a no-op.
func (n *NoopRecorder) IncSyncFailed() {}

// ObserveSyncDuration is a no-op.
func (n *NoopRecorder) ObserveSyncDuration(duration time.Duration) {}

// SetIntegrationsLoaded is a no-op.
func (n *NoopRecorder) SetIntegrationsLoaded(count int64) {}

// IncWebhookReceived is a no-op.
func (n *NoopRecorder) IncWebhookReceived(status string) {}
