// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Rejection reasons recorded by IncSyncRejected.
const (
	RejectForged       = "forged"
	RejectInvalidInput = "invalid_input"
	RejectRateLimited  = "rate_limited"
)

// Webhook outcomes recorded by IncWebhookReceived.
const (
	WebhookVerified = "verified"
	WebhookRejected = "rejected"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Sync guardrail metrics
	IncSyncRequested()
	IncSyncRejected(reason string) // reason: forged, invalid_input, rate_limited
	IncSyncSucceeded()
	IncSyncFailed()
	ObserveSyncDuration(duration time.Duration)

	// Integration registry metrics
	SetIntegrationsLoaded(count int64)

	// Inbound webhook metrics
	IncWebhookReceived(status string) // status: verified or rejected
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
