package model

import "time"

// SyncRunStatus represents the outcome of a recorded sync run.
type SyncRunStatus string

const (
	SyncRunSucceeded SyncRunStatus = "succeeded"
	SyncRunFailed    SyncRunStatus = "failed"
)

// SyncTrigger identifies what initiated a sync run.
type SyncTrigger string

const (
	TriggerManual    SyncTrigger = "manual"
	TriggerWebhook   SyncTrigger = "webhook"
	TriggerScheduler SyncTrigger = "scheduler"
)

// SyncRun is one recorded sync attempt. AccountID is empty for sync-all runs.
// Error holds a sanitized message only; raw upstream errors are never stored.
type SyncRun struct {
	ID          string        `json:"id"`
	AccountID   string        `json:"account_id,omitempty"`
	Integration string        `json:"integration,omitempty"`
	Trigger     SyncTrigger   `json:"trigger"`
	Status      SyncRunStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
}

// Duration computes how long the run took.
func (r *SyncRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
