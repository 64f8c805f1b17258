// Package model defines domain entities for the application.
package model

import "time"

// Account identifies one externally-known account within an integration,
// e.g. a payments account or an analytics site.
type Account struct {
	ID          string `json:"id"`
	Integration string `json:"integration"`
	Name        string `json:"name"`
}

// SyncResult is the structured outcome of syncing one account.
// It is returned to the caller unmodified on success.
type SyncResult struct {
	AccountID   string         `json:"account_id"`
	Integration string         `json:"integration"`
	SyncedAt    time.Time      `json:"synced_at"`
	Data        map[string]any `json:"data,omitempty"`
}
