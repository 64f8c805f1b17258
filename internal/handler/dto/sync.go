// Package dto defines request and response bodies for the HTTP API.
package dto

import "github.com/guivr/ohmydashboard-sub002/internal/model"

// SyncRequest is the body of POST /api/v1/sync. AccountID is optional:
// when absent the request targets every account.
type SyncRequest struct {
	AccountID string `json:"accountId"`
}

// SyncResponse carries the outcome of a single-account sync.
type SyncResponse struct {
	Status string            `json:"status"`
	Result *model.SyncResult `json:"result,omitempty"`
}

// SyncAllResponse carries the outcome of a sync across all accounts.
type SyncAllResponse struct {
	Status  string              `json:"status"`
	Results []*model.SyncResult `json:"results"`
}

// SyncStatusResponse summarizes cooldown state and the most recent
// cached results.
type SyncStatusResponse struct {
	CooldownSecondsRemaining int64               `json:"cooldown_seconds_remaining"`
	Results                  []*model.SyncResult `json:"results,omitempty"`
	Result                   *model.SyncResult   `json:"result,omitempty"`
}

// SyncRunsResponse lists recorded sync runs, newest first.
type SyncRunsResponse struct {
	Runs []*model.SyncRun `json:"runs"`
}

// IntegrationsResponse lists registered integrations and their accounts.
type IntegrationsResponse struct {
	Integrations []string        `json:"integrations"`
	Accounts     []model.Account `json:"accounts"`
}

// RefreshHookRequest is the payload of an inbound signed refresh hook.
// AccountID is optional; absent means refresh everything.
type RefreshHookRequest struct {
	AccountID string `json:"accountId"`
}
