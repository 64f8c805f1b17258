package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guivr/ohmydashboard-sub002/internal/model"
)

// defaultAnalyticsBase is the web analytics provider API host.
const defaultAnalyticsBase = "https://plausible.io"

// Analytics pulls visitor statistics for one site from the analytics
// provider.
type Analytics struct {
	apiKey string
	siteID string
	base   string
	client *http.Client
}

// NewAnalytics creates the analytics integration for the given site.
func NewAnalytics(apiKey, siteID string) *Analytics {
	return &Analytics{
		apiKey: apiKey,
		siteID: siteID,
		base:   defaultAnalyticsBase,
		client: newHTTPClient(),
	}
}

// ID implements Integration.
func (a *Analytics) ID() string {
	return "analytics"
}

// AccountID derives the account identifier for the configured site. Site ids
// are domains; dots are not in the account id allow-list, so they map to
// hyphens.
func (a *Analytics) AccountID() string {
	return strings.ReplaceAll(a.siteID, ".", "-")
}

// Accounts returns the single configured site.
func (a *Analytics) Accounts(ctx context.Context) ([]model.Account, error) {
	return []model.Account{{
		ID:          a.AccountID(),
		Integration: a.ID(),
		Name:        a.siteID,
	}}, nil
}

// SyncAccount fetches aggregate visitor stats for the site.
func (a *Analytics) SyncAccount(ctx context.Context, accountID string) (*model.SyncResult, error) {
	query := url.Values{
		"site_id": {a.siteID},
		"metrics": {"visitors,pageviews,bounce_rate,visit_duration"},
		"period":  {"30d"},
	}

	endpoint := a.base + "/api/v1/stats/aggregate?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building analytics request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("User-Agent", "ohmydashboard/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analytics API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analytics API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Results map[string]any `json:"results"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding analytics response: %w", err)
	}

	return &model.SyncResult{
		AccountID:   accountID,
		Integration: a.ID(),
		SyncedAt:    time.Now().UTC(),
		Data:        map[string]any{"stats": payload.Results},
	}, nil
}
