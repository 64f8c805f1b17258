package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/guivr/ohmydashboard-sub002/internal/model"
)

// defaultBillingBase is the payments provider API host.
const defaultBillingBase = "https://api.stripe.com"

// Billing pulls balance and account data from the payments provider.
type Billing struct {
	apiKey string
	base   string
	client *http.Client
}

// NewBilling creates the billing integration with the given secret API key.
func NewBilling(apiKey string) *Billing {
	return &Billing{
		apiKey: apiKey,
		base:   defaultBillingBase,
		client: newHTTPClient(),
	}
}

// ID implements Integration.
func (b *Billing) ID() string {
	return "billing"
}

// Accounts fetches the provider account this key belongs to.
func (b *Billing) Accounts(ctx context.Context) ([]model.Account, error) {
	var acct struct {
		ID              string `json:"id"`
		BusinessProfile struct {
			Name string `json:"name"`
		} `json:"business_profile"`
	}
	if err := b.get(ctx, "/v1/account", &acct); err != nil {
		return nil, err
	}

	name := acct.BusinessProfile.Name
	if name == "" {
		name = acct.ID
	}

	return []model.Account{{
		ID:          acct.ID,
		Integration: b.ID(),
		Name:        name,
	}}, nil
}

// SyncAccount fetches the current balance for the account.
func (b *Billing) SyncAccount(ctx context.Context, accountID string) (*model.SyncResult, error) {
	var balance map[string]any
	if err := b.get(ctx, "/v1/balance", &balance); err != nil {
		return nil, err
	}

	return &model.SyncResult{
		AccountID:   accountID,
		Integration: b.ID(),
		SyncedAt:    time.Now().UTC(),
		Data:        map[string]any{"balance": balance},
	}, nil
}

// get performs an authenticated GET and decodes the JSON response.
// Upstream bodies are never included in errors; status codes only.
func (b *Billing) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.base+path, nil)
	if err != nil {
		return fmt.Errorf("building billing request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("User-Agent", "ohmydashboard/1.0")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("billing API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("billing API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return fmt.Errorf("decoding billing response: %w", err)
	}
	return nil
}
