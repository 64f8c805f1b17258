package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guivr/ohmydashboard-sub002/internal/model"
)

type fakeDirectory struct {
	integrations []string
	accounts     []model.Account
}

func (f *fakeDirectory) Integrations() []string    { return f.integrations }
func (f *fakeDirectory) Accounts() []model.Account { return f.accounts }

func TestIntegrations_List(t *testing.T) {
	h := NewIntegrationHandler(&fakeDirectory{
		integrations: []string{"analytics", "billing"},
		accounts: []model.Account{
			{ID: "acct-1", Integration: "billing", Name: "Main balance"},
			{ID: "example-com", Integration: "analytics", Name: "example.com"},
		},
	})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/integrations", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Integrations []string        `json:"integrations"`
		Accounts     []model.Account `json:"accounts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Integrations) != 2 || len(resp.Accounts) != 2 {
		t.Errorf("got %d integrations and %d accounts, want 2 and 2", len(resp.Integrations), len(resp.Accounts))
	}
}

func TestIntegrations_EmptyBeforeLoad(t *testing.T) {
	h := NewIntegrationHandler(&fakeDirectory{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/integrations", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// nil slices must render as [], not null.
	body := rec.Body.String()
	var resp map[string]any
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["integrations"] == nil || resp["accounts"] == nil {
		t.Errorf("expected empty arrays, got: %s", body)
	}
}
