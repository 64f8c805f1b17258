package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/guivr/ohmydashboard-sub002/internal/metrics"
)

func TestCSRF(t *testing.T) {
	trusted := []string{"http://localhost:8080", "https://dashboard.example.com"}

	tests := []struct {
		name       string
		method     string
		origin     string
		referer    string
		wantStatus int
	}{
		{
			name:       "trusted origin allowed",
			method:     http.MethodPost,
			origin:     "http://localhost:8080",
			wantStatus: http.StatusOK,
		},
		{
			name:       "second trusted origin allowed",
			method:     http.MethodPost,
			origin:     "https://dashboard.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "untrusted origin rejected",
			method:     http.MethodPost,
			origin:     "https://evil.example.com",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing origin and referer rejected",
			method:     http.MethodPost,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "referer fallback allowed",
			method:     http.MethodPost,
			referer:    "http://localhost:8080/dashboard/settings",
			wantStatus: http.StatusOK,
		},
		{
			name:       "untrusted referer rejected",
			method:     http.MethodPost,
			referer:    "https://evil.example.com/page",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "GET passes without origin",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
		},
		{
			name:       "HEAD passes without origin",
			method:     http.MethodHead,
			wantStatus: http.StatusOK,
		},
		{
			name:       "OPTIONS passes without origin",
			method:     http.MethodOptions,
			wantStatus: http.StatusOK,
		},
		{
			name:       "DELETE without origin rejected",
			method:     http.MethodDelete,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CSRF(trusted, metrics.NewNoop(), slog.New(slog.NewTextHandler(io.Discard, nil)))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}),
			)

			req := httptest.NewRequest(tt.method, "/api/v1/sync", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// TestCSRF_RejectedBeforeHandler proves forged requests never reach the
// wrapped handler and that the rejection is counted.
func TestCSRF_RejectedBeforeHandler(t *testing.T) {
	recorder := metrics.NewInMemory()
	handlerCalls := 0

	handler := CSRF([]string{"http://localhost:8080"}, recorder, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalls++
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(`{"accountId":"acct-1"}`))
	req.Header.Set("Origin", "https://evil.example.com")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if handlerCalls != 0 {
		t.Errorf("handler called %d times, want 0", handlerCalls)
	}
	if got := recorder.Snapshot().SyncRejectedForged; got != 1 {
		t.Errorf("forged rejection count = %d, want 1", got)
	}

	if !strings.Contains(rec.Body.String(), "not trusted") {
		t.Errorf("body = %q, want it to mention the origin is not trusted", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "evil.example.com") {
		t.Errorf("body echoes the attacker-controlled origin: %q", rec.Body.String())
	}
}

// TestCSRF_NilRecorder ensures a nil metrics recorder does not panic.
func TestCSRF_NilRecorder(t *testing.T) {
	handler := CSRF(nil, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
