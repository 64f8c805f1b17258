package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/guivr/ohmydashboard-sub002/internal/auth"
)

func TestAdminAuth(t *testing.T) {
	const token = "admin-token-for-tests"

	hash, err := auth.HashToken(token)
	if err != nil {
		t.Fatalf("HashToken() error = %v", err)
	}

	tests := []struct {
		name       string
		tokenHash  string
		authHeader string
		apiKey     string
		wantStatus int
	}{
		{
			name:       "empty hash disables auth",
			tokenHash:  "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			tokenHash:  hash,
			authHeader: "Bearer " + token,
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid X-API-Key",
			tokenHash:  hash,
			apiKey:     token,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			tokenHash:  hash,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong token",
			tokenHash:  hash,
			authHeader: "Bearer wrong-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed authorization header",
			tokenHash:  hash,
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AdminAuth(tt.tokenHash)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/metrics", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{"bearer token", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"basic scheme", "Basic dXNlcg==", ""},
		{"scheme only", "Bearer", ""},
		{"trailing space trimmed", "Bearer  abc123", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if got := bearerToken(req); got != tt.want {
				t.Errorf("bearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
