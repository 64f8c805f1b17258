package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/guivr/ohmydashboard-sub002/internal/handler/dto"
	"github.com/guivr/ohmydashboard-sub002/internal/metrics"
	"github.com/guivr/ohmydashboard-sub002/internal/model"
	"github.com/guivr/ohmydashboard-sub002/internal/webhook"
)

// Signature headers for inbound refresh hooks.
const (
	HeaderHookSignature = "X-Hook-Signature"
	HeaderHookTimestamp = "X-Hook-Timestamp"
)

// RefreshHookHandler handles inbound signed refresh hooks from upstream
// providers.
type RefreshHookHandler struct {
	secret       string
	replayWindow time.Duration
	orch         SyncOrchestrator
	recorder     metrics.Recorder
	logger       *slog.Logger
}

// NewRefreshHookHandler creates a new RefreshHookHandler. An empty
// secret disables the endpoint.
func NewRefreshHookHandler(secret string, orch SyncOrchestrator, recorder metrics.Recorder, logger *slog.Logger) *RefreshHookHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RefreshHookHandler{
		secret:       secret,
		replayWindow: webhook.DefaultReplayWindow,
		orch:         orch,
		recorder:     recorder,
		logger:       logger.With("handler", "refresh_hook"),
	}
}

// Refresh handles POST /webhooks/refresh.
//
// The signature covers "{timestamp}.{body}". Verification failures are
// answered identically so a caller cannot probe which part failed.
func (h *RefreshHookHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.secret == "" {
		writeError(w, http.StatusServiceUnavailable, "refresh hook is not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	timestamp, err := strconv.ParseInt(r.Header.Get(HeaderHookTimestamp), 10, 64)
	if err != nil {
		h.reject(w, "missing or malformed timestamp header")
		return
	}

	signature := r.Header.Get(HeaderHookSignature)
	if err := webhook.Verify(h.secret, signature, timestamp, body, h.replayWindow); err != nil {
		h.reject(w, err.Error())
		return
	}

	h.recorder.IncWebhookReceived(metrics.WebhookVerified)

	var req dto.RefreshHookRequest
	_ = json.Unmarshal(body, &req)

	ctx := r.Context()
	if req.AccountID == "" {
		if _, err := h.orch.SyncAll(ctx, model.TriggerWebhook); err != nil {
			h.writeHookError(w, err)
			return
		}
	} else {
		if _, err := h.orch.SyncAccount(ctx, req.AccountID, model.TriggerWebhook); err != nil {
			h.writeHookError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *RefreshHookHandler) reject(w http.ResponseWriter, reason string) {
	h.recorder.IncWebhookReceived(metrics.WebhookRejected)
	h.logger.Warn("rejected refresh hook", "reason", reason)
	writeError(w, http.StatusUnauthorized, "hook verification failed")
}

func (h *RefreshHookHandler) writeHookError(w http.ResponseWriter, err error) {
	// Reuse the sync error mapping; hooks and manual triggers fail the
	// same way.
	sh := &SyncHandler{logger: h.logger}
	sh.writeSyncError(w, err)
}
