package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/guivr/ohmydashboard-sub002/internal/guard"
	"github.com/guivr/ohmydashboard-sub002/internal/handler/dto"
	"github.com/guivr/ohmydashboard-sub002/internal/model"
	"github.com/guivr/ohmydashboard-sub002/internal/repository"
	"github.com/guivr/ohmydashboard-sub002/internal/service"
)

// SyncOrchestrator is the subset of the orchestrator the HTTP layer needs.
type SyncOrchestrator interface {
	SyncAccount(ctx context.Context, accountID string, trigger model.SyncTrigger) (*model.SyncResult, error)
	SyncAll(ctx context.Context, trigger model.SyncTrigger) ([]*model.SyncResult, error)
	CooldownRemaining(accountID string) int64
}

// RunLister reads recorded sync runs.
type RunLister interface {
	ListSyncRuns(ctx context.Context, limit int) ([]*model.SyncRun, error)
}

// ResultReader reads the most recent cached sync results.
type ResultReader interface {
	GetAccountResult(ctx context.Context, accountID string) (*model.SyncResult, error)
	GetGlobalResults(ctx context.Context) ([]*model.SyncResult, error)
}

// SyncHandler handles sync trigger and inspection endpoints.
type SyncHandler struct {
	orch    SyncOrchestrator
	runs    RunLister
	results ResultReader
	logger  *slog.Logger
}

// NewSyncHandler creates a new SyncHandler. runs and results may be nil
// when history or result caching is not configured.
func NewSyncHandler(orch SyncOrchestrator, runs RunLister, results ResultReader, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		orch:    orch,
		runs:    runs,
		results: results,
		logger:  logger.With("handler", "sync"),
	}
}

// Sync handles POST /api/v1/sync.
//
// A body of {"accountId": "..."} targets one account. An empty or
// malformed body targets every account.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.SyncRequest
	// A body that does not decode carries no account id.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.AccountID == "" {
		results, err := h.orch.SyncAll(ctx, model.TriggerManual)
		if err != nil {
			h.writeSyncError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.SyncAllResponse{
			Status:  "ok",
			Results: results,
		})
		return
	}

	res, err := h.orch.SyncAccount(ctx, req.AccountID, model.TriggerManual)
	if err != nil {
		h.writeSyncError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SyncResponse{
		Status: "ok",
		Result: res,
	})
}

// Status handles GET /api/v1/sync/status.
//
// An optional ?accountId= query reports one account; otherwise the
// response covers the whole dashboard.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := r.URL.Query().Get("accountId")

	if accountID != "" {
		if err := guard.ValidateAccountID(accountID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	resp := dto.SyncStatusResponse{
		CooldownSecondsRemaining: h.orch.CooldownRemaining(accountID),
	}

	if h.results != nil {
		if accountID != "" {
			res, err := h.results.GetAccountResult(ctx, accountID)
			if err == nil {
				resp.Result = res
			}
		} else {
			results, err := h.results.GetGlobalResults(ctx)
			if err == nil {
				resp.Results = results
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Runs handles GET /api/v1/sync/runs.
func (h *SyncHandler) Runs(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		writeError(w, http.StatusServiceUnavailable, "sync history is not configured")
		return
	}

	limit := repository.DefaultRunListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	runs, err := h.runs.ListSyncRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing sync runs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sync runs")
		return
	}

	if runs == nil {
		runs = []*model.SyncRun{}
	}
	writeJSON(w, http.StatusOK, dto.SyncRunsResponse{Runs: runs})
}

// writeSyncError maps orchestration errors onto HTTP statuses. Every
// message written here is already safe to show a client.
func (h *SyncHandler) writeSyncError(w http.ResponseWriter, err error) {
	var rateLimited *service.RateLimitedError
	var upstream *service.UpstreamError

	switch {
	case errors.As(err, &rateLimited):
		seconds := int64((rateLimited.RetryAfter + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
		writeError(w, http.StatusTooManyRequests, rateLimited.Error())

	case errors.Is(err, service.ErrUnknownAccount),
		errors.Is(err, guard.ErrAccountIDEmpty),
		errors.Is(err, guard.ErrAccountIDTooLong),
		errors.Is(err, guard.ErrAccountIDInvalid):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, upstream.Error())

	default:
		h.logger.Error("sync request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "sync failed")
	}
}
