package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/guivr/ohmydashboard-sub002/internal/guard"
	"github.com/guivr/ohmydashboard-sub002/internal/metrics"
	"github.com/guivr/ohmydashboard-sub002/internal/model"
	"github.com/guivr/ohmydashboard-sub002/internal/sanitize"
)

// Syncer is the external collaborator contract: the integration registry
// plus the per-integration sync implementations behind it.
type Syncer interface {
	// Load discovers and initializes integrations. Idempotent after the
	// first success.
	Load(ctx context.Context) error
	// SyncAccount syncs exactly one externally-known account.
	SyncAccount(ctx context.Context, accountID string) (*model.SyncResult, error)
	// SyncAll syncs every account of every loaded integration.
	SyncAll(ctx context.Context) ([]*model.SyncResult, error)
}

// RunRecorder persists sync run history.
type RunRecorder interface {
	InsertSyncRun(ctx context.Context, run *model.SyncRun) error
}

// ResultCache keeps the latest sync results for dashboard reads.
type ResultCache interface {
	SetAccountResult(ctx context.Context, res *model.SyncResult) error
	SetGlobalResults(ctx context.Context, res []*model.SyncResult) error
}

// Orchestrator answers inbound "trigger sync" requests. It composes the
// account validator and the cooldown governor around the Syncer collaborator
// and guarantees upstream error text is sanitized before it escapes.
type Orchestrator struct {
	syncer   Syncer
	governor *Governor
	runs     RunRecorder // nil disables run history
	results  ResultCache // nil disables result caching
	metrics  metrics.Recorder
	logger   *slog.Logger

	// loadMu serializes the once-per-process registry load. A failed load
	// is retried by the next request; only success latches the flag.
	loadMu sync.Mutex
	loaded bool
}

// NewOrchestrator creates an Orchestrator. runs and results may be nil.
func NewOrchestrator(syncer Syncer, governor *Governor, runs RunRecorder, results ResultCache, recorder metrics.Recorder, logger *slog.Logger) *Orchestrator {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Orchestrator{
		syncer:   syncer,
		governor: governor,
		runs:     runs,
		results:  results,
		metrics:  recorder,
		logger:   logger,
	}
}

// ensureLoaded runs the registry load to completion at most once per
// process, even when requests race to trigger it.
func (o *Orchestrator) ensureLoaded(ctx context.Context) error {
	o.loadMu.Lock()
	defer o.loadMu.Unlock()

	if o.loaded {
		return nil
	}
	if err := o.syncer.Load(ctx); err != nil {
		return &UpstreamError{Message: sanitize.Error(err)}
	}
	o.loaded = true
	return nil
}

// SyncAccount handles a trigger request that names a single account.
//
// Pipeline: registry load (lazy, once) → account id validation → cooldown
// check → dispatch → record. The governor timestamp is written only after
// the attempt is admitted and dispatched, so rejected requests never reset
// the window. No lock is held across the dispatch, which may block on
// network I/O.
func (o *Orchestrator) SyncAccount(ctx context.Context, accountID string, trigger model.SyncTrigger) (*model.SyncResult, error) {
	o.metrics.IncSyncRequested()

	if err := o.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if err := guard.ValidateAccountID(accountID); err != nil {
		o.metrics.IncSyncRejected(metrics.RejectInvalidInput)
		return nil, err
	}

	if rej := o.governor.Check(accountID); rej != nil {
		o.metrics.IncSyncRejected(metrics.RejectRateLimited)
		return nil, NewRateLimitedError(rej.RetryAfter)
	}

	started := o.governor.now()
	res, err := o.syncer.SyncAccount(ctx, accountID)
	if errors.Is(err, ErrUnknownAccount) {
		// Never dispatched upstream: do not burn the cooldown window.
		o.metrics.IncSyncRejected(metrics.RejectInvalidInput)
		return nil, err
	}
	o.governor.Record(accountID)

	run := &model.SyncRun{
		ID:         ulid.Make().String(),
		AccountID:  accountID,
		Trigger:    trigger,
		StartedAt:  started,
		FinishedAt: o.governor.now(),
	}

	if err != nil {
		run.Status = model.SyncRunFailed
		run.Error = sanitize.Error(err)
		o.finishRun(ctx, run)
		o.metrics.IncSyncFailed()
		o.logger.Error("account sync failed",
			slog.String("account_id", accountID),
			slog.String("error", run.Error),
		)
		return nil, &UpstreamError{Message: run.Error}
	}

	run.Status = model.SyncRunSucceeded
	run.Integration = res.Integration
	o.finishRun(ctx, run)
	o.metrics.IncSyncSucceeded()
	o.metrics.ObserveSyncDuration(run.Duration())

	if o.results != nil {
		if cacheErr := o.results.SetAccountResult(ctx, res); cacheErr != nil {
			o.logger.Warn("caching sync result failed",
				slog.String("account_id", accountID),
				slog.String("error", sanitize.Error(cacheErr)),
			)
		}
	}

	return res, nil
}

// SyncAll handles a trigger request with no account id: every account of
// every loaded integration is synced and the global cooldown slot applies.
func (o *Orchestrator) SyncAll(ctx context.Context, trigger model.SyncTrigger) ([]*model.SyncResult, error) {
	o.metrics.IncSyncRequested()

	if err := o.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if rej := o.governor.Check(""); rej != nil {
		o.metrics.IncSyncRejected(metrics.RejectRateLimited)
		return nil, NewRateLimitedError(rej.RetryAfter)
	}

	started := o.governor.now()
	results, err := o.syncer.SyncAll(ctx)
	o.governor.Record("")

	run := &model.SyncRun{
		ID:         ulid.Make().String(),
		Trigger:    trigger,
		StartedAt:  started,
		FinishedAt: o.governor.now(),
	}

	if err != nil {
		run.Status = model.SyncRunFailed
		run.Error = sanitize.Error(err)
		o.finishRun(ctx, run)
		o.metrics.IncSyncFailed()
		o.logger.Error("sync-all failed", slog.String("error", run.Error))
		return nil, &UpstreamError{Message: run.Error}
	}

	run.Status = model.SyncRunSucceeded
	o.finishRun(ctx, run)
	o.metrics.IncSyncSucceeded()
	o.metrics.ObserveSyncDuration(run.Duration())

	if o.results != nil {
		if cacheErr := o.results.SetGlobalResults(ctx, results); cacheErr != nil {
			o.logger.Warn("caching sync results failed",
				slog.String("error", sanitize.Error(cacheErr)),
			)
		}
	}

	return results, nil
}

// CooldownRemaining reports, in whole seconds rounded up, how long the
// given key stays throttled. Zero means the key may sync now.
func (o *Orchestrator) CooldownRemaining(accountID string) int64 {
	if rej := o.governor.Check(accountID); rej != nil {
		return int64((rej.RetryAfter + time.Second - 1) / time.Second)
	}
	return 0
}

// finishRun persists a run row; history failures are logged, never fatal to
// the request.
func (o *Orchestrator) finishRun(ctx context.Context, run *model.SyncRun) {
	if o.runs == nil {
		return
	}
	if err := o.runs.InsertSyncRun(ctx, run); err != nil {
		o.logger.Warn("recording sync run failed",
			slog.String("run_id", run.ID),
			slog.String("error", sanitize.Error(err)),
		)
	}
}
