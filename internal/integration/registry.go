// Package integration provides the pluggable adapters that pull data from
// external business APIs and the registry that discovers them.
package integration

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/guivr/ohmydashboard-sub002/internal/metrics"
	"github.com/guivr/ohmydashboard-sub002/internal/model"
	"github.com/guivr/ohmydashboard-sub002/internal/sanitize"
	"github.com/guivr/ohmydashboard-sub002/internal/service"
)

// Integration is the capability contract every adapter implements.
// Registration is explicit; there is no runtime reflection.
type Integration interface {
	// ID names the integration, e.g. "billing".
	ID() string
	// Accounts enumerates the externally-known accounts this integration
	// can sync. May call the external API.
	Accounts(ctx context.Context) ([]model.Account, error)
	// SyncAccount pulls fresh data for one account.
	SyncAccount(ctx context.Context, accountID string) (*model.SyncResult, error)
}

// Registry maps account ids to the integration that owns them. It implements
// the orchestrator's Syncer contract.
type Registry struct {
	mu           sync.RWMutex
	integrations []Integration
	byAccount    map[string]Integration
	accounts     []model.Account

	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(recorder metrics.Recorder, logger *slog.Logger) *Registry {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Registry{
		byAccount: make(map[string]Integration),
		metrics:   recorder,
		logger:    logger,
	}
}

// Register adds an integration. Call before Load.
func (r *Registry) Register(i Integration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.integrations = append(r.integrations, i)
}

// Load discovers the accounts of every registered integration and builds the
// account index. Orchestration guarantees it runs at most once per process
// after the first success.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byAccount := make(map[string]Integration)
	var all []model.Account

	for _, i := range r.integrations {
		accounts, err := i.Accounts(ctx)
		if err != nil {
			return fmt.Errorf("loading accounts for integration %q: %w", i.ID(), err)
		}
		for _, a := range accounts {
			if prev, exists := byAccount[a.ID]; exists {
				return fmt.Errorf("account id %q claimed by both %q and %q", a.ID, prev.ID(), i.ID())
			}
			byAccount[a.ID] = i
			all = append(all, a)
		}
		r.logger.Info("integration loaded",
			slog.String("integration", i.ID()),
			slog.Int("accounts", len(accounts)),
		)
	}

	r.byAccount = byAccount
	r.accounts = all
	r.metrics.SetIntegrationsLoaded(int64(len(r.integrations)))
	return nil
}

// SyncAccount dispatches a sync to the integration that owns the account.
func (r *Registry) SyncAccount(ctx context.Context, accountID string) (*model.SyncResult, error) {
	r.mu.RLock()
	owner := r.byAccount[accountID]
	r.mu.RUnlock()

	if owner == nil {
		return nil, service.ErrUnknownAccount
	}

	res, err := owner.SyncAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("integration %q: %w", owner.ID(), err)
	}
	if res.SyncedAt.IsZero() {
		res.SyncedAt = time.Now()
	}
	return res, nil
}

// SyncAll syncs every known account in registration order. Accounts that
// fail are skipped and logged; SyncAll errors only when nothing succeeded.
func (r *Registry) SyncAll(ctx context.Context) ([]*model.SyncResult, error) {
	r.mu.RLock()
	accounts := make([]model.Account, len(r.accounts))
	copy(accounts, r.accounts)
	r.mu.RUnlock()

	results := make([]*model.SyncResult, 0, len(accounts))
	var lastErr error

	for _, a := range accounts {
		res, err := r.SyncAccount(ctx, a.ID)
		if err != nil {
			lastErr = err
			r.logger.Warn("account skipped during sync-all",
				slog.String("account_id", a.ID),
				slog.String("error", sanitize.Error(err)),
			)
			continue
		}
		results = append(results, res)
	}

	if len(results) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return results, nil
}

// Accounts returns the indexed accounts. Empty before Load.
func (r *Registry) Accounts() []model.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Integrations returns the ids of registered integrations.
func (r *Registry) Integrations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.integrations))
	for _, i := range r.integrations {
		ids = append(ids, i.ID())
	}
	return ids
}
