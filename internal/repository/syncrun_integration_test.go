package repository

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/guivr/ohmydashboard-sub002/internal/model"
	"github.com/guivr/ohmydashboard-sub002/internal/testutil"
)

// Requires TEST_DATABASE_URL; skipped otherwise.
func setupRepo(t *testing.T) (*Repository, context.Context) {
	t.Helper()

	databaseURL := testutil.RequireEnv(t, "TEST_DATABASE_URL")
	ctx := context.Background()

	repo, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("AcquireDBLock() error = %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if err := testutil.TruncateSyncRuns(ctx, repo.Pool()); err != nil {
		t.Fatalf("TruncateSyncRuns() error = %v", err)
	}

	return repo, ctx
}

func TestSyncRunRoundTrip(t *testing.T) {
	repo, ctx := setupRepo(t)

	started := time.Now().UTC().Truncate(time.Microsecond)
	run := &model.SyncRun{
		ID:          ulid.Make().String(),
		AccountID:   "acct-1",
		Integration: "billing",
		Trigger:     model.TriggerManual,
		Status:      model.SyncRunSucceeded,
		StartedAt:   started,
		FinishedAt:  started.Add(250 * time.Millisecond),
	}

	if err := repo.InsertSyncRun(ctx, run); err != nil {
		t.Fatalf("InsertSyncRun() error = %v", err)
	}

	runs, err := repo.ListSyncRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListSyncRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	got := runs[0]
	if got.ID != run.ID {
		t.Errorf("ID = %q, want %q", got.ID, run.ID)
	}
	if got.AccountID != run.AccountID || got.Integration != run.Integration {
		t.Errorf("account/integration = %q/%q, want %q/%q",
			got.AccountID, got.Integration, run.AccountID, run.Integration)
	}
	if got.Trigger != model.TriggerManual || got.Status != model.SyncRunSucceeded {
		t.Errorf("trigger/status = %q/%q, want manual/succeeded", got.Trigger, got.Status)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, run.StartedAt)
	}
}

func TestListSyncRuns_NewestFirst(t *testing.T) {
	repo, ctx := setupRepo(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		run := &model.SyncRun{
			ID:         ulid.Make().String(),
			Trigger:    model.TriggerScheduler,
			Status:     model.SyncRunSucceeded,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
		}
		if err := repo.InsertSyncRun(ctx, run); err != nil {
			t.Fatalf("InsertSyncRun() error = %v", err)
		}
	}

	runs, err := repo.ListSyncRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListSyncRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Errorf("runs not ordered newest first: %v then %v", runs[0].StartedAt, runs[1].StartedAt)
	}
}

func TestListSyncRuns_FailedRunKeepsSanitizedError(t *testing.T) {
	repo, ctx := setupRepo(t)

	run := &model.SyncRun{
		ID:         ulid.Make().String(),
		AccountID:  "acct-1",
		Trigger:    model.TriggerWebhook,
		Status:     model.SyncRunFailed,
		Error:      "upstream returned status 401: [REDACTED]",
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if err := repo.InsertSyncRun(ctx, run); err != nil {
		t.Fatalf("InsertSyncRun() error = %v", err)
	}

	runs, err := repo.ListSyncRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListSyncRuns() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Error != run.Error {
		t.Fatalf("got %+v, want stored error message", runs)
	}
}
