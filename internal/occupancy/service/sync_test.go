package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tdms/pkg/model"
)

func TestSyncer_RetriesFailedSaveUntilSuccess(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	repo := &mockDraftRepository{
		saveDraftFn: func(ctx context.Context, ownerID string, key model.MonthKey, records []model.OccupancyRecord) error {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts < 3 {
				return errors.New("store unreachable")
			}
			return nil
		},
	}

	cfg := testConfig()
	cfg.SyncDebounce = 5 * time.Millisecond
	syncer := NewDraftSyncer(cfg, repo, func(ownerID string, key model.MonthKey) ([]model.OccupancyRecord, bool) {
		return []model.OccupancyRecord{}, true
	})
	syncer.Start()
	defer syncer.Stop()

	syncer.MarkDirty("owner-1", model.MonthKey{Year: 2025, Month: 3})

	waitFor(t, func() bool {
		return len(syncer.Status("owner-1").PendingBuckets) == 0
	}, "bucket never flushed despite retries")

	mu.Lock()
	defer mu.Unlock()
	if attempts < 3 {
		t.Errorf("attempts = %d, want at least 3", attempts)
	}
}

func TestSyncer_MarksBucketStaleAfterRepeatedFailures(t *testing.T) {
	repo := &mockDraftRepository{
		saveDraftFn: func(ctx context.Context, ownerID string, key model.MonthKey, records []model.OccupancyRecord) error {
			return errors.New("store unreachable")
		},
	}

	cfg := testConfig()
	cfg.SyncDebounce = 5 * time.Millisecond
	cfg.SyncStaleThreshold = 2
	syncer := NewDraftSyncer(cfg, repo, func(ownerID string, key model.MonthKey) ([]model.OccupancyRecord, bool) {
		return []model.OccupancyRecord{}, true
	})
	syncer.Start()

	syncer.MarkDirty("owner-1", model.MonthKey{Year: 2025, Month: 3})

	waitFor(t, func() bool {
		return len(syncer.Status("owner-1").StaleBuckets) == 1
	}, "bucket never reported stale")

	status := syncer.Status("owner-1")
	if len(status.PendingBuckets) != 1 {
		t.Errorf("stale bucket must stay pending, got %v", status.PendingBuckets)
	}

	// Stop attempts one last flush; it fails too, which is fine.
	syncer.Stop()
}

func TestSyncer_DropsBucketNoLongerLoaded(t *testing.T) {
	repo := &mockDraftRepository{}
	cfg := testConfig()
	cfg.SyncDebounce = 5 * time.Millisecond
	syncer := NewDraftSyncer(cfg, repo, func(ownerID string, key model.MonthKey) ([]model.OccupancyRecord, bool) {
		return nil, false
	})
	syncer.Start()
	defer syncer.Stop()

	syncer.MarkDirty("owner-1", model.MonthKey{Year: 2025, Month: 3})

	waitFor(t, func() bool {
		return len(syncer.Status("owner-1").PendingBuckets) == 0
	}, "unloaded bucket was never dropped")

	if saves, _ := repo.counts(); saves != 0 {
		t.Errorf("saves = %d, want 0 for an unloaded bucket", saves)
	}
}

func TestSyncer_DeleteRetriesThenGivesUp(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	repo := &mockDraftRepository{
		deleteByStayIDFn: func(ctx context.Context, ownerID string, stayID string) (int64, error) {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			return 0, errors.New("store unreachable")
		},
	}

	cfg := testConfig()
	cfg.SyncRetryMax = 2
	cfg.SyncFlushInterval = time.Millisecond
	syncer := NewDraftSyncer(cfg, repo, func(ownerID string, key model.MonthKey) ([]model.OccupancyRecord, bool) {
		return nil, false
	})
	syncer.Start()
	defer syncer.Stop()

	syncer.EnqueueDelete("owner-1", "stay-x")

	waitFor(t, func() bool {
		return syncer.Status("owner-1").PendingDeletes == 0
	}, "delete job never completed")

	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Errorf("attempts = %d, want exactly SyncRetryMax (2)", attempts)
	}
}
