package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"tdms/internal/occupancy/repository"
	"tdms/pkg/config"
	"tdms/pkg/model"
)

// bucketRef identifies one owner's month bucket in the dirty set.
type bucketRef struct {
	OwnerID string
	Key     model.MonthKey
}

type dirtyState struct {
	markedAt    time.Time
	lastAttempt time.Time
	failures    int
}

type deleteJob struct {
	OwnerID string
	StayID  string
}

// SnapshotFunc returns the current records of one bucket. The second
// return is false when the bucket is no longer loaded, in which case the
// syncer drops the dirty entry.
type SnapshotFunc func(ownerID string, key model.MonthKey) ([]model.OccupancyRecord, bool)

// SyncStatus is the operator-visible view of the background sync state.
type SyncStatus struct {
	PendingBuckets []string `json:"pendingBuckets"`
	StaleBuckets   []string `json:"staleBuckets"`
	PendingDeletes int      `json:"pendingDeletes"`
}

// DraftSyncer pushes dirty month buckets to the draft store in the
// background. Saves are debounced: a bucket is flushed only after it has
// been quiet for the debounce window, so a burst of edits coalesces into
// one write. Persistence is best effort; a bucket that keeps failing is
// reported stale but editing is never blocked.
//
// Stay removals additionally enqueue a remote cascade delete, retried up
// to SyncRetryMax times, so buckets never loaded into the session are
// cleaned as well.
type DraftSyncer struct {
	cfg      *config.Config
	repo     repository.DraftRepository
	snapshot SnapshotFunc

	mu    sync.Mutex
	dirty map[bucketRef]*dirtyState

	deletes        chan deleteJob
	pendingDeletes atomic.Int64

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewDraftSyncer(cfg *config.Config, repo repository.DraftRepository, snapshot SnapshotFunc) *DraftSyncer {
	return &DraftSyncer{
		cfg:      cfg,
		repo:     repo,
		snapshot: snapshot,
		dirty:    make(map[bucketRef]*dirtyState),
		deletes:  make(chan deleteJob, 64),
		stop:     make(chan struct{}),
	}
}

// Start launches the flush loop and the cascade-delete worker.
func (s *DraftSyncer) Start() {
	s.wg.Add(2)
	go s.flushLoop()
	go s.deleteWorker()
}

// MarkDirty records that a bucket changed. The debounce clock restarts on
// every call, so consecutive edits to the same bucket push the flush out.
func (s *DraftSyncer) MarkDirty(ownerID string, key model.MonthKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := bucketRef{OwnerID: ownerID, Key: key}
	if st, ok := s.dirty[ref]; ok {
		st.markedAt = time.Now()
		return
	}
	s.dirty[ref] = &dirtyState{markedAt: time.Now()}
}

// EnqueueDelete schedules a remote cascade delete for the stay. When the
// queue is full the job is run inline rather than dropped.
func (s *DraftSyncer) EnqueueDelete(ownerID, stayID string) {
	s.pendingDeletes.Add(1)
	select {
	case s.deletes <- deleteJob{OwnerID: ownerID, StayID: stayID}:
	default:
		s.runDelete(deleteJob{OwnerID: ownerID, StayID: stayID})
	}
}

// Status reports the dirty and stale buckets for one owner.
func (s *DraftSyncer) Status(ownerID string) SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SyncStatus{
		PendingBuckets: []string{},
		StaleBuckets:   []string{},
		PendingDeletes: int(s.pendingDeletes.Load()),
	}
	for ref, st := range s.dirty {
		if ref.OwnerID != ownerID {
			continue
		}
		status.PendingBuckets = append(status.PendingBuckets, ref.Key.String())
		if st.failures >= s.cfg.SyncStaleThreshold {
			status.StaleBuckets = append(status.StaleBuckets, ref.Key.String())
		}
	}
	return status
}

// Stop halts the background loops and attempts one final flush of every
// dirty bucket so a clean shutdown loses nothing.
func (s *DraftSyncer) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.flush(true)
}

func (s *DraftSyncer) flushLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.SyncFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.flush(false)
		}
	}
}

// flush saves every bucket that has been quiet for the debounce window.
// Failed buckets stay dirty and are retried with a growing backoff.
func (s *DraftSyncer) flush(force bool) {
	now := time.Now()

	s.mu.Lock()
	due := make([]bucketRef, 0, len(s.dirty))
	for ref, st := range s.dirty {
		if !force {
			if now.Sub(st.markedAt) < s.cfg.SyncDebounce {
				continue
			}
			if st.failures > 0 && now.Sub(st.lastAttempt) < s.backoff(st.failures) {
				continue
			}
		}
		due = append(due, ref)
	}
	s.mu.Unlock()

	for _, ref := range due {
		s.flushBucket(ref, now)
	}
}

func (s *DraftSyncer) flushBucket(ref bucketRef, attemptAt time.Time) {
	records, ok := s.snapshot(ref.OwnerID, ref.Key)
	if !ok {
		s.mu.Lock()
		delete(s.dirty, ref)
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	err := s.repo.SaveDraft(ctx, ref.OwnerID, ref.Key, records)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	st, stillDirty := s.dirty[ref]
	if !stillDirty {
		return
	}
	if err != nil {
		st.failures++
		st.lastAttempt = attemptAt
		s.cfg.Log.Warn("Draft save failed",
			"owner_id", ref.OwnerID,
			"period", ref.Key.String(),
			"failures", st.failures,
			"error", err,
		)
		return
	}

	// A re-mark during the save means newer records exist; keep the entry.
	if st.markedAt.After(attemptAt) {
		st.failures = 0
		st.lastAttempt = time.Time{}
		return
	}
	delete(s.dirty, ref)
}

func (s *DraftSyncer) backoff(failures int) time.Duration {
	d := s.cfg.SyncFlushInterval
	for i := 1; i < failures && d < s.cfg.SyncDebounce*4; i++ {
		d *= 2
	}
	return d
}

func (s *DraftSyncer) deleteWorker() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stop:
			// Drain whatever is queued before exiting.
			for {
				select {
				case job := <-s.deletes:
					s.runDelete(job)
				default:
					return
				}
			}
		case job := <-s.deletes:
			s.runDelete(job)
		}
	}
}

func (s *DraftSyncer) runDelete(job deleteJob) {
	defer s.pendingDeletes.Add(-1)

	var err error
	for attempt := 1; attempt <= s.cfg.SyncRetryMax; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		_, err = s.repo.DeleteByStayID(ctx, job.OwnerID, job.StayID)
		cancel()
		if err == nil {
			return
		}
		time.Sleep(s.cfg.SyncFlushInterval * time.Duration(attempt))
	}

	s.cfg.Log.Error("Cascade delete exhausted retries",
		"owner_id", job.OwnerID,
		"stay_id", job.StayID,
		"attempts", s.cfg.SyncRetryMax,
		"error", err,
	)
}
