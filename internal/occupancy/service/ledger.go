package service

import (
	"context"
	"errors"
	"sync"

	occuerrors "tdms/internal/occupancy/errors"
	"tdms/internal/occupancy/ledger"
	"tdms/internal/occupancy/repository"
	"tdms/internal/occupancy/validator"
	"tdms/pkg/calendar"
	"tdms/pkg/config"
	apperrors "tdms/pkg/errors"
	"tdms/pkg/model"
	"tdms/pkg/sanitizer"

	"github.com/google/uuid"
)

type LedgerService interface {
	CreateStay(ctx context.Context, ownerID string, stay *model.Stay) (*model.Stay, error)
	UpdateStay(ctx context.Context, ownerID, stayID string, update *model.StayUpdate) (*model.Stay, error)
	RemoveStay(ctx context.Context, ownerID, stayID string) error
	GetMonth(ctx context.Context, ownerID string, key model.MonthKey) ([]model.OccupancyRecord, []model.DayTotals, error)
	GetMonthlyStats(ctx context.Context, ownerID string, key model.MonthKey, roomCount int) (model.MonthlyStats, error)
	ListPeriods(ctx context.Context, ownerID string) ([]model.MonthKey, error)
	SyncStatus(ownerID string) SyncStatus
	Close()
}

// session is one owner's live editing state: their in-memory ledger and
// the lock serializing access to it.
type session struct {
	mu     sync.Mutex
	ledger *ledger.Ledger
}

type ledgerService struct {
	repo      repository.DraftRepository
	validator *validator.StayValidator
	syncer    *DraftSyncer
	cfg       *config.Config

	mu       sync.Mutex
	sessions map[string]*session
}

func NewLedgerService(
	repo repository.DraftRepository,
	stayValidator *validator.StayValidator,
	cfg *config.Config,
) LedgerService {
	s := &ledgerService{
		repo:      repo,
		validator: stayValidator,
		cfg:       cfg,
		sessions:  make(map[string]*session),
	}
	s.syncer = NewDraftSyncer(cfg, repo, s.snapshot)
	s.syncer.Start()
	return s
}

func (s *ledgerService) CreateStay(ctx context.Context, ownerID string, stay *model.Stay) (*model.Stay, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	sanitizer.SanitizeGuests(stay.Guests)
	stay.StayID = uuid.NewString()
	if err := s.validator.Validate(stay); err != nil {
		return nil, asValidationError(err)
	}

	sess := s.session(ownerID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	span := ledger.SpanKeys(stay.StartDay, stay.StartMonth, stay.StartYear, stay.LengthOfStay)
	if err := s.ensureLoaded(ctx, sess, ownerID, span); err != nil {
		return nil, err
	}

	if c := sess.ledger.FindConflict(stay.Room, stay.StartDay, stay.StartMonth, stay.StartYear, stay.LengthOfStay, stay.StayID); c != nil {
		return nil, apperrors.ConflictOnDate(c.Room, c.Day, c.Month, c.Year)
	}

	affected := sess.ledger.Materialize(stay)
	for _, key := range affected {
		s.syncer.MarkDirty(ownerID, key)
	}

	s.cfg.Log.Info("Stay created",
		"owner_id", ownerID,
		"stay_id", stay.StayID,
		"room", stay.Room,
		"start", model.MonthKey{Year: stay.StartYear, Month: stay.StartMonth}.String(),
		"nights", stay.LengthOfStay,
		"buckets", len(affected),
	)
	return stay, nil
}

func (s *ledgerService) UpdateStay(ctx context.Context, ownerID, stayID string, update *model.StayUpdate) (*model.Stay, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if stayID == "" {
		return nil, apperrors.InvalidInput("Stay ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, asValidationError(err)
	}

	sess := s.session(ownerID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	startRec, err := s.locateStay(ctx, sess, ownerID, stayID)
	if err != nil {
		return nil, err
	}

	// Edits are only accepted from the stay's start-day record; any other
	// cell of the grid redirects the caller to the start date.
	if update.FromDay != 0 || update.FromMonth != 0 || update.FromYear != 0 {
		if update.FromDay != startRec.StartDay || update.FromMonth != startRec.StartMonth || update.FromYear != startRec.StartYear {
			return nil, apperrors.InvalidInput("Stays can only be edited from their start day").
				WithDetails(map[string]any{
					"startDay":   startRec.StartDay,
					"startMonth": startRec.StartMonth,
					"startYear":  startRec.StartYear,
				})
		}
	}

	merged := ledger.StayFromRecord(startRec)
	if update.LengthOfStay != nil {
		merged.LengthOfStay = *update.LengthOfStay
	}
	if update.IsCheckIn != nil {
		merged.IsCheckIn = *update.IsCheckIn
	}
	if update.Guests != nil {
		guests := make([]model.Guest, len(*update.Guests))
		copy(guests, *update.Guests)
		merged.Guests = guests
	}

	sanitizer.SanitizeGuests(merged.Guests)
	if err := s.validator.Validate(merged); err != nil {
		return nil, asValidationError(err)
	}

	span := ledger.SpanKeys(merged.StartDay, merged.StartMonth, merged.StartYear, merged.LengthOfStay)
	if err := s.ensureLoaded(ctx, sess, ownerID, span); err != nil {
		return nil, err
	}

	if c := sess.ledger.FindConflict(merged.Room, merged.StartDay, merged.StartMonth, merged.StartYear, merged.LengthOfStay, stayID); c != nil {
		return nil, apperrors.ConflictOnDate(c.Room, c.Day, c.Month, c.Year)
	}

	affected := sess.ledger.Materialize(merged)
	for _, key := range affected {
		s.syncer.MarkDirty(ownerID, key)
	}

	s.cfg.Log.Info("Stay updated",
		"owner_id", ownerID,
		"stay_id", stayID,
		"nights", merged.LengthOfStay,
		"buckets", len(affected),
	)
	return merged, nil
}

func (s *ledgerService) RemoveStay(ctx context.Context, ownerID, stayID string) error {
	if ownerID == "" {
		return apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if stayID == "" {
		return apperrors.InvalidInput("Stay ID cannot be empty")
	}

	sess := s.session(ownerID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if _, err := s.locateStay(ctx, sess, ownerID, stayID); err != nil {
		return err
	}

	affected, err := sess.ledger.Remove(stayID)
	if err != nil {
		if errors.Is(err, occuerrors.ErrStartDayViolation) {
			s.cfg.Log.Error("Start-day invariant violated, removal aborted",
				"owner_id", ownerID,
				"stay_id", stayID,
			)
			return apperrors.Internal("Stay records are inconsistent", err)
		}
		return apperrors.Internal("Failed to remove stay", err)
	}

	for _, key := range affected {
		s.syncer.MarkDirty(ownerID, key)
	}
	// Months never loaded into this session may still hold records for the
	// stay; the remote cascade cleans those.
	s.syncer.EnqueueDelete(ownerID, stayID)

	s.cfg.Log.Info("Stay removed",
		"owner_id", ownerID,
		"stay_id", stayID,
		"buckets", len(affected),
	)
	return nil
}

func (s *ledgerService) GetMonth(ctx context.Context, ownerID string, key model.MonthKey) ([]model.OccupancyRecord, []model.DayTotals, error) {
	if ownerID == "" {
		return nil, nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	sess := s.session(ownerID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.ensureLoaded(ctx, sess, ownerID, []model.MonthKey{key}); err != nil {
		return nil, nil, err
	}

	records := sess.ledger.Records(key)
	days := ledger.DailyTotals(records, calendar.DaysInMonth(key.Month, key.Year))
	return records, days, nil
}

func (s *ledgerService) GetMonthlyStats(ctx context.Context, ownerID string, key model.MonthKey, roomCount int) (model.MonthlyStats, error) {
	if ownerID == "" {
		return model.MonthlyStats{}, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if roomCount < 1 || roomCount > s.cfg.MaxRoomNumber {
		return model.MonthlyStats{}, apperrors.InvalidInput("Room count must be between 1 and the establishment maximum")
	}

	sess := s.session(ownerID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := s.ensureLoaded(ctx, sess, ownerID, []model.MonthKey{key}); err != nil {
		return model.MonthlyStats{}, err
	}

	records := sess.ledger.Records(key)
	return ledger.ComputeMonthlyStats(records, roomCount, calendar.DaysInMonth(key.Month, key.Year)), nil
}

func (s *ledgerService) ListPeriods(ctx context.Context, ownerID string) ([]model.MonthKey, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	keys, err := s.repo.ListPeriods(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list draft periods", "owner_id", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to list draft periods", err)
	}
	return keys, nil
}

func (s *ledgerService) SyncStatus(ownerID string) SyncStatus {
	return s.syncer.Status(ownerID)
}

// Close flushes pending drafts and stops the background sync.
func (s *ledgerService) Close() {
	s.syncer.Stop()
}

func (s *ledgerService) session(ownerID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[ownerID]
	if !ok {
		sess = &session{ledger: ledger.New()}
		s.sessions[ownerID] = sess
	}
	return sess
}

// snapshot is the syncer's read hook. It takes the session lock itself, so
// flushes and edits never interleave mid-bucket.
func (s *ledgerService) snapshot(ownerID string, key model.MonthKey) ([]model.OccupancyRecord, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[ownerID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.ledger.HasBucket(key) {
		return nil, false
	}
	return sess.ledger.Records(key), true
}

// ensureLoaded reconciles every named month into the session, fetching
// buckets from the draft store the first time they are touched. Callers
// hold the session lock.
func (s *ledgerService) ensureLoaded(ctx context.Context, sess *session, ownerID string, keys []model.MonthKey) error {
	for _, key := range keys {
		if sess.ledger.HasBucket(key) {
			continue
		}
		records, err := s.repo.GetDraft(ctx, ownerID, key)
		if err != nil {
			s.cfg.Log.Error("Failed to load draft bucket",
				"owner_id", ownerID,
				"period", key.String(),
				"error", err,
			)
			return apperrors.Unavailable("Draft store", err)
		}
		sess.ledger.LoadBucket(key, records)
	}
	return nil
}

// locateStay loads every bucket the draft store still holds for the stay,
// then returns its start-day record. Callers hold the session lock.
func (s *ledgerService) locateStay(ctx context.Context, sess *session, ownerID, stayID string) (model.OccupancyRecord, error) {
	keys, err := s.repo.FindPeriodsByStay(ctx, ownerID, stayID)
	if err != nil {
		s.cfg.Log.Error("Failed to find stay periods", "owner_id", ownerID, "stay_id", stayID, "error", err)
		return model.OccupancyRecord{}, apperrors.Unavailable("Draft store", err)
	}
	if err := s.ensureLoaded(ctx, sess, ownerID, keys); err != nil {
		return model.OccupancyRecord{}, err
	}

	rec, _, found := sess.ledger.StartRecord(stayID)
	if !found {
		return model.OccupancyRecord{}, apperrors.NotFoundWithID("Stay", stayID)
	}
	return rec, nil
}

// asValidationError translates validator output into the AppError shape the
// handlers serialize.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]any, len(verrs))
		for _, ve := range verrs {
			fields[ve.Field] = ve.Message
		}
		return apperrors.Validation("Stay validation failed", fields)
	}
	var verr validator.ValidationError
	if errors.As(err, &verr) {
		return apperrors.Validation("Stay validation failed", map[string]any{verr.Field: verr.Message})
	}
	return apperrors.Internal("Validation could not be completed", err)
}
