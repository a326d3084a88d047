package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"tdms/internal/occupancy/ledger"
	occupancyrepo "tdms/internal/occupancy/repository"
	submissionserrors "tdms/internal/submissions/errors"
	"tdms/internal/submissions/repository"
	"tdms/pkg/calendar"
	"tdms/pkg/config"
	apperrors "tdms/pkg/errors"
	"tdms/pkg/kafka"
	"tdms/pkg/model"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// EventPublisher is the slice of the Kafka producer the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type SubmissionService interface {
	Finalize(ctx context.Context, ownerID string, key model.MonthKey, req *model.FinalizeRequest) (*model.Submission, error)
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	GetByPeriod(ctx context.Context, ownerID string, key model.MonthKey) (*model.Submission, error)
	List(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Submission, int64, error)
}

type submissionService struct {
	repo      repository.SubmissionRepository
	draftRepo occupancyrepo.DraftRepository
	publisher EventPublisher
	validate  *validator.Validate
	cfg       *config.Config
	now       func() time.Time
}

func NewSubmissionService(
	repo repository.SubmissionRepository,
	draftRepo occupancyrepo.DraftRepository,
	publisher EventPublisher,
	cfg *config.Config,
) SubmissionService {
	return &submissionService{
		repo:      repo,
		draftRepo: draftRepo,
		publisher: publisher,
		validate:  validator.New(),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Finalize turns the owner's draft for one period into an immutable
// submission. The submission insert and the draft delete commit together;
// a failure on either side leaves both untouched. The finalized event is
// published after the commit, best effort.
func (s *submissionService) Finalize(ctx context.Context, ownerID string, key model.MonthKey, req *model.FinalizeRequest) (*model.Submission, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("Room count must be between 1 and 1000", nil)
	}

	records, err := s.draftRepo.GetDraft(ctx, ownerID, key)
	if err != nil {
		s.cfg.Log.Error("Failed to load draft for finalization", "owner_id", ownerID, "period", key.String(), "error", err)
		return nil, apperrors.Unavailable("Draft store", err)
	}
	if records == nil {
		records = []model.OccupancyRecord{}
	}

	daysInMonth := calendar.DaysInMonth(key.Month, key.Year)
	submission := &model.Submission{
		OwnerID:   ownerID,
		Year:      key.Year,
		Month:     key.Month,
		RoomCount: req.RoomCount,
		Days:      ledger.DailyTotals(records, daysInMonth),
		Records:   records,
		Stats:     ledger.ComputeMonthlyStats(records, req.RoomCount, daysInMonth),
		IsLate:    s.isLate(key),
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, submission); err != nil {
			if errors.Is(err, submissionserrors.ErrDuplicatePeriod) {
				return apperrors.Conflict("This period has already been submitted")
			}
			return apperrors.Internal("Failed to store submission", err)
		}
		if err := s.draftRepo.DeleteDraft(sessCtx, ownerID, key); err != nil {
			return apperrors.Internal("Failed to clear draft", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to finalize period",
			"owner_id", ownerID,
			"period", key.String(),
			"error", err,
		)
		return nil, err
	}

	s.publishFinalized(submission)

	s.cfg.Log.Info("Period finalized",
		"owner_id", ownerID,
		"period", key.String(),
		"submission_id", submission.ID,
		"records", len(submission.Records),
		"is_late", submission.IsLate,
	)
	return submission, nil
}

func (s *submissionService) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Submission ID cannot be empty")
	}

	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, submissionserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Submission", id)
		}
		if errors.Is(err, submissionserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid submission ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve submission", err)
	}
	return submission, nil
}

func (s *submissionService) GetByPeriod(ctx context.Context, ownerID string, key model.MonthKey) (*model.Submission, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	submission, err := s.repo.FindByPeriod(ctx, ownerID, key)
	if err != nil {
		if errors.Is(err, submissionserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Submission")
		}
		return nil, apperrors.Internal("Failed to retrieve submission", err)
	}
	return submission, nil
}

func (s *submissionService) List(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Submission, int64, error) {
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	var count int64
	var submissions []*model.Submission
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByOwner(ctx, ownerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count submissions", "owner_id", ownerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count submissions", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		submissions, errFind = s.repo.FindByOwner(ctx, ownerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list submissions", "owner_id", ownerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve submissions", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return submissions, count, nil
}

// isLate reports whether the period's report is overdue: due on the
// configured day of the following month, end of day UTC.
func (s *submissionService) isLate(key model.MonthKey) bool {
	dueMonth, dueYear := calendar.NextMonth(key.Month, key.Year)
	deadline := time.Date(dueYear, time.Month(dueMonth), s.cfg.SubmissionDeadlineDay, 23, 59, 59, 0, time.UTC)
	return s.now().UTC().After(deadline)
}

func (s *submissionService) publishFinalized(submission *model.Submission) {
	if s.publisher == nil {
		return
	}

	event, err := kafka.NewEvent(kafka.EventSubmissionFinalized, "submissions", submission.OwnerID, submission)
	if err != nil {
		s.cfg.Log.Error("Failed to build finalized event", "submission_id", submission.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish finalized event",
			"submission_id", submission.ID,
			"owner_id", submission.OwnerID,
			"error", err,
		)
	}
}
