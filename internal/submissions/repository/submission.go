package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	submissionserrors "tdms/internal/submissions/errors"
	"tdms/pkg/config"
	mongotx "tdms/pkg/db/mongo"
	"tdms/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Submissions"
)

type mongoSubmissionRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	FindByPeriod(ctx context.Context, ownerID string, key model.MonthKey) (*model.Submission, error)
	FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Submission, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoSubmissionRepository(cfg *config.Config) SubmissionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSubmissionRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoSubmissionRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSubmissionRepository) Create(ctx context.Context, submission *model.Submission) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	submission.SubmittedAt = time.Now().UTC().Truncate(time.Millisecond)
	doc := toDocument(submission)

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return submissionserrors.ErrDuplicatePeriod
		}
		return fmt.Errorf("failed to create submission: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		submission.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", submissionserrors.ErrInvalidID, id)
	}

	var doc submissionDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, submissionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}

	return fromDocument(&doc), nil
}

func (r *mongoSubmissionRepository) FindByPeriod(ctx context.Context, ownerID string, key model.MonthKey) (*model.Submission, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"ownerId": ownerID,
		"year":    key.Year,
		"month":   key.Month,
	}

	var doc submissionDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, submissionserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find submission for %s: %w", key, err)
	}

	return fromDocument(&doc), nil
}

func (r *mongoSubmissionRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Submission, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []submissionDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}

	submissions := make([]*model.Submission, 0, len(docs))
	for i := range docs {
		submissions = append(submissions, fromDocument(&docs[i]))
	}
	return submissions, nil
}

func (r *mongoSubmissionRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}

func (r *mongoSubmissionRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// submissionDocument keeps _id as an ObjectID in storage while the model
// exposes it as hex.
type submissionDocument struct {
	ID          primitive.ObjectID      `bson:"_id,omitempty"`
	OwnerID     string                  `bson:"ownerId"`
	Year        int                     `bson:"year"`
	Month       int                     `bson:"month"`
	RoomCount   int                     `bson:"roomCount"`
	Days        []model.DayTotals       `bson:"days"`
	Records     []model.OccupancyRecord `bson:"records"`
	Stats       model.MonthlyStats      `bson:"stats"`
	IsLate      bool                    `bson:"isLate"`
	SubmittedAt time.Time               `bson:"submittedAt"`
}

func toDocument(s *model.Submission) *submissionDocument {
	return &submissionDocument{
		OwnerID:     s.OwnerID,
		Year:        s.Year,
		Month:       s.Month,
		RoomCount:   s.RoomCount,
		Days:        s.Days,
		Records:     s.Records,
		Stats:       s.Stats,
		IsLate:      s.IsLate,
		SubmittedAt: s.SubmittedAt,
	}
}

func fromDocument(doc *submissionDocument) *model.Submission {
	return &model.Submission{
		ID:          doc.ID.Hex(),
		OwnerID:     doc.OwnerID,
		Year:        doc.Year,
		Month:       doc.Month,
		RoomCount:   doc.RoomCount,
		Days:        doc.Days,
		Records:     doc.Records,
		Stats:       doc.Stats,
		IsLate:      doc.IsLate,
		SubmittedAt: doc.SubmittedAt,
	}
}
