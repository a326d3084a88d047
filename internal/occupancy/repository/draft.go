package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tdms/pkg/config"
	mongotx "tdms/pkg/db/mongo"
	"tdms/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Drafts"
)

// DraftDocument is one month bucket as stored remotely: all occupancy
// records one owner holds for one (year, month), replaced wholesale on
// every save.
type DraftDocument struct {
	OwnerID   string                  `bson:"ownerId"`
	Year      int                     `bson:"year"`
	Month     int                     `bson:"month"`
	Records   []model.OccupancyRecord `bson:"records"`
	UpdatedAt time.Time               `bson:"updatedAt"`
}

type mongoDraftRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type DraftRepository interface {
	GetDraft(ctx context.Context, ownerID string, key model.MonthKey) ([]model.OccupancyRecord, error)
	SaveDraft(ctx context.Context, ownerID string, key model.MonthKey, records []model.OccupancyRecord) error
	DeleteDraft(ctx context.Context, ownerID string, key model.MonthKey) error
	DeleteByStayID(ctx context.Context, ownerID string, stayID string) (int64, error)
	FindPeriodsByStay(ctx context.Context, ownerID string, stayID string) ([]model.MonthKey, error)
	ListPeriods(ctx context.Context, ownerID string) ([]model.MonthKey, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoDraftRepository(cfg *config.Config) DraftRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDraftRepository{
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
func (r *mongoDraftRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoDraftRepository) bucketFilter(ownerID string, key model.MonthKey) bson.M {
	return bson.M{
		"ownerId": ownerID,
		"year":    key.Year,
		"month":   key.Month,
	}
}

// GetDraft returns the stored records for one month bucket. A missing
// document is not an error: the bucket simply has no draft yet.
func (r *mongoDraftRepository) GetDraft(ctx context.Context, ownerID string, key model.MonthKey) ([]model.OccupancyRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc DraftDocument
	err := r.collection.FindOne(ctx, r.bucketFilter(ownerID, key)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find draft %s: %w", key, err)
	}

	return doc.Records, nil
}

// SaveDraft replaces the bucket's records wholesale, creating the document
// if it does not exist. Last writer wins.
func (r *mongoDraftRepository) SaveDraft(ctx context.Context, ownerID string, key model.MonthKey, records []model.OccupancyRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if records == nil {
		records = []model.OccupancyRecord{}
	}

	update := bson.M{
		"$set": bson.M{
			"records":   records,
			"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
		},
		"$setOnInsert": r.bucketFilter(ownerID, key),
	}

	_, err := r.collection.UpdateOne(ctx, r.bucketFilter(ownerID, key), update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save draft %s: %w", key, err)
	}

	return nil
}

func (r *mongoDraftRepository) DeleteDraft(ctx context.Context, ownerID string, key model.MonthKey) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, r.bucketFilter(ownerID, key))
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", key, err)
	}

	return nil
}

// DeleteByStayID pulls every record carrying the stayId out of all of the
// owner's buckets in one server-side update. Returns the number of buckets
// touched.
func (r *mongoDraftRepository) DeleteByStayID(ctx context.Context, ownerID string, stayID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"ownerId":        ownerID,
		"records.stayId": stayID,
	}
	update := bson.M{
		"$pull": bson.M{
			"records": bson.M{"stayId": stayID},
		},
		"$set": bson.M{
			"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to delete records of stay %s: %w", stayID, err)
	}

	return result.ModifiedCount, nil
}

// FindPeriodsByStay returns the month keys of every bucket still holding
// records for the stay, sorted chronologically.
func (r *mongoDraftRepository) FindPeriodsByStay(ctx context.Context, ownerID string, stayID string) ([]model.MonthKey, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"ownerId":        ownerID,
		"records.stayId": stayID,
	}

	return r.findKeys(ctx, filter)
}

// ListPeriods returns the month keys of every bucket the owner has drafts
// for, sorted chronologically.
func (r *mongoDraftRepository) ListPeriods(ctx context.Context, ownerID string) ([]model.MonthKey, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findKeys(ctx, bson.M{"ownerId": ownerID})
}

func (r *mongoDraftRepository) findKeys(ctx context.Context, filter bson.M) ([]model.MonthKey, error) {
	opts := options.Find().
		SetProjection(bson.M{"year": 1, "month": 1}).
		SetSort(bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find draft periods: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []DraftDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode draft periods: %w", err)
	}

	keys := make([]model.MonthKey, 0, len(docs))
	for _, doc := range docs {
		keys = append(keys, model.MonthKey{Year: doc.Year, Month: doc.Month})
	}

	return keys, nil
}

func (r *mongoDraftRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
