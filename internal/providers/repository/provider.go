package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	providerserrors "github.com/abhash31/ai-booking-assistant/internal/providers/errors"
	"github.com/abhash31/ai-booking-assistant/pkg/config"
	mongotx "github.com/abhash31/ai-booking-assistant/pkg/db/mongo"
	"github.com/abhash31/ai-booking-assistant/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "providers"
)

type mongoProviderRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ProviderRepository interface {
	Upsert(ctx context.Context, provider *model.Provider) error
	FindByName(ctx context.Context, name string) (*model.Provider, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Provider, error)
	Count(ctx context.Context) (int64, error)

	// AdjustCapacity applies a clamped delta to remaining_capacity:
	// the result never drops below zero or exceeds max_capacity.
	AdjustCapacity(ctx context.Context, name string, delta int) error

	// DecrementIfAvailable decrements remaining_capacity only when it is
	// still positive; returns ErrNotFound if no such provider row matched.
	DecrementIfAvailable(ctx context.Context, name string) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoProviderRepository(cfg *config.Config) ProviderRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoProviderRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless the call is already
// inside a transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func (r *mongoProviderRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// Upsert replaces the provider document keyed by name, inserting when absent.
// The unique name index guarantees at most one document per provider.
func (r *mongoProviderRepository) Upsert(ctx context.Context, provider *model.Provider) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	provider.ID = ""
	provider.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"name": provider.Name}
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, filter, provider, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert provider [%s]: %w", provider.Name, err)
	}

	return nil
}

func (r *mongoProviderRepository) FindByName(ctx context.Context, name string) (*model.Provider, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var provider model.Provider
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&provider)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", providerserrors.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to find provider [%s]: %w", name, err)
	}

	return &provider, nil
}

func (r *mongoProviderRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Provider, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []*model.Provider
	if err = cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}

	return providers, nil
}

func (r *mongoProviderRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count providers: %w", err)
	}
	return count, nil
}

// AdjustCapacity is a single pipeline update so the clamp happens server-side
// with no read-modify-write race:
// remaining = max(0, min(max_capacity, remaining + delta)).
func (r *mongoProviderRepository) AdjustCapacity(ctx context.Context, name string, delta int) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.A{
		bson.M{"$set": bson.M{
			"remaining_capacity": bson.M{
				"$max": bson.A{0, bson.M{
					"$min": bson.A{"$max_capacity", bson.M{
						"$add": bson.A{"$remaining_capacity", delta},
					}},
				}},
			},
		}},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"name": name}, update)
	if err != nil {
		return fmt.Errorf("failed to adjust capacity for provider [%s]: %w", name, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", providerserrors.ErrNotFound, name)
	}

	return nil
}

func (r *mongoProviderRepository) DecrementIfAvailable(ctx context.Context, name string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"name": name, "remaining_capacity": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"remaining_capacity": -1}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement capacity for provider [%s]: %w", name, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", providerserrors.ErrNotFound, name)
	}

	return nil
}

func (r *mongoProviderRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
