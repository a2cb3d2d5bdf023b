package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingserrors "github.com/abhash31/ai-booking-assistant/internal/bookings/errors"
	"github.com/abhash31/ai-booking-assistant/pkg/config"
	mongotx "github.com/abhash31/ai-booking-assistant/pkg/db/mongo"
	"github.com/abhash31/ai-booking-assistant/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "bookings"

	// Index names assigned by the migration job; duplicate-key errors are
	// classified by which index fired.
	SlotIndexName      = "uniq_provider_slot"
	ReferenceIndexName = "uniq_reference"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	// Insert writes one ledger row. ErrSlotTaken when the slot index fires,
	// ErrDuplicateReference when the reference index fires.
	Insert(ctx context.Context, booking *model.Booking) error
	FindByReference(ctx context.Context, reference string) (*model.Booking, error)
	DeleteByReference(ctx context.Context, reference string) error

	// TakenTimes returns the set of HH:MM values already booked for the
	// provider on the date.
	TakenTimes(ctx context.Context, providerName, date string) (map[string]struct{}, error)

	ListForDate(ctx context.Context, date string, limit int, offset int64) ([]*model.Booking, error)
	CountForDate(ctx context.Context, date string) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoBookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.classifyDuplicate(err, booking)
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}

	return nil
}

func (r *mongoBookingRepository) classifyDuplicate(err error, booking *model.Booking) error {
	if strings.Contains(err.Error(), ReferenceIndexName) {
		return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateReference, booking.Reference)
	}
	return fmt.Errorf("%w: %s %s %s", bookingserrors.ErrSlotTaken,
		booking.ProviderName, booking.Date, booking.Time)
}

func (r *mongoBookingRepository) FindByReference(ctx context.Context, reference string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"reference": reference}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, reference)
		}
		return nil, fmt.Errorf("failed to find booking [%s]: %w", reference, err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) DeleteByReference(ctx context.Context, reference string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"reference": reference})
	if err != nil {
		return fmt.Errorf("failed to delete booking [%s]: %w", reference, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, reference)
	}

	return nil
}

func (r *mongoBookingRepository) TakenTimes(ctx context.Context, providerName, date string) (map[string]struct{}, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"provider_name": providerName, "date": date}
	opts := options.Find().SetProjection(bson.M{"time": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query taken times for [%s] on %s: %w", providerName, date, err)
	}
	defer cursor.Close(ctx)

	taken := make(map[string]struct{})
	for cursor.Next(ctx) {
		var row struct {
			Time string `bson:"time"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode taken time: %w", err)
		}
		taken[row.Time] = struct{}{}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate taken times: %w", err)
	}

	return taken, nil
}

func (r *mongoBookingRepository) ListForDate(ctx context.Context, date string, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "provider_name", Value: 1}, {Key: "time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountForDate(ctx context.Context, date string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"date": date})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for %s: %w", date, err)
	}
	return count, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
