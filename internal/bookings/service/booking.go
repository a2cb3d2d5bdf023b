package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "github.com/abhash31/ai-booking-assistant/internal/bookings/errors"
	"github.com/abhash31/ai-booking-assistant/internal/bookings/events"
	"github.com/abhash31/ai-booking-assistant/internal/bookings/repository"
	"github.com/abhash31/ai-booking-assistant/internal/bookings/validator"
	providerserrors "github.com/abhash31/ai-booking-assistant/internal/providers/errors"
	providerrepo "github.com/abhash31/ai-booking-assistant/internal/providers/repository"
	"github.com/abhash31/ai-booking-assistant/pkg/config"
	apperrors "github.com/abhash31/ai-booking-assistant/pkg/errors"
	"github.com/abhash31/ai-booking-assistant/pkg/model"
	"github.com/abhash31/ai-booking-assistant/pkg/reference"
	"github.com/abhash31/ai-booking-assistant/pkg/sanitizer"
	"github.com/abhash31/ai-booking-assistant/pkg/slots"

	"go.mongodb.org/mongo-driver/mongo"
)

const maxReferenceAttempts = 3

type BookingService interface {
	// ListAvailable returns the provider's open HH:MM slots for the date,
	// chronological. Fails fast with NoCapacity when the counter is zero.
	ListAvailable(ctx context.Context, providerName, date string) ([]string, error)

	// Reserve books a slot. An explicit time must be one of the provider's
	// derived slots; an empty time books the earliest open slot.
	Reserve(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)

	// Cancel removes the booking and returns capacity to the provider,
	// clamped at max. Returns the cancelled booking.
	Cancel(ctx context.Context, ref string) (*model.Booking, error)

	Get(ctx context.Context, ref string) (*model.Booking, error)
	ListForDate(ctx context.Context, date string, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.SlotLockRepository
	providerRepo providerrepo.ProviderRepository
	validator    *validator.BookingValidator
	publisher    events.Publisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	providerRepo providerrepo.ProviderRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		providerRepo: providerRepo,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

func (s *bookingService) ListAvailable(ctx context.Context, providerName, date string) ([]string, error) {
	providerName = sanitizer.NormalizeName(providerName)
	date = sanitizer.NormalizeDate(date)
	if err := validateDate(date); err != nil {
		return nil, err
	}

	provider, err := s.findProvider(ctx, providerName)
	if err != nil {
		return nil, err
	}

	if provider.Remaining() <= 0 {
		return nil, apperrors.NoCapacity(provider.Name)
	}

	derived := slots.Compute(provider.StartOfDay, provider.EndOfDay, provider.MaxCapacity)

	taken, err := s.repo.TakenTimes(ctx, provider.Name, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load taken times",
			"provider", provider.Name,
			"date", date,
			"error", err,
		)
		return nil, s.storageError("Failed to load booked slots", err)
	}

	available := make([]string, 0, len(derived))
	for _, t := range derived {
		if _, booked := taken[t]; !booked {
			available = append(available, t)
		}
	}

	return available, nil
}

func (s *bookingService) Reserve(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitizeRequest(req)

	// Nothing touches storage until the request is structurally sound.
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed",
			"provider", req.ProviderName,
			"date", req.Date,
			"error", err,
		)
		return nil, apperrors.Validation("Booking request validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	provider, err := s.findProvider(ctx, req.ProviderName)
	if err != nil {
		return nil, err
	}

	if provider.Remaining() <= 0 {
		return nil, apperrors.NoCapacity(provider.Name)
	}

	derived := slots.Compute(provider.StartOfDay, provider.EndOfDay, provider.MaxCapacity)

	taken, err := s.repo.TakenTimes(ctx, provider.Name, req.Date)
	if err != nil {
		return nil, s.storageError("Failed to load booked slots", err)
	}

	slotTime, err := s.chooseSlot(provider, req, derived, taken)
	if err != nil {
		return nil, err
	}

	lockID, err := s.acquireSlotLock(ctx, provider.Name, req.Date, slotTime)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.lockRepo.Delete(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	booking := &model.Booking{
		PatientName:  req.PatientName,
		PatientAge:   req.PatientAge,
		ProviderName: provider.Name,
		Specialty:    provider.Specialty,
		Date:         req.Date,
		Time:         slotTime,
	}

	if err := s.reserveInTransaction(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to reserve booking",
			"provider", provider.Name,
			"date", req.Date,
			"time", slotTime,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking confirmed",
		"reference", booking.Reference,
		"provider", booking.ProviderName,
		"date", booking.Date,
		"time", booking.Time,
	)

	s.publisher.PublishConfirmed(ctx, booking)

	return booking, nil
}

// reserveInTransaction runs ledger insert + counter decrement atomically.
// A reference collision aborts the transaction and retries with a fresh
// reference; a slot collision surfaces as Conflict with no ledger row and
// no counter change.
func (s *bookingService) reserveInTransaction(ctx context.Context, booking *model.Booking) error {
	var err error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		booking.Reference = reference.New()

		err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
			if err := s.repo.Insert(txCtx, booking); err != nil {
				if errors.Is(err, bookingserrors.ErrSlotTaken) {
					return apperrors.Conflict(fmt.Sprintf(
						"%s is already booked at %s on %s",
						booking.ProviderName, booking.Time, booking.Date,
					)).WithDetails(map[string]any{
						"provider_name": booking.ProviderName,
						"date":          booking.Date,
						"time":          booking.Time,
					})
				}
				if errors.Is(err, bookingserrors.ErrDuplicateReference) {
					return err
				}
				return apperrors.Internal("Failed to record booking", err)
			}

			if err := s.providerRepo.DecrementIfAvailable(txCtx, booking.ProviderName); err != nil {
				if errors.Is(err, providerserrors.ErrNotFound) {
					// Counter hit zero between the pre-check and here;
					// abort so the ledger insert rolls back too.
					return apperrors.NoCapacity(booking.ProviderName)
				}
				return apperrors.Internal("Failed to decrement provider capacity", err)
			}

			return nil
		})

		if !errors.Is(err, bookingserrors.ErrDuplicateReference) {
			break
		}
		s.cfg.Log.Warn("Booking reference collision, regenerating",
			"reference", booking.Reference,
			"attempt", attempt+1,
		)
	}

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return s.storageError("Failed to reserve booking", err)
	}

	return nil
}

func (s *bookingService) chooseSlot(provider *model.Provider, req *model.BookingRequest, derived []string, taken map[string]struct{}) (string, error) {
	if req.Time != "" {
		if !slots.Contains(derived, req.Time) {
			return "", apperrors.InvalidSlot(provider.Name, req.Time)
		}
		if _, booked := taken[req.Time]; booked {
			return "", apperrors.Conflict(fmt.Sprintf(
				"%s is already booked at %s on %s",
				provider.Name, req.Time, req.Date,
			)).WithDetails(map[string]any{
				"provider_name": provider.Name,
				"date":          req.Date,
				"time":          req.Time,
			})
		}
		return req.Time, nil
	}

	for _, t := range derived {
		if _, booked := taken[t]; !booked {
			return t, nil
		}
	}

	return "", apperrors.NoAvailability(provider.Name, req.Date)
}

func (s *bookingService) Cancel(ctx context.Context, ref string) (*model.Booking, error) {
	ref = sanitizer.NormalizeReference(ref)
	if ref == "" {
		return nil, apperrors.InvalidInput("Booking reference cannot be empty")
	}

	var booking *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByReference(txCtx, ref)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", ref)
			}
			return apperrors.Internal("Failed to look up booking", err)
		}

		if err := s.repo.DeleteByReference(txCtx, ref); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", ref)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}

		// Reclaim the seat, clamped at max_capacity. A provider removed
		// since the booking was made does not block the cancellation.
		if err := s.providerRepo.AdjustCapacity(txCtx, found.ProviderName, 1); err != nil {
			if !errors.Is(err, providerserrors.ErrNotFound) {
				return apperrors.Internal("Failed to restore provider capacity", err)
			}
			s.cfg.Log.Warn("Cancelled booking for unknown provider",
				"reference", ref,
				"provider", found.ProviderName,
			)
		}

		booking = found
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, s.storageError("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled",
		"reference", booking.Reference,
		"provider", booking.ProviderName,
		"date", booking.Date,
		"time", booking.Time,
	)

	s.publisher.PublishCancelled(ctx, booking)

	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, ref string) (*model.Booking, error) {
	ref = sanitizer.NormalizeReference(ref)
	if ref == "" {
		return nil, apperrors.InvalidInput("Booking reference cannot be empty")
	}

	booking, err := s.repo.FindByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", ref)
		}
		return nil, s.storageError("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListForDate(ctx context.Context, date string, limit int, offset int64) ([]*model.Booking, int64, error) {
	date = sanitizer.NormalizeDate(date)
	if err := validateDate(date); err != nil {
		return nil, 0, err
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountForDate(ctx, date)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "date", date, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.ListForDate(ctx, date, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "date", date, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) findProvider(ctx context.Context, name string) (*model.Provider, error) {
	provider, err := s.providerRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, providerserrors.ErrNotFound) {
			return nil, apperrors.ProviderNotFound(name)
		}
		s.cfg.Log.Error("Failed to look up provider", "name", name, "error", err)
		return nil, s.storageError("Failed to look up provider", err)
	}
	return provider, nil
}

func (s *bookingService) sanitizeRequest(req *model.BookingRequest) {
	req.PatientName = sanitizer.NormalizeName(req.PatientName)
	req.ProviderName = sanitizer.NormalizeName(req.ProviderName)
	req.Date = sanitizer.NormalizeDate(req.Date)
	req.Time = sanitizer.NormalizeClock(req.Time)
}

func (s *bookingService) acquireSlotLock(ctx context.Context, providerName, date, slotTime string) (string, error) {
	lockID := fmt.Sprintf("slot_lock_%s_%s_%s", providerName, date, slotTime)

	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	if err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

// storageError maps infrastructure failures: deadline overruns and driver
// timeouts (MaxTimeMSExpired, server selection) become SERVICE_UNAVAILABLE so
// callers know to retry later, everything else is a plain internal error.
func (s *bookingService) storageError(message string, err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return apperrors.Unavailable("Booking storage")
	}
	return apperrors.Internal(message, err)
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("Date must be in YYYY-MM-DD format, got: %s", date))
	}
	return nil
}
