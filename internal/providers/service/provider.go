package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	providerserrors "github.com/abhash31/ai-booking-assistant/internal/providers/errors"
	"github.com/abhash31/ai-booking-assistant/internal/providers/repository"
	"github.com/abhash31/ai-booking-assistant/internal/providers/validator"
	"github.com/abhash31/ai-booking-assistant/pkg/config"
	apperrors "github.com/abhash31/ai-booking-assistant/pkg/errors"
	"github.com/abhash31/ai-booking-assistant/pkg/model"
	"github.com/abhash31/ai-booking-assistant/pkg/sanitizer"
)

type ProviderService interface {
	// Upsert registers a provider or replaces the existing record with the
	// same name, including its capacity counters.
	Upsert(ctx context.Context, provider *model.Provider) error
	Get(ctx context.Context, name string) (*model.Provider, error)
	List(ctx context.Context, limit int, offset int64) ([]*model.Provider, int64, error)
	AdjustCapacity(ctx context.Context, name string, delta int) error

	// ImportMany is all-or-nothing: one malformed record rejects the batch
	// before any write happens.
	ImportMany(ctx context.Context, providers []*model.Provider) error
}

type providerService struct {
	repo      repository.ProviderRepository
	validator *validator.ProviderValidator
	cfg       *config.Config
}

func NewProviderService(
	repo repository.ProviderRepository,
	validator *validator.ProviderValidator,
	cfg *config.Config,
) ProviderService {
	return &providerService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *providerService) Upsert(ctx context.Context, provider *model.Provider) error {
	s.sanitize(provider)
	s.applyDefaults(provider)

	if err := s.validator.Validate(provider); err != nil {
		s.cfg.Log.Warn("Provider validation failed",
			"name", provider.Name,
			"error", err,
		)
		return apperrors.Validation("Provider validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Upsert(ctx, provider); err != nil {
		s.cfg.Log.Error("Failed to upsert provider",
			"name", provider.Name,
			"error", err,
		)
		return apperrors.Internal("Failed to save provider", err)
	}

	s.cfg.Log.Info("Provider saved",
		"name", provider.Name,
		"specialty", provider.Specialty,
		"max_capacity", provider.MaxCapacity,
		"remaining_capacity", provider.Remaining(),
	)

	return nil
}

func (s *providerService) Get(ctx context.Context, name string) (*model.Provider, error) {
	name = sanitizer.NormalizeName(name)
	if name == "" {
		return nil, apperrors.InvalidInput("Provider name cannot be empty")
	}

	provider, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, providerserrors.ErrNotFound) {
			return nil, apperrors.ProviderNotFound(name)
		}
		s.cfg.Log.Error("Failed to get provider",
			"name", name,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve provider", err)
	}

	return provider, nil
}

func (s *providerService) List(ctx context.Context, limit int, offset int64) ([]*model.Provider, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var providers []*model.Provider
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count providers", "error", errCount)
			errCount = apperrors.Internal("Failed to count providers", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		providers, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list providers",
				"limit", limit,
				"offset", offset,
				"error", errFind,
			)
			errFind = apperrors.Internal("Failed to retrieve providers", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return providers, count, nil
}

func (s *providerService) AdjustCapacity(ctx context.Context, name string, delta int) error {
	name = sanitizer.NormalizeName(name)
	if name == "" {
		return apperrors.InvalidInput("Provider name cannot be empty")
	}
	if delta == 0 {
		return apperrors.InvalidInput("Capacity delta cannot be zero")
	}

	if err := s.repo.AdjustCapacity(ctx, name, delta); err != nil {
		if errors.Is(err, providerserrors.ErrNotFound) {
			return apperrors.ProviderNotFound(name)
		}
		s.cfg.Log.Error("Failed to adjust provider capacity",
			"name", name,
			"delta", delta,
			"error", err,
		)
		return apperrors.Internal("Failed to adjust provider capacity", err)
	}

	s.cfg.Log.Info("Provider capacity adjusted", "name", name, "delta", delta)
	return nil
}

func (s *providerService) ImportMany(ctx context.Context, providers []*model.Provider) error {
	if len(providers) == 0 {
		return apperrors.InvalidInput("Import batch cannot be empty")
	}

	for i, provider := range providers {
		s.sanitize(provider)
		s.applyDefaults(provider)

		if err := s.validator.Validate(provider); err != nil {
			s.cfg.Log.Warn("Provider import rejected",
				"index", i,
				"name", provider.Name,
				"error", err,
			)
			return apperrors.Validation("Provider import batch contains an invalid record", map[string]any{
				"index": i,
				"name":  provider.Name,
				"error": err.Error(),
			})
		}
	}

	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		for _, provider := range providers {
			if err := s.repo.Upsert(txCtx, provider); err != nil {
				return fmt.Errorf("failed to import provider [%s]: %w", provider.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Provider import failed", "count", len(providers), "error", err)
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Internal("Failed to import providers", err)
	}

	s.cfg.Log.Info("Providers imported", "count", len(providers))
	return nil
}

func (s *providerService) sanitize(provider *model.Provider) {
	provider.Name = sanitizer.NormalizeName(provider.Name)
	provider.Specialty = sanitizer.NormalizeSpecialty(provider.Specialty)
	provider.StartOfDay = sanitizer.NormalizeClock(provider.StartOfDay)
	provider.EndOfDay = sanitizer.NormalizeClock(provider.EndOfDay)
}

// applyDefaults initializes the remaining counter for records that omit it.
// An explicit value is stored verbatim, including zero for a fully booked
// provider.
func (s *providerService) applyDefaults(provider *model.Provider) {
	if provider.RemainingCapacity == nil {
		remaining := provider.MaxCapacity
		provider.RemainingCapacity = &remaining
	}
}
