package service

import (
	"context"
	"testing"
	"time"

	providerserrors "github.com/abhash31/ai-booking-assistant/internal/providers/errors"
	"github.com/abhash31/ai-booking-assistant/internal/providers/validator"
	"github.com/abhash31/ai-booking-assistant/pkg/config"
	mongotx "github.com/abhash31/ai-booking-assistant/pkg/db/mongo"
	apperrors "github.com/abhash31/ai-booking-assistant/pkg/errors"
	"github.com/abhash31/ai-booking-assistant/pkg/logger"
	"github.com/abhash31/ai-booking-assistant/pkg/model"
)

type mockProviderRepository struct {
	upsertFunc               func(ctx context.Context, provider *model.Provider) error
	findByNameFunc           func(ctx context.Context, name string) (*model.Provider, error)
	findAllFunc              func(ctx context.Context, limit int, offset int64) ([]*model.Provider, error)
	countFunc                func(ctx context.Context) (int64, error)
	adjustCapacityFunc       func(ctx context.Context, name string, delta int) error
	decrementIfAvailableFunc func(ctx context.Context, name string) error
}

func (m *mockProviderRepository) Upsert(ctx context.Context, provider *model.Provider) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, provider)
	}
	return nil
}

func (m *mockProviderRepository) FindByName(ctx context.Context, name string) (*model.Provider, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, providerserrors.ErrNotFound
}

func (m *mockProviderRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Provider, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Provider{}, nil
}

func (m *mockProviderRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockProviderRepository) AdjustCapacity(ctx context.Context, name string, delta int) error {
	if m.adjustCapacityFunc != nil {
		return m.adjustCapacityFunc(ctx, name, delta)
	}
	return nil
}

func (m *mockProviderRepository) DecrementIfAvailable(ctx context.Context, name string) error {
	if m.decrementIfAvailableFunc != nil {
		return m.decrementIfAvailableFunc(ctx, name)
	}
	return nil
}

func (m *mockProviderRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
}

func TestUpsertSanitizesAndDefaultsCapacity(t *testing.T) {
	var saved *model.Provider
	mockRepo := &mockProviderRepository{
		upsertFunc: func(ctx context.Context, provider *model.Provider) error {
			saved = provider
			return nil
		},
	}

	svc := NewProviderService(mockRepo, validator.NewProviderValidator(), testConfig())

	p := &model.Provider{
		Name:        "  Dr.  Sarah   Chen ",
		Specialty:   " Cardiology ",
		StartOfDay:  " 09:00 ",
		EndOfDay:    "17:00",
		MaxCapacity: 8,
	}
	if err := svc.Upsert(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected provider to be saved")
	}
	if saved.Name != "Dr. Sarah Chen" {
		t.Errorf("expected normalized name, got %q", saved.Name)
	}
	if saved.Remaining() != 8 {
		t.Errorf("expected remaining capacity defaulted to max, got %d", saved.Remaining())
	}
}

func TestUpsertStoresExplicitZeroCapacity(t *testing.T) {
	var saved *model.Provider
	mockRepo := &mockProviderRepository{
		upsertFunc: func(ctx context.Context, provider *model.Provider) error {
			saved = provider
			return nil
		},
	}

	svc := NewProviderService(mockRepo, validator.NewProviderValidator(), testConfig())

	zero := 0
	p := &model.Provider{
		Name:              "Dr. Sarah Chen",
		Specialty:         "Cardiology",
		StartOfDay:        "09:00",
		EndOfDay:          "17:00",
		MaxCapacity:       3,
		RemainingCapacity: &zero,
	}
	if err := svc.Upsert(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fully booked provider record is well-formed input; the counter must
	// survive the upsert unchanged.
	if saved == nil {
		t.Fatal("expected provider to be saved")
	}
	if saved.Remaining() != 0 {
		t.Errorf("expected remaining capacity stored as 0, got %d", saved.Remaining())
	}
}

func TestImportManyStoresExplicitZeroCapacity(t *testing.T) {
	var saved []*model.Provider
	mockRepo := &mockProviderRepository{
		upsertFunc: func(ctx context.Context, provider *model.Provider) error {
			saved = append(saved, provider)
			return nil
		},
	}

	svc := NewProviderService(mockRepo, validator.NewProviderValidator(), testConfig())

	zero := 0
	batch := []*model.Provider{
		{Name: "Dr. Adams", Specialty: "Dermatology", StartOfDay: "09:00", EndOfDay: "17:00", MaxCapacity: 6, RemainingCapacity: &zero},
		{Name: "Dr. Chen", Specialty: "Cardiology", StartOfDay: "10:00", EndOfDay: "16:00", MaxCapacity: 8},
	}

	if err := svc.ImportMany(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(saved))
	}
	if saved[0].Remaining() != 0 {
		t.Errorf("expected imported zero counter kept, got %d", saved[0].Remaining())
	}
	if saved[1].Remaining() != 8 {
		t.Errorf("expected omitted counter defaulted to max, got %d", saved[1].Remaining())
	}
}

func TestUpsertRejectsInvalidProvider(t *testing.T) {
	mockRepo := &mockProviderRepository{
		upsertFunc: func(ctx context.Context, provider *model.Provider) error {
			t.Fatal("repository must not be called for invalid input")
			return nil
		},
	}

	svc := NewProviderService(mockRepo, validator.NewProviderValidator(), testConfig())

	p := &model.Provider{
		Name:        "Dr. Chen",
		Specialty:   "Cardiology",
		StartOfDay:  "17:00",
		EndOfDay:    "09:00",
		MaxCapacity: 8,
	}
	err := svc.Upsert(context.Background(), p)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestGetTranslatesNotFound(t *testing.T) {
	svc := NewProviderService(&mockProviderRepository{}, validator.NewProviderValidator(), testConfig())

	_, err := svc.Get(context.Background(), "Dr. Nobody")
	if !apperrors.IsCode(err, apperrors.CodeProviderNotFound) {
		t.Errorf("expected PROVIDER_NOT_FOUND, got %v", err)
	}
}

func TestListReturnsProvidersAndCount(t *testing.T) {
	mockRepo := &mockProviderRepository{
		countFunc: func(ctx context.Context) (int64, error) {
			return 2, nil
		},
		findAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Provider, error) {
			return []*model.Provider{
				{Name: "Dr. Adams"},
				{Name: "Dr. Chen"},
			}, nil
		},
	}

	svc := NewProviderService(mockRepo, validator.NewProviderValidator(), testConfig())

	providers, count, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 || len(providers) != 2 {
		t.Errorf("expected 2 providers with count 2, got %d/%d", len(providers), count)
	}
}

func TestAdjustCapacityValidatesInput(t *testing.T) {
	svc := NewProviderService(&mockProviderRepository{}, validator.NewProviderValidator(), testConfig())

	if err := svc.AdjustCapacity(context.Background(), "", 1); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for empty name, got %v", err)
	}
	if err := svc.AdjustCapacity(context.Background(), "Dr. Chen", 0); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for zero delta, got %v", err)
	}
}

func TestAdjustCapacityTranslatesNotFound(t *testing.T) {
	mockRepo := &mockProviderRepository{
		adjustCapacityFunc: func(ctx context.Context, name string, delta int) error {
			return providerserrors.ErrNotFound
		},
	}

	svc := NewProviderService(mockRepo, validator.NewProviderValidator(), testConfig())

	err := svc.AdjustCapacity(context.Background(), "Dr. Nobody", -1)
	if !apperrors.IsCode(err, apperrors.CodeProviderNotFound) {
		t.Errorf("expected PROVIDER_NOT_FOUND, got %v", err)
	}
}

func TestImportManyRejectsWholeBatchOnOneBadRecord(t *testing.T) {
	upserts := 0
	mockRepo := &mockProviderRepository{
		upsertFunc: func(ctx context.Context, provider *model.Provider) error {
			upserts++
			return nil
		},
	}

	svc := NewProviderService(mockRepo, validator.NewProviderValidator(), testConfig())

	batch := []*model.Provider{
		{Name: "Dr. Adams", Specialty: "Dermatology", StartOfDay: "09:00", EndOfDay: "17:00", MaxCapacity: 6},
		{Name: "Dr. Chen", Specialty: "Cardiology", StartOfDay: "bogus", EndOfDay: "17:00", MaxCapacity: 8},
	}

	err := svc.ImportMany(context.Background(), batch)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if upserts != 0 {
		t.Errorf("expected no upserts for rejected batch, got %d", upserts)
	}
}

func TestImportManyUpsertsAllRecords(t *testing.T) {
	upserts := 0
	mockRepo := &mockProviderRepository{
		upsertFunc: func(ctx context.Context, provider *model.Provider) error {
			upserts++
			return nil
		},
	}

	svc := NewProviderService(mockRepo, validator.NewProviderValidator(), testConfig())

	batch := []*model.Provider{
		{Name: "Dr. Adams", Specialty: "Dermatology", StartOfDay: "09:00", EndOfDay: "17:00", MaxCapacity: 6},
		{Name: "Dr. Chen", Specialty: "Cardiology", StartOfDay: "10:00", EndOfDay: "16:00", MaxCapacity: 8},
	}

	if err := svc.ImportMany(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upserts != 2 {
		t.Errorf("expected 2 upserts, got %d", upserts)
	}
}
