package providers_test

import (
	"net/http"
	"testing"

	"github.com/abhash31/ai-booking-assistant/pkg/model"
	"github.com/abhash31/ai-booking-assistant/test/integration/testutil"
)

func TestProviderLifecycle(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	provider := testutil.NewProviderBuilder().
		WithName("Dr. Sarah Chen").
		WithWindow("09:00", "12:00").
		WithCapacity(3, 3).
		Build()

	resp := client.POST(t, "/api/v1/providers", provider)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = client.GET(t, "/api/v1/providers/name/Dr.%20Sarah%20Chen")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var got struct {
		Data model.Provider `json:"data"`
	}
	if err := resp.UnmarshalJSON(&got); err != nil {
		t.Fatalf("failed to decode provider: %v", err)
	}
	if got.Data.Specialty != "Cardiology" {
		t.Errorf("expected specialty Cardiology, got %s", got.Data.Specialty)
	}

	// Upsert replaces by name, it must not create a second record.
	provider.Specialty = "Interventional Cardiology"
	resp = client.POST(t, "/api/v1/providers", provider)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	if count := mongo.CountDocuments(t, testutil.ProvidersCollection); count != 1 {
		t.Errorf("expected a single provider record after re-upsert, got %d", count)
	}

	resp = client.GET(t, "/api/v1/providers")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, "Interventional Cardiology")
}

func TestProviderCapacityAdjustmentClamps(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	provider := testutil.NewProviderBuilder().WithCapacity(3, 2).Build()
	resp := client.POST(t, "/api/v1/providers", provider)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	// +10 clamps at max_capacity.
	resp = client.PATCH(t, "/api/v1/providers/name/Dr.%20Sarah%20Chen/capacity", map[string]int{"delta": 10})
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	var got struct {
		Data model.Provider `json:"data"`
	}
	resp = client.GET(t, "/api/v1/providers/name/Dr.%20Sarah%20Chen")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if err := resp.UnmarshalJSON(&got); err != nil {
		t.Fatalf("failed to decode provider: %v", err)
	}
	if got.Data.Remaining() != 3 {
		t.Errorf("expected capacity clamped at 3, got %d", got.Data.Remaining())
	}

	// -10 clamps at zero.
	resp = client.PATCH(t, "/api/v1/providers/name/Dr.%20Sarah%20Chen/capacity", map[string]int{"delta": -10})
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	resp = client.GET(t, "/api/v1/providers/name/Dr.%20Sarah%20Chen")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if err := resp.UnmarshalJSON(&got); err != nil {
		t.Fatalf("failed to decode provider: %v", err)
	}
	if got.Data.Remaining() != 0 {
		t.Errorf("expected capacity clamped at 0, got %d", got.Data.Remaining())
	}
}

func TestProviderImportRejectsMalformedBatch(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	batch := []model.Provider{
		testutil.NewProviderBuilder().WithName("Dr. Sarah Chen").Build(),
		testutil.NewProviderBuilder().WithName("X").Build(), // name too short
	}

	resp := client.POST(t, "/api/v1/providers/import", batch)
	testutil.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)

	if count := mongo.CountDocuments(t, testutil.ProvidersCollection); count != 0 {
		t.Errorf("expected no providers after rejected batch, got %d", count)
	}
}

func TestProviderNotFound(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.GET(t, "/api/v1/providers/name/Dr.%20Nobody")
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	if code := testutil.ErrorCode(t, resp); code != "PROVIDER_NOT_FOUND" {
		t.Errorf("expected PROVIDER_NOT_FOUND, got %s", code)
	}
}
