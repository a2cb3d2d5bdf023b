package bookings_test

import (
	"net/http"
	"testing"

	"github.com/abhash31/ai-booking-assistant/pkg/model"
	"github.com/abhash31/ai-booking-assistant/test/integration/testutil"
)

func seedProvider(t *testing.T, client *testutil.Client) {
	t.Helper()

	provider := testutil.NewProviderBuilder().
		WithName("Dr. Sarah Chen").
		WithWindow("09:00", "12:00").
		WithCapacity(3, 3).
		Build()

	resp := client.POST(t, "/api/v1/providers", provider)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
}

func decodeBooking(t *testing.T, resp *testutil.Response) model.Booking {
	t.Helper()

	var got struct {
		Data model.Booking `json:"data"`
	}
	if err := resp.UnmarshalJSON(&got); err != nil {
		t.Fatalf("failed to decode booking: %v. Body: %s", err, string(resp.Body))
	}
	return got.Data
}

func TestReserveAndCancelRoundtrip(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	seedProvider(t, client)

	req := testutil.NewBookingRequestBuilder().WithTime("10:00").Build()
	resp := client.POST(t, "/api/v1/bookings", req)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	booking := decodeBooking(t, resp)
	if len(booking.Reference) != 8 {
		t.Fatalf("expected 8-char reference, got %q", booking.Reference)
	}
	if booking.Time != "10:00" {
		t.Errorf("expected booked time 10:00, got %s", booking.Time)
	}

	// The seat is spent.
	var provider struct {
		Data model.Provider `json:"data"`
	}
	resp = client.GET(t, "/api/v1/providers/name/Dr.%20Sarah%20Chen")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if err := resp.UnmarshalJSON(&provider); err != nil {
		t.Fatalf("failed to decode provider: %v", err)
	}
	if provider.Data.Remaining() != 2 {
		t.Errorf("expected remaining capacity 2 after reserve, got %d", provider.Data.Remaining())
	}

	resp = client.GET(t, "/api/v1/bookings/ref/"+booking.Reference)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp = client.DELETE(t, "/api/v1/bookings/ref/"+booking.Reference)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// Capacity returns and the reference is dead.
	resp = client.GET(t, "/api/v1/providers/name/Dr.%20Sarah%20Chen")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if err := resp.UnmarshalJSON(&provider); err != nil {
		t.Fatalf("failed to decode provider: %v", err)
	}
	if provider.Data.Remaining() != 3 {
		t.Errorf("expected remaining capacity 3 after cancel, got %d", provider.Data.Remaining())
	}

	resp = client.DELETE(t, "/api/v1/bookings/ref/"+booking.Reference)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	if code := testutil.ErrorCode(t, resp); code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND on repeat cancel, got %s", code)
	}
}

func TestReserveSameSlotTwiceConflicts(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	seedProvider(t, client)

	req := testutil.NewBookingRequestBuilder().WithTime("09:00").Build()
	resp := client.POST(t, "/api/v1/bookings", req)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	second := testutil.NewBookingRequestBuilder().
		WithPatient("Jane Doe", 35).
		WithTime("09:00").
		Build()
	resp = client.POST(t, "/api/v1/bookings", second)
	testutil.AssertStatusCode(t, resp, http.StatusConflict)

	if count := mongo.CountDocuments(t, testutil.BookingsCollection); count != 1 {
		t.Errorf("expected a single ledger row, got %d", count)
	}
}

func TestReserveEarliestSkipsTakenSlots(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	seedProvider(t, client)

	first := testutil.NewBookingRequestBuilder().WithTime("09:00").Build()
	resp := client.POST(t, "/api/v1/bookings", first)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	second := testutil.NewBookingRequestBuilder().WithPatient("Jane Doe", 35).Build()
	resp = client.POST(t, "/api/v1/bookings", second)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	booking := decodeBooking(t, resp)
	if booking.Time != "10:00" {
		t.Errorf("expected earliest open slot 10:00, got %s", booking.Time)
	}
}

func TestAvailableSlotsShrinkAsBookingsLand(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	seedProvider(t, client)

	slotsPath := "/api/v1/providers/name/Dr.%20Sarah%20Chen/slots?date=2025-09-15"

	resp := client.GET(t, slotsPath)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var got struct {
		Data struct {
			AvailableSlots []string `json:"available_slots"`
		} `json:"data"`
	}
	if err := resp.UnmarshalJSON(&got); err != nil {
		t.Fatalf("failed to decode slots: %v", err)
	}
	if len(got.Data.AvailableSlots) != 3 {
		t.Fatalf("expected 3 open slots, got %v", got.Data.AvailableSlots)
	}

	req := testutil.NewBookingRequestBuilder().WithTime("10:00").Build()
	resp = client.POST(t, "/api/v1/bookings", req)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = client.GET(t, slotsPath)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if err := resp.UnmarshalJSON(&got); err != nil {
		t.Fatalf("failed to decode slots: %v", err)
	}
	for _, s := range got.Data.AvailableSlots {
		if s == "10:00" {
			t.Errorf("expected 10:00 gone from availability, got %v", got.Data.AvailableSlots)
		}
	}
}

func TestReserveRejectsNonSlotTime(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	seedProvider(t, client)

	req := testutil.NewBookingRequestBuilder().WithTime("09:30").Build()
	resp := client.POST(t, "/api/v1/bookings", req)
	testutil.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)
	if code := testutil.ErrorCode(t, resp); code != "INVALID_SLOT" {
		t.Errorf("expected INVALID_SLOT, got %s", code)
	}
}

func TestDayRosterListsBookings(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	seedProvider(t, client)

	for _, slot := range []string{"09:00", "10:00"} {
		req := testutil.NewBookingRequestBuilder().WithTime(slot).Build()
		resp := client.POST(t, "/api/v1/bookings", req)
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	}

	resp := client.GET(t, "/api/v1/bookings?date=2025-09-15")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var roster struct {
		Data       []model.Booking `json:"data"`
		TotalCount int64           `json:"total_count"`
	}
	if err := resp.UnmarshalJSON(&roster); err != nil {
		t.Fatalf("failed to decode roster: %v", err)
	}
	if roster.TotalCount != 2 || len(roster.Data) != 2 {
		t.Fatalf("expected 2 bookings, got %d/%d", len(roster.Data), roster.TotalCount)
	}
	if roster.Data[0].Time != "09:00" || roster.Data[1].Time != "10:00" {
		t.Errorf("expected chronological roster, got %s, %s", roster.Data[0].Time, roster.Data[1].Time)
	}
}
