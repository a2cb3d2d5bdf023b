package service

import (
	"strings"
	"testing"
	"time"

	"github.com/abhash31/ai-booking-assistant/internal/bookings/events"
)

func sampleEvent() events.BookingEvent {
	return events.BookingEvent{
		Type:         events.TypeBookingConfirmed,
		Reference:    "A1B2C3D4",
		PatientName:  "John Smith",
		ProviderName: "Dr. Sarah Chen",
		Specialty:    "Cardiology",
		Date:         "2025-09-15",
		Time:         "10:00",
	}
}

func TestFormatConfirmationSpeaksToday(t *testing.T) {
	now := time.Date(2025, 9, 15, 8, 30, 0, 0, time.UTC)

	msg := FormatConfirmation(sampleEvent(), now)
	if !strings.Contains(msg, "confirmed today at 10:00") {
		t.Errorf("expected 'today' phrasing, got: %s", msg)
	}
	if !strings.Contains(msg, "A1B2C3D4") {
		t.Errorf("expected reference in message, got: %s", msg)
	}
}

func TestFormatConfirmationSpeaksTomorrow(t *testing.T) {
	now := time.Date(2025, 9, 14, 23, 0, 0, 0, time.UTC)

	msg := FormatConfirmation(sampleEvent(), now)
	if !strings.Contains(msg, "confirmed tomorrow at 10:00") {
		t.Errorf("expected 'tomorrow' phrasing, got: %s", msg)
	}
}

func TestFormatConfirmationSpeaksWeekday(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	msg := FormatConfirmation(sampleEvent(), now)
	// 2025-09-15 is a Monday.
	if !strings.Contains(msg, "on Monday, September 15") {
		t.Errorf("expected weekday phrasing, got: %s", msg)
	}
}

func TestFormatCancellationNamesReference(t *testing.T) {
	now := time.Date(2025, 9, 15, 8, 30, 0, 0, time.UTC)

	event := sampleEvent()
	event.Type = events.TypeBookingCancelled

	msg := FormatCancellation(event, now)
	if !strings.Contains(msg, "cancelled") || !strings.Contains(msg, "A1B2C3D4") {
		t.Errorf("expected cancellation message with reference, got: %s", msg)
	}
}

func TestSpokenDateFallsBackOnUnparseableDate(t *testing.T) {
	now := time.Date(2025, 9, 15, 8, 30, 0, 0, time.UTC)

	if got := spokenDate("not-a-date", now); got != "on not-a-date" {
		t.Errorf("expected raw fallback, got %q", got)
	}
}
