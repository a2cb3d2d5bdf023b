package service

import (
	"fmt"
	"time"

	"github.com/abhash31/ai-booking-assistant/internal/bookings/events"
)

// FormatConfirmation renders a booking event as the sentence the chat
// assistant reads back to the patient. Dates near the reference day collapse
// to "today" / "tomorrow".
func FormatConfirmation(event events.BookingEvent, now time.Time) string {
	return fmt.Sprintf(
		"Your appointment with %s (%s) is confirmed %s at %s. Your booking reference is %s.",
		event.ProviderName,
		event.Specialty,
		spokenDate(event.Date, now),
		event.Time,
		event.Reference,
	)
}

func FormatCancellation(event events.BookingEvent, now time.Time) string {
	return fmt.Sprintf(
		"Your appointment with %s %s at %s has been cancelled. Reference %s is no longer active.",
		event.ProviderName,
		spokenDate(event.Date, now),
		event.Time,
		event.Reference,
	)
}

func spokenDate(date string, now time.Time) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "on " + date
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch parsed.Sub(today) {
	case 0:
		return "today"
	case 24 * time.Hour:
		return "tomorrow"
	default:
		return "on " + parsed.Format("Monday, January 02")
	}
}
