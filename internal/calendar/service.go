// Package calendar syncs confirmed free-trial bookings to an external
// calendar. Sync is best-effort: booking flow failures never propagate from
// here, callers record the warning and move on.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pulsefit/gymchat/internal/session"
)

// DefaultTimeZone is the gym's local zone.
const DefaultTimeZone = "Asia/Kolkata"

// EventDuration is the length of a free-trial session.
const EventDuration = 60 * time.Minute

// EventRef identifies a created or updated calendar event.
type EventRef struct {
	ID   string
	Link string
}

// Service creates, updates and cancels booking events.
type Service interface {
	CreateEvent(ctx context.Context, booking *session.Draft) (*EventRef, error)
	UpdateEvent(ctx context.Context, eventID string, booking *session.Draft) (*EventRef, error)
	// CancelEvent deletes the event. Cancelling an already-deleted event is
	// not an error.
	CancelEvent(ctx context.Context, eventID string) error
}

// eventWindow resolves the booking's raw date (DD/MM/YYYY) and time (HH:MM)
// into start and end instants in the given zone.
func eventWindow(booking *session.Draft, timeZone string) (start, end time.Time, err error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("calendar: unknown time zone %q: %w", timeZone, err)
	}

	var day, month, year, hour, minute int
	if _, err := fmt.Sscanf(booking.RawDate, "%d/%d/%d", &day, &month, &year); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("calendar: invalid booking date %q: %w", booking.RawDate, err)
	}
	if _, err := fmt.Sscanf(booking.Time, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("calendar: invalid booking time %q: %w", booking.Time, err)
	}

	start = time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	return start, start.Add(EventDuration), nil
}

// eventSummary is the event title shown on the calendar.
func eventSummary(booking *session.Draft) string {
	return fmt.Sprintf("🏋️ Free Trial - %s", booking.Name)
}

// eventDescription renders the event body with customer and session details.
func eventDescription(booking *session.Draft, updated bool) string {
	var b strings.Builder

	heading := "🏋️ Free Trial Booking"
	if updated {
		heading = "🏋️ Free Trial Booking (UPDATED)"
	}
	fmt.Fprintf(&b, "%s\n\n", heading)

	b.WriteString("👤 Customer Details:\n")
	fmt.Fprintf(&b, "Name: %s\n", booking.Name)
	fmt.Fprintf(&b, "Email: %s\n", booking.Email)
	fmt.Fprintf(&b, "Phone: %s\n", booking.Phone)
	fmt.Fprintf(&b, "Booking ID: %s\n\n", booking.BookingID)

	b.WriteString("📋 Session Details:\n")
	if booking.PersonalTraining {
		b.WriteString("Personal Training: Yes\n")
		if t := booking.Trainer; t != nil {
			fmt.Fprintf(&b, "Trainer: %s\n", t.Name)
			if t.Specialization != "" {
				fmt.Fprintf(&b, "Specialization: %s\n", t.Specialization)
			}
			if t.Experience > 0 {
				fmt.Fprintf(&b, "Experience: %d years\n", t.Experience)
			}
		}
	} else {
		b.WriteString("Personal Training: No\n")
	}

	b.WriteString("\nBooked via: PulseFit chat widget")
	return b.String()
}
