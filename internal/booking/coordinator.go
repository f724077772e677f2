package booking

import (
	"context"

	"github.com/pulsefit/gymchat/internal/calendar"
	"github.com/pulsefit/gymchat/internal/notify"
	"github.com/pulsefit/gymchat/internal/observability/metrics"
	"github.com/pulsefit/gymchat/internal/session"
	"github.com/pulsefit/gymchat/pkg/logging"
)

const (
	warnEventNotCreated = "Calendar sync failed - event not added to the gym calendar"
	warnEventNotUpdated = "Calendar sync failed - event not updated on the gym calendar"
)

// Coordinator bridges confirmed bookings to the external calendar and the
// email queue. Every operation is best-effort: failures are logged, counted
// and downgraded to a warning on the draft, never returned to the flow.
type Coordinator struct {
	calendar calendar.Service // nil when sync is disabled
	mailer   *notify.Mailer
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics
}

// NewCoordinator builds a coordinator. A nil calendar service disables event
// sync; a nil mailer disables outbound email.
func NewCoordinator(cal calendar.Service, mailer *notify.Mailer, logger *logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Coordinator{calendar: cal, mailer: mailer, logger: logger}
}

// WithMetrics attaches booking metrics.
func (c *Coordinator) WithMetrics(m *metrics.BookingMetrics) *Coordinator {
	c.metrics = m
	return c
}

// SyncCreate creates the calendar event for a freshly confirmed booking. The
// call is awaited so the user-visible confirmation reflects the attempt, but
// failure only sets a warning on the draft.
func (c *Coordinator) SyncCreate(ctx context.Context, booking *session.Draft) {
	if c.calendar == nil {
		return
	}
	ref, err := c.calendar.CreateEvent(ctx, booking)
	if err != nil {
		c.logger.Error("calendar event creation failed", "error", err, "booking_id", booking.BookingID)
		c.metrics.ObserveCalendarFailure()
		booking.CalendarSyncWarning = warnEventNotCreated
		return
	}
	booking.CalendarEventID = ref.ID
	booking.CalendarEventLink = ref.Link
	booking.CalendarSyncWarning = ""
}

// SyncUpdate rewrites the calendar event after a booking detail changes. A
// booking that never got an event (creation failed or sync disabled) is left
// alone.
func (c *Coordinator) SyncUpdate(ctx context.Context, booking *session.Draft) {
	if c.calendar == nil || booking.CalendarEventID == "" {
		return
	}
	if _, err := c.calendar.UpdateEvent(ctx, booking.CalendarEventID, booking); err != nil {
		c.logger.Error("calendar event update failed", "error", err, "booking_id", booking.BookingID)
		c.metrics.ObserveCalendarFailure()
		booking.CalendarSyncWarning = warnEventNotUpdated
		return
	}
	booking.CalendarSyncWarning = ""
}

// SyncCancel deletes the calendar event. Cancellation proceeds regardless of
// the outcome.
func (c *Coordinator) SyncCancel(ctx context.Context, booking *session.Draft) {
	if c.calendar == nil || booking.CalendarEventID == "" {
		return
	}
	if err := c.calendar.CancelEvent(ctx, booking.CalendarEventID); err != nil {
		c.logger.Error("calendar event cancellation failed", "error", err, "booking_id", booking.BookingID)
		c.metrics.ObserveCalendarFailure()
	}
}

// SendOTP queues the verification-code email.
func (c *Coordinator) SendOTP(to, name, code string) {
	if c.mailer == nil {
		return
	}
	if err := c.mailer.SendOTP(to, name, code); err != nil {
		c.logger.Error("failed to queue otp email", "error", err, "to", to)
	}
}

// SendConfirmation queues the booking-confirmed email.
func (c *Coordinator) SendConfirmation(booking *session.Draft) {
	if c.mailer == nil {
		return
	}
	if err := c.mailer.SendConfirmation(booking); err != nil {
		c.logger.Error("failed to queue confirmation email", "error", err, "booking_id", booking.BookingID)
	}
}

// SendUpdate queues the booking-updated email.
func (c *Coordinator) SendUpdate(booking *session.Draft) {
	if c.mailer == nil {
		return
	}
	if err := c.mailer.SendUpdate(booking); err != nil {
		c.logger.Error("failed to queue update email", "error", err, "booking_id", booking.BookingID)
	}
}

// SendCancellation queues the booking-cancelled email.
func (c *Coordinator) SendCancellation(booking *session.Draft) {
	if c.mailer == nil {
		return
	}
	if err := c.mailer.SendCancellation(booking); err != nil {
		c.logger.Error("failed to queue cancellation email", "error", err, "booking_id", booking.BookingID)
	}
}
