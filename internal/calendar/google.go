package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/pulsefit/gymchat/internal/session"
	"github.com/pulsefit/gymchat/pkg/logging"
)

// freeTrialColorID is Google's "basil" green, used for all trial events.
const freeTrialColorID = "10"

// GoogleService writes booking events to a Google Calendar using a service
// account credential.
type GoogleService struct {
	events     *gcal.EventsService
	calendarID string
	timeZone   string
	logger     *logging.Logger
}

// GoogleOption configures a GoogleService.
type GoogleOption func(*GoogleService)

// WithCalendarID targets a calendar other than "primary".
func WithCalendarID(id string) GoogleOption {
	return func(s *GoogleService) {
		if id != "" {
			s.calendarID = id
		}
	}
}

// WithTimeZone overrides the event time zone.
func WithTimeZone(tz string) GoogleOption {
	return func(s *GoogleService) {
		if tz != "" {
			s.timeZone = tz
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *logging.Logger) GoogleOption {
	return func(s *GoogleService) { s.logger = l }
}

// NewGoogleService builds a calendar service from a credentials file.
func NewGoogleService(ctx context.Context, credentialsFile string, opts ...GoogleOption) (*GoogleService, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to build google client: %w", err)
	}
	s := &GoogleService{
		events:     svc.Events,
		calendarID: "primary",
		timeZone:   DefaultTimeZone,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateEvent inserts a new event for the booking.
func (s *GoogleService) CreateEvent(ctx context.Context, booking *session.Draft) (*EventRef, error) {
	event, err := s.buildEvent(booking, false)
	if err != nil {
		return nil, err
	}
	event.Reminders = &gcal.EventReminders{
		UseDefault: false,
		Overrides: []*gcal.EventReminder{
			{Method: "email", Minutes: 24 * 60},
			{Method: "popup", Minutes: 60},
			{Method: "popup", Minutes: 30},
		},
		ForceSendFields: []string{"UseDefault"},
	}

	created, err := s.events.Insert(s.calendarID, event).
		SendUpdates(s.sendUpdates(booking)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to create event: %w", err)
	}

	s.logger.Info("calendar event created",
		"event_id", created.Id,
		"booking_id", booking.BookingID,
	)
	return &EventRef{ID: created.Id, Link: created.HtmlLink}, nil
}

// UpdateEvent rewrites the event after a booking detail changes.
func (s *GoogleService) UpdateEvent(ctx context.Context, eventID string, booking *session.Draft) (*EventRef, error) {
	event, err := s.buildEvent(booking, true)
	if err != nil {
		return nil, err
	}

	updated, err := s.events.Update(s.calendarID, eventID, event).
		SendUpdates(s.sendUpdates(booking)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to update event %s: %w", eventID, err)
	}

	s.logger.Info("calendar event updated",
		"event_id", updated.Id,
		"booking_id", booking.BookingID,
	)
	return &EventRef{ID: updated.Id, Link: updated.HtmlLink}, nil
}

// CancelEvent deletes the event. A 404 or 410 means the event is already
// gone, which is the outcome the caller wanted.
func (s *GoogleService) CancelEvent(ctx context.Context, eventID string) error {
	err := s.events.Delete(s.calendarID, eventID).
		SendUpdates("all").
		Context(ctx).Do()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok && (apiErr.Code == 404 || apiErr.Code == 410) {
			s.logger.Warn("calendar event already deleted", "event_id", eventID)
			return nil
		}
		return fmt.Errorf("calendar: failed to cancel event %s: %w", eventID, err)
	}

	s.logger.Info("calendar event cancelled", "event_id", eventID)
	return nil
}

func (s *GoogleService) sendUpdates(booking *session.Draft) string {
	if booking.Email != "" {
		return "all"
	}
	return "none"
}

func (s *GoogleService) buildEvent(booking *session.Draft, updated bool) (*gcal.Event, error) {
	start, end, err := eventWindow(booking, s.timeZone)
	if err != nil {
		return nil, err
	}

	event := &gcal.Event{
		Summary:     eventSummary(booking),
		Description: eventDescription(booking, updated),
		ColorId:     freeTrialColorID,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: s.timeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: s.timeZone,
		},
	}
	if booking.Email != "" {
		event.Attendees = []*gcal.EventAttendee{{
			Email:          booking.Email,
			DisplayName:    booking.Name,
			ResponseStatus: "accepted",
		}}
	}
	return event, nil
}
