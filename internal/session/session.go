// Package session holds the per-conversation state of the free-trial booking
// flow and the stores that persist it between webhook deliveries.
package session

import (
	"time"

	"github.com/pulsefit/gymchat/internal/otp"
	"github.com/pulsefit/gymchat/internal/trainers"
)

// Step identifies where a conversation currently sits in the booking flow.
type Step string

const (
	StepStart            Step = "start"
	StepCollectingName   Step = "collecting_name"
	StepCollectingEmail  Step = "collecting_email"
	StepCollectingPhone  Step = "collecting_phone"
	StepVerifyingOTP     Step = "verifying_otp"
	StepSelectingSlot    Step = "selecting_datetime"
	StepChoosingTraining Step = "choosing_personal_training"
	StepSelectingTrainer Step = "selecting_trainer"
	StepRecommending     Step = "recommending_trainer"
	StepConfirming       Step = "confirming"
	StepBooked           Step = "booked"
	StepUpdating         Step = "updating"
	StepCancelling       Step = "cancelling"
	StepCancelled        Step = "cancelled"
)

// Terminal reports whether the flow is finished for this conversation.
func (s Step) Terminal() bool {
	return s == StepCancelled
}

// Status is the lifecycle state of a booking draft.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Draft is the booking under construction. A BookingID exists iff the status
// is confirmed or cancelled, and never changes once assigned.
type Draft struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"` // 10 digits, country prefix stripped

	DayOfWeek string `json:"day_of_week"` // lowercase weekday
	Time      string `json:"time"`        // HH:MM, 24h
	RawDate   string `json:"raw_date"`    // DD/MM/YYYY

	PersonalTraining bool              `json:"personal_training"`
	Trainer          *trainers.Trainer `json:"trainer,omitempty"`

	BookingID   string    `json:"booking_id,omitempty"`
	ConfirmedAt time.Time `json:"confirmed_at,omitempty"`

	CalendarEventID     string `json:"calendar_event_id,omitempty"`
	CalendarEventLink   string `json:"calendar_event_link,omitempty"`
	CalendarSyncWarning string `json:"calendar_sync_warning,omitempty"`

	Status Status `json:"status"`

	// FieldToUpdate holds the field name chosen in the update flow while the
	// replacement value is being collected.
	FieldToUpdate string `json:"field_to_update,omitempty"`
}

// Session is the full per-conversation record.
type Session struct {
	Step         Step       `json:"step"`
	Booking      *Draft     `json:"booking,omitempty"`
	OTP          *otp.State `json:"otp,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastAccessed time.Time  `json:"last_accessed"`
}

// EnsureBooking returns the draft, creating an empty one on first use.
func (s *Session) EnsureBooking() *Draft {
	if s.Booking == nil {
		s.Booking = &Draft{Status: StatusDraft}
	}
	return s.Booking
}

// Clone deep-copies the session, so callers can hold or mutate the result
// without touching shared store state.
func (s *Session) Clone() *Session {
	cp := *s
	if s.Booking != nil {
		booking := *s.Booking
		if s.Booking.Trainer != nil {
			trainer := *s.Booking.Trainer
			booking.Trainer = &trainer
		}
		cp.Booking = &booking
	}
	if s.OTP != nil {
		state := *s.OTP
		cp.OTP = &state
	}
	return &cp
}

// Reset abandons any in-progress draft and returns the conversation to the
// entry point of the flow.
func (s *Session) Reset() {
	s.Step = StepStart
	s.Booking = nil
	s.OTP = nil
}
