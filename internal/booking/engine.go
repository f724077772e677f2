// Package booking implements the free-trial booking flow: a per-conversation
// state machine driven by inbound chat messages, backed by the session store
// and coordinated with the external calendar and email queue.
package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pulsefit/gymchat/internal/chat"
	"github.com/pulsefit/gymchat/internal/observability/metrics"
	"github.com/pulsefit/gymchat/internal/otp"
	"github.com/pulsefit/gymchat/internal/schedule"
	"github.com/pulsefit/gymchat/internal/session"
	"github.com/pulsefit/gymchat/internal/trainers"
	"github.com/pulsefit/gymchat/pkg/logging"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// stepHandler processes one inbound message for a session sitting at its
// step. Handlers mutate the session and return the reply; a returned error
// aborts the mutation and is converted to the generic apology at the outer
// boundary.
type stepHandler func(ctx context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error)

// Engine is the booking state machine. The transition table maps each step to
// its handler, so re-entrant flows (update information jumping back into
// earlier collection logic) are ordinary transitions rather than special
// cases.
type Engine struct {
	store    session.Store
	verifier *otp.Verifier
	repo     trainers.Repository
	sync     *Coordinator
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics

	now        func() time.Time
	timeZone   string
	windowDays int

	steps map[session.Step]stepHandler
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger overrides the logger.
func WithLogger(l *logging.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics attaches booking metrics.
func WithMetrics(m *metrics.BookingMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithTimeZone sets the zone used for slot offers and past-slot checks.
func WithTimeZone(tz string) EngineOption {
	return func(e *Engine) {
		if tz != "" {
			e.timeZone = tz
		}
	}
}

// WithWindowDays sets how many days of slots are offered.
func WithWindowDays(days int) EngineOption {
	return func(e *Engine) {
		if days > 0 {
			e.windowDays = days
		}
	}
}

// NewEngine builds the booking state machine.
func NewEngine(store session.Store, verifier *otp.Verifier, repo trainers.Repository, sync *Coordinator, opts ...EngineOption) *Engine {
	e := &Engine{
		store:      store,
		verifier:   verifier,
		repo:       repo,
		sync:       sync,
		logger:     logging.Default(),
		now:        time.Now,
		timeZone:   "Asia/Kolkata",
		windowDays: schedule.DefaultWindowDays,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.steps = map[session.Step]stepHandler{
		session.StepStart:            e.handleStart,
		session.StepCollectingName:   e.handleCollectName,
		session.StepCollectingEmail:  e.handleCollectEmail,
		session.StepCollectingPhone:  e.handleCollectPhone,
		session.StepVerifyingOTP:     e.handleVerifyOTP,
		session.StepSelectingSlot:    e.handleSelectSlot,
		session.StepChoosingTraining: e.handleChooseTraining,
		session.StepSelectingTrainer: e.handleSelectTrainer,
		session.StepRecommending:     e.handleRecommendTrainer,
		session.StepConfirming:       e.handleConfirm,
		session.StepBooked:           e.handleBooked,
		session.StepUpdating:         e.handleUpdate,
		session.StepCancelling:       e.handleCancel,
		session.StepCancelled:        e.handleCancelled,
	}
	return e
}

// Handle processes one inbound message for a conversation and returns the
// reply. The whole transition runs under the conversation's session lock, so
// overlapping deliveries for the same conversation serialize. Unexpected
// errors leave the session untouched and produce a generic apology, so the
// user can simply retry.
func (e *Engine) Handle(ctx context.Context, conversationID string, msg chat.Message) *chat.Reply {
	started := e.now()

	var (
		reply *chat.Reply
		step  = session.StepStart
	)
	failed := false

	_, err := e.store.Merge(ctx, conversationID, func(sess *session.Session) {
		step = sess.Step
		snapshot := sess.Clone()

		r, handleErr := e.dispatch(ctx, sess, msg)
		if handleErr != nil {
			*sess = *snapshot
			e.logger.Error("booking flow error",
				"error", handleErr,
				"conversation_id", conversationID,
				"step", string(step),
			)
			failed = true
			reply = apologyReply()
			return
		}
		reply = r
	})
	if err != nil {
		e.logger.Error("session store unavailable", "error", err, "conversation_id", conversationID)
		failed = true
		reply = apologyReply()
	}

	outcome := "ok"
	if failed {
		outcome = "error"
	}
	e.metrics.ObserveWebhook(string(step), outcome)
	e.metrics.ObserveWebhookLatency(string(step), e.now().Sub(started).Seconds())
	return reply
}

func (e *Engine) dispatch(ctx context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	// The menu command is honored at every step, terminal ones included.
	if msg.IsCommand(CmdBackToMenu) {
		sess.Reset()
		return mainMenuReply(), nil
	}

	handler, ok := e.steps[sess.Step]
	if !ok {
		sess.Reset()
		handler = e.handleStart
	}
	return handler(ctx, sess, msg)
}

func (e *Engine) handleStart(_ context.Context, sess *session.Session, _ chat.Message) (*chat.Reply, error) {
	sess.Step = session.StepCollectingName
	sess.EnsureBooking()
	return chat.NewReply("Let's book your free trial! Please enter your full name:").
		WithInput(nameInput()).
		WithSuggestions(CmdBackToMenu), nil
}

func (e *Engine) handleCollectName(_ context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	// Tapping the entry suggestion again just re-asks the question.
	if msg.IsCommand(CmdBookFreeTrial) {
		return chat.NewReply("Please enter your full name:").
			WithInput(nameInput()).
			WithSuggestions(CmdBackToMenu), nil
	}

	name := strings.TrimSpace(msg.TextValue())
	if name == "" {
		return chat.NewReply("Please enter a valid name:").
			WithInput(nameInput("Name is required")).
			WithSuggestions(CmdBackToMenu), nil
	}

	sess.EnsureBooking().Name = name
	sess.Step = session.StepCollectingEmail
	return chat.NewReply("Thank you! Now please enter your email address:").
		WithInput(emailInput()).
		WithSuggestions(CmdBackToMenu), nil
}

func (e *Engine) handleCollectEmail(_ context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	email := strings.TrimSpace(msg.TextValue())
	if !emailPattern.MatchString(email) {
		return chat.NewReply("Please enter a valid email address:").
			WithInput(emailInput()).
			WithSuggestions(CmdBackToMenu), nil
	}

	booking := sess.EnsureBooking()
	booking.Email = email
	sess.OTP = e.verifier.Issue()

	// The OTP mail is queued, not awaited: the user moves on to the phone
	// question while delivery happens in the background.
	e.sync.SendOTP(email, booking.Name, sess.OTP.Code)

	sess.Step = session.StepCollectingPhone
	return chat.NewReply("Great! Now please enter your phone number:").
		WithInput(phoneInput()).
		WithSuggestions(CmdBackToMenu), nil
}

func (e *Engine) handleCollectPhone(_ context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	phone, ok := normalizePhone(msg.TextValue())
	if !ok {
		return chat.NewReply("Please enter a valid 10-digit phone number:").
			WithInput(phoneInput()).
			WithSuggestions(CmdBackToMenu), nil
	}

	sess.EnsureBooking().Phone = phone
	sess.Step = session.StepVerifyingOTP
	return chat.NewReply("We've sent a verification code to your email. Please enter the OTP:").
		WithSuggestions(CmdResendOTP, CmdBackToMenu), nil
}

func (e *Engine) handleVerifyOTP(_ context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	booking := sess.EnsureBooking()

	if msg.IsCommand(CmdResendOTP) {
		state, wait, err := e.verifier.Resend(sess.OTP)
		if err != nil {
			return chat.NewReply(fmt.Sprintf("Please wait %d seconds before requesting a new code.", int(wait.Seconds()))).
				WithSuggestions(CmdResendOTP, CmdBackToMenu), nil
		}
		sess.OTP = state
		e.sync.SendOTP(booking.Email, booking.Name, state.Code)
		return chat.NewReply("A new verification code has been sent to your email. Please enter the OTP:").
			WithSuggestions(CmdResendOTP, CmdBackToMenu), nil
	}

	result, remaining := e.verifier.Verify(sess.OTP, msg.TextValue())
	switch result {
	case otp.ResultOK:
		sess.OTP = nil
		sess.Step = session.StepSelectingSlot
		return e.slotPrompt("Email verified! Now please select a date and time for your free trial."), nil
	case otp.ResultExpired:
		return chat.NewReply("Your verification code has expired. Please request a new one.").
			WithSuggestions(CmdResendOTP, CmdBackToMenu), nil
	case otp.ResultLocked:
		return chat.NewReply("Too many incorrect attempts. Please request a new code to continue.").
			WithSuggestions(CmdResendOTP, CmdBackToMenu), nil
	default:
		return chat.NewReply(fmt.Sprintf("Invalid OTP. Please try again (%d attempts remaining):", remaining)).
			WithSuggestions(CmdResendOTP, CmdBackToMenu), nil
	}
}

// resolveSlot normalizes either inbound slot shape to the canonical form.
// The second return is false when the message is not a slot at all.
func resolveSlot(msg chat.Message) (schedule.Slot, bool, error) {
	switch msg.Kind {
	case chat.KindSlot:
		slot, err := schedule.NormalizeStructured(msg.Slot.Date, msg.Slot.Time)
		return slot, true, err
	case chat.KindText:
		if schedule.LooksLikeSlotText(msg.Text) {
			slot, err := schedule.ParseText(msg.Text)
			return slot, true, err
		}
	}
	return schedule.Slot{}, false, nil
}

func (e *Engine) applySlot(sess *session.Session, msg chat.Message, prompt string) (*chat.Reply, bool) {
	slot, isSlot, err := resolveSlot(msg)
	if !isSlot {
		return e.slotPrompt(prompt), false
	}
	if err != nil {
		return e.slotPrompt("That date and time could not be understood. " + prompt), false
	}

	if err := slot.Validate(); err != nil {
		var hoursErr *schedule.HoursError
		if errors.As(err, &hoursErr) {
			return chat.NewReply(fmt.Sprintf(
				"Invalid time for %s. Please select a time within our allowed hours:\n%s",
				slot.DayOfWeek, hoursErr.Hours(),
			)).WithSuggestions(CmdBackToMenu), false
		}
		return e.slotPrompt("That date and time could not be understood. " + prompt), false
	}
	if loc, locErr := time.LoadLocation(e.timeZone); locErr == nil && slot.InPast(e.now().In(loc)) {
		return e.slotPrompt("That time has already passed. Please pick an upcoming slot."), false
	}

	booking := sess.EnsureBooking()
	booking.DayOfWeek = slot.DayOfWeek
	booking.Time = slot.Time
	booking.RawDate = slot.RawDate
	return nil, true
}

func (e *Engine) handleSelectSlot(_ context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	if reply, ok := e.applySlot(sess, msg, "Please use the date-time selector above to choose a slot."); !ok {
		return reply, nil
	}

	booking := sess.Booking
	sess.Step = session.StepChoosingTraining
	return chat.NewReply(fmt.Sprintf(
		"Great! Your free trial is scheduled for %s at %s.\n\nDo you want personal training during your free trial?",
		booking.DayOfWeek, schedule.FormatTime12(booking.Time),
	)).WithSuggestions(CmdYes, CmdNo, CmdBackToMenu), nil
}

func (e *Engine) handleChooseTraining(_ context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	booking := sess.EnsureBooking()
	switch {
	case msg.IsCommand(CmdYes):
		booking.PersonalTraining = true
		sess.Step = session.StepSelectingTrainer
		return chat.NewReply("Would you like to:\n1. See all trainers\n2. Get a trainer recommendation based on your needs").
			WithSuggestions(CmdSeeAllTrainers, CmdGetRecommendation, CmdBackToMenu), nil
	case msg.IsCommand(CmdNo):
		booking.PersonalTraining = false
		booking.Trainer = nil
		return e.showSummary(sess), nil
	default:
		return chat.NewReply("Please select a valid option:").
			WithSuggestions(CmdYes, CmdNo, CmdBackToMenu), nil
	}
}

func (e *Engine) handleSelectTrainer(ctx context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	booking := sess.EnsureBooking()

	// A trainer picked earlier (e.g. via recommendation) short-circuits the
	// selection step.
	if booking.Trainer != nil && !msg.IsCommand(CmdSeeAllTrainers) && !msg.IsCommand(CmdGetRecommendation) {
		return e.showSummary(sess), nil
	}

	if msg.IsCommand(CmdSeeAllTrainers) {
		return e.listTrainers(ctx)
	}
	if msg.IsCommand(CmdGetRecommendation) {
		sess.Step = session.StepRecommending
		return e.specializationPrompt(ctx)
	}

	// Dropdown selections arrive as "Name - Specialization".
	if value := msg.TextValue(); strings.Contains(value, " - ") {
		name := strings.TrimSpace(strings.SplitN(value, " - ", 2)[0])
		trainer, err := e.repo.FindByName(ctx, name)
		if errors.Is(err, trainers.ErrNotFound) {
			return chat.NewReply("Sorry, the selected trainer could not be found. Please try again.").
				WithSuggestions(CmdSeeAllTrainers, CmdBackToMenu), nil
		}
		if err != nil {
			return nil, err
		}
		booking.Trainer = trainer
		return e.showSummary(sess), nil
	}

	return chat.NewReply("Please select a valid option:").
		WithSuggestions(CmdSeeAllTrainers, CmdGetRecommendation, CmdBackToMenu), nil
}

func (e *Engine) handleRecommendTrainer(ctx context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	booking := sess.EnsureBooking()

	if msg.IsCommand(CmdSelectThisTrainer) {
		if booking.Trainer == nil {
			return chat.NewReply("No trainer was selected. Please try again.").
				WithSuggestions(CmdSeeAllTrainers, CmdBackToMenu), nil
		}
		return e.showSummary(sess), nil
	}
	if msg.IsCommand(CmdSeeAllTrainers) {
		sess.Step = session.StepSelectingTrainer
		return e.listTrainers(ctx)
	}

	specialization := strings.TrimSpace(msg.TextValue())
	if specialization == "" {
		return e.specializationPrompt(ctx)
	}

	matches, err := e.repo.FindBySpecialization(ctx, specialization)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return chat.NewReply("Sorry, we couldn't find a trainer with that specialization. Would you like to see all trainers instead?").
			WithSuggestions(CmdSeeAllTrainers, CmdBackToMenu), nil
	}

	trainer := matches[0]
	booking.Trainer = &trainer
	return chat.NewReply("Recommended Trainer\n\n" + trainerLine(trainer)).
		WithSuggestions(CmdSelectThisTrainer, CmdSeeAllTrainers, CmdBackToMenu), nil
}

func (e *Engine) listTrainers(ctx context.Context) (*chat.Reply, error) {
	all, err := e.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return chat.NewReply("Sorry, no trainers are available at the moment.").
			WithSuggestions(CmdBackToMenu), nil
	}

	replies := make([]string, 0, len(all)+2)
	replies = append(replies, "🏋️ Our Available Trainers:")
	options := make([]chat.Option, 0, len(all))
	for _, t := range all {
		replies = append(replies, trainerLine(t))
		options = append(options, trainerOption(t))
	}
	replies = append(replies, "Please select a trainer from the dropdown below:")

	return chat.NewReply(replies...).
		WithInput(&chat.Input{
			Type:        "select",
			Name:        "trainer",
			Label:       "Select Your Trainer",
			Placeholder: "Choose a trainer",
			Mandatory:   true,
			Options:     options,
		}).
		WithSuggestions(CmdBackToMenu), nil
}

func (e *Engine) specializationPrompt(ctx context.Context) (*chat.Reply, error) {
	specs, err := e.repo.Specializations(ctx)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return chat.NewReply("No specializations available. Please try again later.").
			WithSuggestions(CmdBackToMenu), nil
	}

	options := make([]chat.Option, 0, len(specs))
	for _, s := range specs {
		options = append(options, chat.Option{Text: s, Value: s})
	}
	return chat.NewReply("What specialization are you looking for?").
		WithInput(&chat.Input{
			Type:        "select",
			Name:        "specialization",
			Label:       "Specialization",
			Placeholder: "Choose specialization",
			Mandatory:   true,
			Options:     options,
		}).
		WithSuggestions(CmdBackToMenu), nil
}

func (e *Engine) showSummary(sess *session.Session) *chat.Reply {
	sess.Step = session.StepConfirming
	summary := "Please confirm your free trial booking details:\n\n" +
		bookingDetails(sess.EnsureBooking()) +
		"\nDo you want to confirm your free trial booking?"
	return chat.NewReply(summary).WithSuggestions(CmdConfirm, CmdBackToMenu)
}

func (e *Engine) handleConfirm(ctx context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	if !msg.IsCommand(CmdConfirm) {
		return e.showSummary(sess), nil
	}

	booking := sess.EnsureBooking()
	booking.BookingID = fmt.Sprintf("FT%d", e.now().UnixMilli())
	booking.Status = session.StatusConfirmed
	booking.ConfirmedAt = e.now()

	// Calendar creation is awaited so the reply reflects the attempt; a
	// failure becomes a warning, never a rollback. The email is queued.
	e.sync.SyncCreate(ctx, booking)
	e.sync.SendConfirmation(booking)
	e.metrics.ObserveBooking(string(session.StatusConfirmed))

	sess.Step = session.StepBooked

	replies := []string{fmt.Sprintf(
		"Your free trial has been successfully booked! 🎉\n\nBooking ID: %s\n\n"+
			"A confirmation email has been sent to your registered email address.\n\n"+
			"You can now update your information or cancel your booking if needed.",
		booking.BookingID,
	)}
	if booking.CalendarSyncWarning != "" {
		replies = append(replies, "Note: "+booking.CalendarSyncWarning)
	}
	return chat.NewReply(replies...).
		WithSuggestions(CmdUpdateInfo, CmdCancelTrial, CmdBackToMenu), nil
}

func (e *Engine) handleBooked(_ context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	switch {
	case msg.IsCommand(CmdUpdateInfo):
		sess.Step = session.StepUpdating
		sess.EnsureBooking().FieldToUpdate = ""
		return chat.NewReply("What information would you like to update?").
			WithSuggestions("Name", "Email", "Phone", "Date & Time", CmdBackToMenu), nil
	case msg.IsCommand(CmdCancelTrial):
		sess.Step = session.StepCancelling
		return chat.NewReply("Are you sure you want to cancel your free trial?").
			WithSuggestions(CmdYes, CmdNo, CmdBackToMenu), nil
	default:
		return chat.NewReply("Please select a valid option:").
			WithSuggestions(CmdUpdateInfo, CmdCancelTrial, CmdBackToMenu), nil
	}
}

func (e *Engine) handleUpdate(ctx context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	booking := sess.EnsureBooking()

	if booking.FieldToUpdate == "" {
		return e.pickUpdateField(sess, msg)
	}

	switch booking.FieldToUpdate {
	case fieldName:
		name := strings.TrimSpace(msg.TextValue())
		if len(name) < 2 {
			return chat.NewReply("Please enter a valid name (at least 2 characters):").
				WithInput(nameInput("Name is required")).
				WithSuggestions(CmdBackToMenu), nil
		}
		booking.Name = name
	case fieldEmail:
		email := strings.TrimSpace(msg.TextValue())
		if !emailPattern.MatchString(email) {
			return chat.NewReply("Please enter a valid email address:").
				WithInput(emailInput()).
				WithSuggestions(CmdBackToMenu), nil
		}
		booking.Email = email
	case fieldPhone:
		phone, ok := normalizePhone(msg.TextValue())
		if !ok {
			return chat.NewReply("Please enter a valid 10-digit phone number:").
				WithInput(phoneInput()).
				WithSuggestions(CmdBackToMenu), nil
		}
		booking.Phone = phone
	case fieldDateTime:
		if reply, ok := e.applySlot(sess, msg, "Please select your new date and time:"); !ok {
			return reply, nil
		}
	}

	booking.FieldToUpdate = ""
	return e.showUpdatedSummary(ctx, sess), nil
}

func (e *Engine) pickUpdateField(sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	field := strings.ToLower(strings.TrimSpace(msg.TextValue()))
	booking := sess.EnsureBooking()

	switch field {
	case fieldName:
		booking.FieldToUpdate = fieldName
		return chat.NewReply("Please enter your new name:").
			WithInput(nameInput()).
			WithSuggestions(CmdBackToMenu), nil
	case fieldEmail:
		booking.FieldToUpdate = fieldEmail
		return chat.NewReply("Please enter your new email:").
			WithInput(emailInput()).
			WithSuggestions(CmdBackToMenu), nil
	case fieldPhone:
		booking.FieldToUpdate = fieldPhone
		return chat.NewReply("Please enter your new phone number:").
			WithInput(phoneInput()).
			WithSuggestions(CmdBackToMenu), nil
	case fieldDateTime:
		booking.FieldToUpdate = fieldDateTime
		return chat.NewReply("Please select your new date and time:").
			WithInput(e.slotInput("Update Date & Time")).
			WithSuggestions(CmdBackToMenu), nil
	default:
		return chat.NewReply("Please select a valid field to update:").
			WithSuggestions("Name", "Email", "Phone", "Date & Time", CmdBackToMenu), nil
	}
}

func (e *Engine) showUpdatedSummary(ctx context.Context, sess *session.Session) *chat.Reply {
	booking := sess.EnsureBooking()

	e.sync.SyncUpdate(ctx, booking)
	e.sync.SendUpdate(booking)

	sess.Step = session.StepBooked

	summary := "Your free trial booking has been updated:\n\n" + bookingDetails(booking) +
		"\nAn update confirmation has been sent to your registered email address."
	replies := []string{summary}
	if booking.CalendarSyncWarning != "" {
		replies = append(replies, "Note: "+booking.CalendarSyncWarning)
	}
	return chat.NewReply(replies...).
		WithSuggestions(CmdUpdateInfo, CmdCancelTrial, CmdBackToMenu)
}

func (e *Engine) handleCancel(ctx context.Context, sess *session.Session, msg chat.Message) (*chat.Reply, error) {
	booking := sess.EnsureBooking()
	switch {
	case msg.IsCommand(CmdYes):
		e.sync.SyncCancel(ctx, booking)
		booking.Status = session.StatusCancelled
		e.sync.SendCancellation(booking)
		e.metrics.ObserveBooking(string(session.StatusCancelled))
		sess.Step = session.StepCancelled
		return chat.NewReply(
			"Your free trial booking has been successfully cancelled.\n\n" +
				"A cancellation confirmation has been sent to your registered email address.\n\n" +
				"We hope to see you again soon!").
			WithSuggestions(CmdBackToMenu), nil
	case msg.IsCommand(CmdNo):
		sess.Step = session.StepBooked
		return chat.NewReply("Your free trial booking is still active. What would you like to do?").
			WithSuggestions(CmdUpdateInfo, CmdCancelTrial, CmdBackToMenu), nil
	default:
		return chat.NewReply("Please select a valid option:").
			WithSuggestions(CmdYes, CmdNo, CmdBackToMenu), nil
	}
}

func (e *Engine) handleCancelled(_ context.Context, _ *session.Session, _ chat.Message) (*chat.Reply, error) {
	return chat.NewReply("This booking has been cancelled. You can start a new booking from the main menu.").
		WithSuggestions(CmdBackToMenu), nil
}

// normalizePhone strips formatting and the "91" country prefix, requiring
// exactly 10 digits remain.
func normalizePhone(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	phone := digits.String()
	if strings.HasPrefix(phone, "91") && len(phone) > 10 {
		phone = phone[2:]
	}
	if len(phone) != 10 {
		return "", false
	}
	return phone, true
}
