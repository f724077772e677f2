package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/gymchat/internal/session"
	"github.com/pulsefit/gymchat/internal/trainers"
)

// recordingSender captures sent emails, optionally failing the first n sends.
type recordingSender struct {
	mu       sync.Mutex
	sent     []EmailMessage
	failures int
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return errors.New("smtp unavailable")
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) messages() []EmailMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EmailMessage, len(r.sent))
	copy(out, r.sent)
	return out
}

func confirmedBooking() *session.Draft {
	return &session.Draft{
		Name:             "Priya Sharma",
		Email:            "priya@example.com",
		Phone:            "9876543210",
		DayOfWeek:        "monday",
		Time:             "07:30",
		RawDate:          "02/03/2026",
		PersonalTraining: true,
		Trainer: &trainers.Trainer{
			Name:           "Ravi Kumar",
			Specialization: "Strength Training",
			Experience:     8,
		},
		BookingID: "FT1767155400000",
		Status:    session.StatusConfirmed,
	}
}

func drainOne(t *testing.T, q *Queue) EmailMessage {
	t.Helper()
	select {
	case item := <-q.ch:
		return item.Message
	default:
		t.Fatal("expected a queued email")
		return EmailMessage{}
	}
}

func TestMailerSendOTP(t *testing.T) {
	q := NewQueue(4)
	m := NewMailer(q)

	require.NoError(t, m.SendOTP("priya@example.com", "Priya", "493028"))

	msg := drainOne(t, q)
	assert.Equal(t, "priya@example.com", msg.To)
	assert.Equal(t, "Your OTP for Free Trial Registration", msg.Subject)
	assert.Contains(t, msg.Body, "493028")
	assert.Contains(t, msg.HTML, "<strong>493028</strong>")
}

func TestMailerSendConfirmation(t *testing.T) {
	q := NewQueue(4)
	m := NewMailer(q)

	require.NoError(t, m.SendConfirmation(confirmedBooking()))

	msg := drainOne(t, q)
	assert.Equal(t, "Your Free Trial Booking Confirmation", msg.Subject)
	assert.Contains(t, msg.Body, "FT1767155400000")
	assert.Contains(t, msg.Body, "Monday, March 2, 2026")
	assert.Contains(t, msg.Body, "7:30 AM")
	assert.Contains(t, msg.Body, "Trainer: Ravi Kumar")
	assert.Contains(t, msg.HTML, "Booking Confirmation")
	assert.Contains(t, msg.HTML, "Ravi Kumar")
}

func TestMailerSendConfirmationWithoutTrainer(t *testing.T) {
	q := NewQueue(4)
	m := NewMailer(q)

	booking := confirmedBooking()
	booking.PersonalTraining = false
	booking.Trainer = nil
	require.NoError(t, m.SendConfirmation(booking))

	msg := drainOne(t, q)
	assert.Contains(t, msg.Body, "Personal Training: No")
	assert.NotContains(t, msg.Body, "Trainer:")
}

func TestMailerSendUpdateAndCancellation(t *testing.T) {
	q := NewQueue(4)
	m := NewMailer(q)

	require.NoError(t, m.SendUpdate(confirmedBooking()))
	msg := drainOne(t, q)
	assert.Equal(t, "Your Free Trial Booking Has Been Updated", msg.Subject)
	assert.Contains(t, msg.Body, "successfully updated")

	require.NoError(t, m.SendCancellation(confirmedBooking()))
	msg = drainOne(t, q)
	assert.Equal(t, "Your Free Trial Booking Cancellation", msg.Subject)
	assert.Contains(t, msg.Body, "Status: Cancelled")
	assert.Contains(t, msg.HTML, "Free Trial Booking Cancellation")
}

func TestQueueEnqueueFullReturnsError(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Enqueue(EmailMessage{To: "a@example.com"}))
	err := q.Enqueue(EmailMessage{To: "b@example.com"})
	assert.Error(t, err)
	assert.Equal(t, 1, q.Len())
}

func TestDispatcherDeliversQueuedMail(t *testing.T) {
	q := NewQueue(4)
	sender := &recordingSender{}
	d := NewDispatcher(q, sender, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.NoError(t, q.Enqueue(EmailMessage{To: "a@example.com", Subject: "one"}))
	require.NoError(t, q.Enqueue(EmailMessage{To: "b@example.com", Subject: "two"}))

	assert.Eventually(t, func() bool {
		return len(sender.messages()) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDispatcherRetriesThenDelivers(t *testing.T) {
	q := NewQueue(4)
	sender := &recordingSender{failures: 1}
	d := NewDispatcher(q, sender, nil).
		WithMaxAttempts(3).
		WithBaseDelay(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.NoError(t, q.Enqueue(EmailMessage{To: "a@example.com", Subject: "flaky"}))

	assert.Eventually(t, func() bool {
		return len(sender.messages()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDispatcherDropsAfterMaxAttempts(t *testing.T) {
	q := NewQueue(4)
	sender := &recordingSender{failures: 10}

	var mu sync.Mutex
	var dropped []EmailMessage
	d := NewDispatcher(q, sender, nil).
		WithMaxAttempts(2).
		WithBaseDelay(5 * time.Millisecond).
		WithDropObserver(func(msg EmailMessage) {
			mu.Lock()
			dropped = append(dropped, msg)
			mu.Unlock()
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	require.NoError(t, q.Enqueue(EmailMessage{To: "a@example.com", Subject: "doomed"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(dropped) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, sender.messages())
}
