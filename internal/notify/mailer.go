package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/pulsefit/gymchat/internal/schedule"
	"github.com/pulsefit/gymchat/internal/session"
)

const (
	subjectOTP          = "Your OTP for Free Trial Registration"
	subjectConfirmation = "Your Free Trial Booking Confirmation"
	subjectUpdate       = "Your Free Trial Booking Has Been Updated"
	subjectCancellation = "Your Free Trial Booking Cancellation"
)

// Mailer renders booking-flow emails and hands them to a queue for delivery.
type Mailer struct {
	queue *Queue
}

// NewMailer builds a mailer writing to queue.
func NewMailer(queue *Queue) *Mailer {
	return &Mailer{queue: queue}
}

// SendOTP queues the verification-code email.
func (m *Mailer) SendOTP(to, name, code string) error {
	return m.queue.Enqueue(EmailMessage{
		To:      to,
		ToName:  name,
		Subject: subjectOTP,
		Body:    fmt.Sprintf("Your OTP for free trial registration is: %s", code),
		HTML:    fmt.Sprintf("<p>Your OTP for free trial registration is: <strong>%s</strong></p>", html.EscapeString(code)),
	})
}

// SendConfirmation queues the booking-confirmed email.
func (m *Mailer) SendConfirmation(booking *session.Draft) error {
	return m.queue.Enqueue(EmailMessage{
		To:      booking.Email,
		ToName:  booking.Name,
		Subject: subjectConfirmation,
		Body:    bookingText(booking, "Your free trial has been successfully booked! Here are your booking details:"),
		HTML: bookingHTML(booking, "#4CAF50", "Free Trial Booking Confirmation",
			"Your free trial has been successfully booked! Here are your booking details:"),
	})
}

// SendUpdate queues the booking-updated email.
func (m *Mailer) SendUpdate(booking *session.Draft) error {
	return m.queue.Enqueue(EmailMessage{
		To:      booking.Email,
		ToName:  booking.Name,
		Subject: subjectUpdate,
		Body:    bookingText(booking, "Your free trial booking information has been successfully updated. Here are your updated booking details:"),
		HTML: bookingHTML(booking, "#4CAF50", "Free Trial Booking Updated",
			"Your free trial booking information has been successfully updated. Here are your updated booking details:"),
	})
}

// SendCancellation queues the booking-cancelled email.
func (m *Mailer) SendCancellation(booking *session.Draft) error {
	var text strings.Builder
	fmt.Fprintf(&text, "Dear %s,\n\n", booking.Name)
	text.WriteString("Your free trial booking has been cancelled as requested.\n\n")
	fmt.Fprintf(&text, "Booking ID: %s\nStatus: Cancelled\n\n", booking.BookingID)
	text.WriteString("We're sorry to see you go. If you change your mind, you can always book another free trial at PulseFit.\n\nBest regards,\nThe PulseFit Team\n")

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 8px;">`)
	b.WriteString(`<h2 style="color: #F44336; text-align: center;">Free Trial Booking Cancellation</h2>`)
	fmt.Fprintf(&b, "<p>Dear %s,</p>", html.EscapeString(booking.Name))
	b.WriteString("<p>Your free trial booking has been cancelled as requested.</p>")
	b.WriteString(`<div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">`)
	b.WriteString(`<h3 style="margin-top: 0; color: #333;">Cancellation Details</h3>`)
	fmt.Fprintf(&b, "<p><strong>Booking ID:</strong> %s</p>", html.EscapeString(booking.BookingID))
	b.WriteString("<p><strong>Status:</strong> Cancelled</p></div>")
	b.WriteString("<p>We're sorry to see you go. If you change your mind, you can always book another free trial at PulseFit.</p>")
	b.WriteString("<p>Best regards,<br>The PulseFit Team</p></div>")

	return m.queue.Enqueue(EmailMessage{
		To:      booking.Email,
		ToName:  booking.Name,
		Subject: subjectCancellation,
		Body:    text.String(),
		HTML:    b.String(),
	})
}

func bookingText(booking *session.Draft, intro string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n%s\n\n", booking.Name, intro)
	fmt.Fprintf(&b, "Booking ID: %s\n", booking.BookingID)
	fmt.Fprintf(&b, "Date: %s\n", schedule.FormatDateLong(booking.RawDate))
	fmt.Fprintf(&b, "Time: %s\n", schedule.FormatTime12(booking.Time))
	fmt.Fprintf(&b, "Phone: %s\n", booking.Phone)
	if booking.PersonalTraining && booking.Trainer != nil {
		b.WriteString("Personal Training: Yes\n")
		fmt.Fprintf(&b, "Trainer: %s\n", booking.Trainer.Name)
		if booking.Trainer.Specialization != "" {
			fmt.Fprintf(&b, "Specialization: %s\n", booking.Trainer.Specialization)
		}
		if booking.Trainer.Experience > 0 {
			fmt.Fprintf(&b, "Experience: %d years\n", booking.Trainer.Experience)
		}
	} else {
		b.WriteString("Personal Training: No\n")
	}
	b.WriteString("\nPlease arrive 10 minutes before your scheduled time. If you need to make any changes to your booking, please contact us.\n\nThank you for choosing PulseFit!\nBest regards,\nThe PulseFit Team\n")
	return b.String()
}

func bookingHTML(booking *session.Draft, accent, heading, intro string) string {
	esc := html.EscapeString

	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 8px;">`)
	fmt.Fprintf(&b, `<h2 style="color: %s; text-align: center;">%s</h2>`, accent, esc(heading))
	fmt.Fprintf(&b, "<p>Dear %s,</p><p>%s</p>", esc(booking.Name), esc(intro))
	b.WriteString(`<div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">`)
	b.WriteString(`<h3 style="margin-top: 0; color: #333;">Booking Details</h3>`)
	fmt.Fprintf(&b, "<p><strong>Booking ID:</strong> %s</p>", esc(booking.BookingID))
	fmt.Fprintf(&b, "<p><strong>Date:</strong> %s</p>", esc(schedule.FormatDateLong(booking.RawDate)))
	fmt.Fprintf(&b, "<p><strong>Time:</strong> %s</p>", esc(schedule.FormatTime12(booking.Time)))
	fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", esc(booking.Phone))
	if booking.PersonalTraining && booking.Trainer != nil {
		b.WriteString("<p><strong>Personal Training:</strong> Yes</p>")
		fmt.Fprintf(&b, "<p><strong>Trainer:</strong> %s</p>", esc(booking.Trainer.Name))
		if booking.Trainer.Specialization != "" {
			fmt.Fprintf(&b, "<p><strong>Specialization:</strong> %s</p>", esc(booking.Trainer.Specialization))
		}
		if booking.Trainer.Experience > 0 {
			fmt.Fprintf(&b, "<p><strong>Experience:</strong> %d years</p>", booking.Trainer.Experience)
		}
	} else {
		b.WriteString("<p><strong>Personal Training:</strong> No</p>")
	}
	b.WriteString("</div>")
	b.WriteString("<p>Please arrive 10 minutes before your scheduled time. If you need to make any changes to your booking, please contact us.</p>")
	b.WriteString("<p>Thank you for choosing PulseFit!</p>")
	b.WriteString("<p>Best regards,<br>The PulseFit Team</p></div>")
	return b.String()
}
