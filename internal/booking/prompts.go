package booking

import (
	"fmt"
	"strings"

	"github.com/pulsefit/gymchat/internal/chat"
	"github.com/pulsefit/gymchat/internal/schedule"
	"github.com/pulsefit/gymchat/internal/session"
	"github.com/pulsefit/gymchat/internal/trainers"
)

// Quick-reply commands understood by the flow. These strings are the wire
// values the chat widget sends back when a suggestion is tapped.
const (
	CmdBackToMenu        = "⬅️ Back to Main Menu"
	CmdBookFreeTrial     = "Book Free Trial"
	CmdResendOTP         = "Resend OTP"
	CmdYes               = "Yes"
	CmdNo                = "No"
	CmdSeeAllTrainers    = "See All Trainers"
	CmdGetRecommendation = "Get Recommendation"
	CmdSelectThisTrainer = "Select This Trainer"
	CmdConfirm           = "Confirm"
	CmdUpdateInfo        = "Update Information"
	CmdCancelTrial       = "Cancel Free Trial"
)

// Updatable booking fields, as offered in the update flow.
const (
	fieldName     = "name"
	fieldEmail    = "email"
	fieldPhone    = "phone"
	fieldDateTime = "date & time"
)

func nameInput(errs ...string) *chat.Input {
	return &chat.Input{
		Type:        "name",
		Placeholder: "Enter your full name",
		Error:       errs,
	}
}

func emailInput() *chat.Input {
	return &chat.Input{
		Type:        "email",
		Name:        "email",
		Label:       "Email Address",
		Placeholder: "your.email@example.com",
		Mandatory:   true,
	}
}

func phoneInput() *chat.Input {
	return &chat.Input{
		Type:        "tel",
		Name:        "phone",
		Label:       "Phone Number",
		Placeholder: "+91 9876543210",
		Mandatory:   true,
	}
}

func (e *Engine) slotInput(label string) *chat.Input {
	return &chat.Input{
		Type:       "date-timeslots",
		Label:      label,
		TimeZoneID: e.timeZone,
		Slots:      schedule.Generate(e.now(), e.windowDays),
	}
}

func (e *Engine) slotPrompt(text string) *chat.Reply {
	return chat.NewReply(text).
		WithInput(e.slotInput("Select a time")).
		WithSuggestions(CmdBackToMenu)
}

func mainMenuReply() *chat.Reply {
	return chat.NewReply("You're back at the main menu. How can we help you today?").
		WithSuggestions(CmdBookFreeTrial)
}

func apologyReply() *chat.Reply {
	return chat.NewReply("Sorry, there was an error processing your request. Please try again.").
		WithSuggestions(CmdBackToMenu)
}

func trainerLine(t trainers.Trainer) string {
	return fmt.Sprintf("%s\nSpecialization: %s\nExperience: %d years", t.Name, t.Specialization, t.Experience)
}

func trainerOption(t trainers.Trainer) chat.Option {
	label := fmt.Sprintf("%s - %s", t.Name, t.Specialization)
	return chat.Option{Text: label, Value: label}
}

func bookingDetails(booking *session.Draft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", booking.Name)
	fmt.Fprintf(&b, "Email: %s\n", booking.Email)
	fmt.Fprintf(&b, "Phone: %s\n", booking.Phone)
	fmt.Fprintf(&b, "Date: %s\n", schedule.FormatDateLong(booking.RawDate))
	fmt.Fprintf(&b, "Time: %s\n", schedule.FormatTime12(booking.Time))
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
	return b.String()
}
