// Package schedule computes and validates bookable free-trial slots against
// the gym's business-hour rules.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

const (
	openMinutes          = 6 * 60  // 06:00 every day
	weekdayCloseMinutes  = 20 * 60 // Monday-Saturday until 20:00
	sundayCloseMinutes   = 17 * 60 // Sunday until 17:00
	slotStepMinutes      = 30
	DefaultWindowDays    = 5
	rawDateLayout        = "02/01/2006"
)

// Slot is a canonical (date, time) pair. DayOfWeek is lowercase
// ("sunday".."saturday"), Time is 24h "HH:MM", RawDate is "DD/MM/YYYY".
type Slot struct {
	DayOfWeek string
	Time      string
	RawDate   string
}

// HoursError reports a time outside the business-hour window for its weekday.
type HoursError struct {
	DayOfWeek string
}

func (e *HoursError) Error() string {
	return fmt.Sprintf("schedule: invalid time for %s: allowed hours are Monday-Saturday 6 AM to 8 PM, Sunday 6 AM to 5 PM", e.DayOfWeek)
}

// Hours returns the human-readable window description used in re-prompts.
func (e *HoursError) Hours() string {
	return "Monday - Saturday: 6 AM to 8 PM\nSunday: 6 AM to 5 PM"
}

// Generate returns the bookable slots for each of the next windowDays calendar
// days starting at from, keyed by "DD/MM/YYYY" with ordered "HH:MM" values.
func Generate(from time.Time, windowDays int) map[string][]string {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	slots := make(map[string][]string, windowDays)
	for i := 0; i < windowDays; i++ {
		day := from.AddDate(0, 0, i)

		lastHour := 20
		if day.Weekday() == time.Sunday {
			lastHour = 17
		}

		var times []string
		for hour := 6; hour < lastHour; hour++ {
			for minute := 0; minute < 60; minute += slotStepMinutes {
				times = append(times, fmt.Sprintf("%02d:%02d", hour, minute))
			}
		}
		slots[day.Format(rawDateLayout)] = times
	}
	return slots
}

// Validate checks a (dayOfWeek, "HH:MM") pair against the business-hour
// window using minutes-since-midnight comparisons.
func Validate(dayOfWeek, hhmm string) error {
	minutes, err := minutesOfDay(hhmm)
	if err != nil {
		return err
	}

	closeAt := weekdayCloseMinutes
	if strings.EqualFold(dayOfWeek, "sunday") {
		closeAt = sundayCloseMinutes
	}

	if minutes < openMinutes || minutes > closeAt {
		return &HoursError{DayOfWeek: strings.ToLower(dayOfWeek)}
	}
	return nil
}

// Validate checks the slot's time against its weekday window.
func (s Slot) Validate() error {
	return Validate(s.DayOfWeek, s.Time)
}

// StartTime resolves the slot to a wall-clock instant in loc.
func (s Slot) StartTime(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(rawDateLayout+" 15:04", s.RawDate+" "+s.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule: parse slot start: %w", err)
	}
	return t, nil
}

// InPast reports whether the slot starts before now.
func (s Slot) InPast(now time.Time) bool {
	start, err := s.StartTime(now.Location())
	if err != nil {
		return false
	}
	return start.Before(now)
}

func minutesOfDay(hhmm string) (int, error) {
	var hours, mins int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hours, &mins); err != nil {
		return 0, fmt.Errorf("schedule: parse time %q: %w", hhmm, err)
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("schedule: time %q out of range", hhmm)
	}
	return hours*60 + mins, nil
}

// FormatTime12 renders "HH:MM" as "H:MM AM/PM" for chat replies.
func FormatTime12(hhmm string) string {
	minutes, err := minutesOfDay(hhmm)
	if err != nil {
		return hhmm
	}
	hours := minutes / 60
	period := "AM"
	display := hours
	if hours >= 12 {
		period = "PM"
	}
	display = hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes%60, period)
}

// FormatDateLong renders "DD/MM/YYYY" as "Monday, January 2, 2006".
func FormatDateLong(rawDate string) string {
	t, err := time.Parse(rawDateLayout, rawDate)
	if err != nil {
		return rawDate
	}
	return t.Format("Monday, January 2, 2006")
}
