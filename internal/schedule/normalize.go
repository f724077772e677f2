package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// textSlotPattern matches the human-readable slot the chat platform emits,
// e.g. "Sunday, August 24, 2026 at 4:30 PM".
var textSlotPattern = regexp.MustCompile(`(\w+), (\w+) (\d+), (\d+) at (\d+):(\d+) ([AP]M)`)

var monthNumbers = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// NormalizeStructured canonicalizes the structured {date, time} wire shape.
// The date is "DD/MM/YYYY" and the time 24h "HH:MM".
func NormalizeStructured(rawDate, hhmm string) (Slot, error) {
	date, err := time.Parse(rawDateLayout, strings.TrimSpace(rawDate))
	if err != nil {
		return Slot{}, fmt.Errorf("schedule: parse structured date %q: %w", rawDate, err)
	}
	if _, err := minutesOfDay(hhmm); err != nil {
		return Slot{}, err
	}
	return Slot{
		DayOfWeek: strings.ToLower(date.Weekday().String()),
		Time:      strings.TrimSpace(hhmm),
		RawDate:   date.Format(rawDateLayout),
	}, nil
}

// ParseText canonicalizes the human-readable wire shape. Both shapes resolve
// to the same Slot so validation never branches on the origin format.
func ParseText(text string) (Slot, error) {
	m := textSlotPattern.FindStringSubmatch(text)
	if m == nil {
		return Slot{}, fmt.Errorf("schedule: unrecognized slot text %q", text)
	}

	month, ok := monthNumbers[m[2]]
	if !ok {
		return Slot{}, fmt.Errorf("schedule: unknown month %q", m[2])
	}
	day, _ := strconv.Atoi(m[3])
	year, _ := strconv.Atoi(m[4])
	hour, _ := strconv.Atoi(m[5])
	minute, _ := strconv.Atoi(m[6])

	if m[7] == "PM" && hour != 12 {
		hour += 12
	} else if m[7] == "AM" && hour == 12 {
		hour = 0
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || int(date.Month()) != month {
		return Slot{}, fmt.Errorf("schedule: invalid calendar date in %q", text)
	}

	return Slot{
		DayOfWeek: strings.ToLower(date.Weekday().String()),
		Time:      fmt.Sprintf("%02d:%02d", hour, minute),
		RawDate:   date.Format(rawDateLayout),
	}, nil
}

// LooksLikeSlotText reports whether free text plausibly carries a slot
// selection, used to decide between parsing and re-prompting.
func LooksLikeSlotText(text string) bool {
	return strings.Contains(text, " at ") || strings.Contains(text, "GMT")
}
