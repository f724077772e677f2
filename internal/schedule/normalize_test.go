package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStructured(t *testing.T) {
	slot, err := NormalizeStructured("30/08/2026", "16:30")
	require.NoError(t, err)
	assert.Equal(t, "sunday", slot.DayOfWeek)
	assert.Equal(t, "16:30", slot.Time)
	assert.Equal(t, "30/08/2026", slot.RawDate)
}

func TestNormalizeStructuredRejectsBadInput(t *testing.T) {
	_, err := NormalizeStructured("2026-08-30", "16:30")
	assert.Error(t, err)

	_, err = NormalizeStructured("30/08/2026", "half past four")
	assert.Error(t, err)
}

func TestParseText(t *testing.T) {
	tests := []struct {
		text string
		want Slot
	}{
		{
			"Sunday, August 30, 2026 at 4:30 PM",
			Slot{DayOfWeek: "sunday", Time: "16:30", RawDate: "30/08/2026"},
		},
		{
			"Monday, August 24, 2026 at 6:00 AM",
			Slot{DayOfWeek: "monday", Time: "06:00", RawDate: "24/08/2026"},
		},
		{
			"Tuesday, December 1, 2026 at 12:00 PM",
			Slot{DayOfWeek: "tuesday", Time: "12:00", RawDate: "01/12/2026"},
		},
		{
			"Wednesday, December 2, 2026 at 12:30 AM",
			Slot{DayOfWeek: "wednesday", Time: "00:30", RawDate: "02/12/2026"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			slot, err := ParseText(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slot)
		})
	}
}

// Both wire shapes must resolve to the same canonical slot.
func TestNormalizeShapesAgree(t *testing.T) {
	fromText, err := ParseText("Sunday, August 30, 2026 at 4:30 PM")
	require.NoError(t, err)

	fromStruct, err := NormalizeStructured("30/08/2026", "16:30")
	require.NoError(t, err)

	assert.Equal(t, fromStruct, fromText)
}

func TestParseTextRejectsGarbage(t *testing.T) {
	for _, text := range []string{
		"next tuesday maybe",
		"Sunday, Augtember 30, 2026 at 4:30 PM",
		"Monday, February 31, 2026 at 4:30 PM",
	} {
		_, err := ParseText(text)
		assert.Error(t, err, "expected rejection of %q", text)
	}
}

func TestLooksLikeSlotText(t *testing.T) {
	assert.True(t, LooksLikeSlotText("Sunday, August 30, 2026 at 4:30 PM"))
	assert.True(t, LooksLikeSlotText("Sun Aug 30 2026 16:30:00 GMT+0530"))
	assert.False(t, LooksLikeSlotText("hello"))
}
