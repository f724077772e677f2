package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessageText(t *testing.T) {
	msg, err := DecodeMessage(json.RawMessage(`"Book Free Trial"`))
	require.NoError(t, err)
	assert.Equal(t, KindText, msg.Kind)
	assert.Equal(t, "Book Free Trial", msg.Text)
}

func TestDecodeMessageSlot(t *testing.T) {
	raw := json.RawMessage(`{"type":"date-timeslots","date":"24/08/2026","time":"07:30"}`)
	msg, err := DecodeMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, KindSlot, msg.Kind)
	require.NotNil(t, msg.Slot)
	assert.Equal(t, "24/08/2026", msg.Slot.Date)
	assert.Equal(t, "07:30", msg.Slot.Time)
}

func TestDecodeMessageSelection(t *testing.T) {
	raw := json.RawMessage(`{"type":"selection","name":"trainer","value":"Ravi Kumar - Strength"}`)
	msg, err := DecodeMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, KindSelection, msg.Kind)
	assert.Equal(t, "trainer", msg.Selection.Name)
	assert.Equal(t, "Ravi Kumar - Strength", msg.Selection.Value)
}

func TestDecodeMessageEmptyAndNull(t *testing.T) {
	for _, raw := range []string{"", "null"} {
		msg, err := DecodeMessage(json.RawMessage(raw))
		require.NoError(t, err)
		assert.Equal(t, KindText, msg.Kind)
		assert.Empty(t, msg.Text)
	}
}

func TestDecodeMessageUnknownType(t *testing.T) {
	_, err := DecodeMessage(json.RawMessage(`{"type":"carousel"}`))
	assert.Error(t, err)
}

func TestIsCommand(t *testing.T) {
	text := Message{Kind: KindText, Text: "  confirm "}
	assert.True(t, text.IsCommand("Confirm"))
	assert.False(t, text.IsCommand("Cancel"))

	sel := Message{Kind: KindSelection, Selection: &Selection{Value: "Yes"}}
	assert.True(t, sel.IsCommand("yes"))

	slot := Message{Kind: KindSlot, Slot: &SlotSelection{}}
	assert.False(t, slot.IsCommand("yes"))
}

func TestReplyBuilder(t *testing.T) {
	r := NewReply("hello").
		WithSuggestions("Yes", "No").
		WithInput(&Input{Type: "email", Placeholder: "you@example.com"})

	assert.Equal(t, "reply", r.Action)
	assert.Equal(t, []string{"hello"}, r.Replies)
	assert.Len(t, r.Suggestions, 2)
	require.NotNil(t, r.Input)
	assert.Equal(t, "email", r.Input.Type)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"action":"reply"`)
}
