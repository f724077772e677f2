package chat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MessageKind discriminates the inbound payload variants the chat platform is
// observed to emit for the same logical input.
type MessageKind string

const (
	KindText      MessageKind = "text"
	KindSlot      MessageKind = "slot"
	KindSelection MessageKind = "selection"
)

// SlotSelection is the structured date-timeslot variant.
type SlotSelection struct {
	Date string `json:"date"` // DD/MM/YYYY
	Time string `json:"time"` // HH:MM, 24h
}

// Selection is a structured widget selection (dropdown, carousel action).
type Selection struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Message is the normalized inbound message: exactly one variant is set,
// resolved once at the boundary instead of shape checks scattered through the
// flow.
type Message struct {
	Kind      MessageKind
	Text      string
	Slot      *SlotSelection
	Selection *Selection
}

// InboundPayload is the webhook request body.
type InboundPayload struct {
	ConversationID string          `json:"conversation_id"`
	Message        json.RawMessage `json:"message"`
}

// DecodeMessage resolves the raw message into its tagged variant. A bare JSON
// string is free text; objects are dispatched on their "type" field.
func DecodeMessage(raw json.RawMessage) (Message, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return Message{Kind: KindText, Text: ""}, nil
	}

	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Message{}, fmt.Errorf("chat: decode text message: %w", err)
		}
		return Message{Kind: KindText, Text: text}, nil
	}

	var envelope struct {
		Type  string `json:"type"`
		Date  string `json:"date"`
		Time  string `json:"time"`
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Message{}, fmt.Errorf("chat: decode structured message: %w", err)
	}

	switch envelope.Type {
	case "date-timeslots":
		return Message{
			Kind: KindSlot,
			Slot: &SlotSelection{Date: envelope.Date, Time: envelope.Time},
		}, nil
	case "selection", "form-field":
		return Message{
			Kind:      KindSelection,
			Selection: &Selection{Name: envelope.Name, Value: envelope.Value},
		}, nil
	default:
		return Message{}, fmt.Errorf("chat: unknown message type %q", envelope.Type)
	}
}

// IsCommand reports whether the message is the given quick-reply command.
// Selections carry the command in their value; free text carries it verbatim.
func (m Message) IsCommand(cmd string) bool {
	switch m.Kind {
	case KindText:
		return strings.EqualFold(strings.TrimSpace(m.Text), cmd)
	case KindSelection:
		return strings.EqualFold(strings.TrimSpace(m.Selection.Value), cmd)
	}
	return false
}

// TextValue returns the user-entered value regardless of variant.
func (m Message) TextValue() string {
	switch m.Kind {
	case KindText:
		return m.Text
	case KindSelection:
		return m.Selection.Value
	}
	return ""
}
