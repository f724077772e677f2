package chat

// Option is a dropdown choice.
type Option struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Input describes the widget the client should render for the next user
// entry. Only the fields relevant to the chosen type are populated.
type Input struct {
	Type        string              `json:"type"`
	Name        string              `json:"name,omitempty"`
	Label       string              `json:"label,omitempty"`
	Placeholder string              `json:"placeholder,omitempty"`
	Mandatory   bool                `json:"mandatory,omitempty"`
	Error       []string            `json:"error,omitempty"`
	Options     []Option            `json:"options,omitempty"`
	Slots       map[string][]string `json:"slots,omitempty"`
	TimeZoneID  string              `json:"time_zone_id,omitempty"`
}

// Reply is the outbound webhook response payload.
type Reply struct {
	Action      string   `json:"action"`
	Replies     []string `json:"replies"`
	Suggestions []string `json:"suggestions,omitempty"`
	Input       *Input   `json:"input,omitempty"`
}

// NewReply builds a reply payload from one or more messages.
func NewReply(messages ...string) *Reply {
	return &Reply{Action: "reply", Replies: messages}
}

// WithSuggestions sets the quick-reply suggestions.
func (r *Reply) WithSuggestions(suggestions ...string) *Reply {
	r.Suggestions = suggestions
	return r
}

// WithInput attaches an input widget descriptor.
func (r *Reply) WithInput(input *Input) *Reply {
	r.Input = input
	return r
}
