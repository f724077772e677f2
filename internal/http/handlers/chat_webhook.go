// Package handlers contains the HTTP handlers for the chat-widget webhook
// surface.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pulsefit/gymchat/internal/booking"
	"github.com/pulsefit/gymchat/internal/chat"
	"github.com/pulsefit/gymchat/pkg/logging"
)

// ChatWebhookHandler receives inbound chat-widget messages and runs them
// through the booking engine.
type ChatWebhookHandler struct {
	engine *booking.Engine
	logger *logging.Logger
}

// NewChatWebhookHandler creates the webhook handler.
func NewChatWebhookHandler(engine *booking.Engine, logger *logging.Logger) *ChatWebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatWebhookHandler{engine: engine, logger: logger}
}

// Handle processes POST /webhooks/chat requests. Malformed message variants
// get a corrective reply rather than an error status: the widget renders
// whatever reply payload comes back, so a 200 with guidance is the only
// user-visible recovery path.
func (h *ChatWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var payload chat.InboundPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Error("failed to decode webhook payload", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if payload.ConversationID == "" {
		http.Error(w, "missing conversation_id", http.StatusBadRequest)
		return
	}

	msg, err := chat.DecodeMessage(payload.Message)
	if err != nil {
		h.logger.Warn("unrecognized message shape",
			"error", err,
			"conversation_id", payload.ConversationID,
		)
		writeReply(w, chat.NewReply("Sorry, that message could not be understood. Please try again."))
		return
	}

	reply := h.engine.Handle(r.Context(), payload.ConversationID, msg)
	writeReply(w, reply)
}

// HealthCheck reports liveness for load balancers.
func (h *ChatWebhookHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeReply(w http.ResponseWriter, reply *chat.Reply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(reply)
}
