package chat

import (
	"encoding/json"
	"fmt"
)

// Event vocabulary of the realtime channel. Client-to-server events bind the
// connection, relay messages/typing hints and pull the roster; server-to-client
// events are the three delivery families plus presence.
const (
	// client -> server
	EvtRegister       = "register"
	EvtSendMessage    = "send-message"
	EvtTyping         = "typing"
	EvtGetOnlineUsers = "get-online-users"
	EvtPing           = "ping"

	// server -> client
	EvtOnlineUsers     = "online-users"
	EvtReceiveMessage  = "receive-message"
	EvtNewMessageAlert = "new-message-alert"
	EvtNewNotification = "new-notification"
	EvtPong            = "pong"
)

// Frame is the envelope on the wire: a type tag plus a loosely typed payload.
type Frame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func ParseFrame(raw []byte) (*Frame, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	if f.Type == "" {
		return nil, fmt.Errorf("frame missing type")
	}
	return &f, nil
}

// marshalEvent builds an outbound frame. Marshal failures return nil, which
// enqueue paths treat as a drop; payloads are our own types, so a failure
// here is a programming error, not a runtime condition.
func marshalEvent(typ string, data any) []byte {
	payload, err := json.Marshal(struct {
		Type string `json:"type"`
		Data any    `json:"data,omitempty"`
	}{Type: typ, Data: data})
	if err != nil {
		return nil
	}
	return payload
}

type registerPayload struct {
	UserID string `json:"userId"`
}

type typingPayload struct {
	ReceiverID string `json:"receiverId"`
	SenderID   string `json:"senderId"`
}

type sendMessagePayload struct {
	ReceiverID string         `json:"receiverId"`
	Message    map[string]any `json:"message"`
}
