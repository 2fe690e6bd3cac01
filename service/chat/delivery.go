package chat

// MessageAlert is the lightweight badge-update event pushed alongside a full
// message delivery. It carries just enough for a client that does not have
// the conversation open: who wrote, where, and a short preview.
type MessageAlert struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	SenderHandle   string `json:"senderHandle"`
	Preview        string `json:"preview"`
}

// Delivery is the fire-and-forget push seam the REST services call into.
// No method reports delivery failure: an absent or stalled recipient is
// expected and compensated by REST pull, never surfaced to the sender.
type Delivery interface {
	// DeliverMessage pushes the fully resolved message to the receiver's open
	// chat window, if the receiver is present.
	DeliverMessage(receiverID string, message any)
	// DeliverAlert pushes the unread-badge nudge. Kept separate from
	// DeliverMessage on purpose: a client may listen to one without the other.
	DeliverAlert(receiverID string, alert MessageAlert)
	// DeliverNotification pushes a persisted notification record.
	DeliverNotification(recipientID string, notification any)
}

// NopDelivery satisfies Delivery and drops everything. Used in tests and
// during boot before the gateway is up.
type NopDelivery struct{}

func (NopDelivery) DeliverMessage(string, any)          {}
func (NopDelivery) DeliverAlert(string, MessageAlert)   {}
func (NopDelivery) DeliverNotification(string, any)     {}
