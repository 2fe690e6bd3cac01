package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation is the unique two-party container for an exchange of messages.
// PairKey is the normalized (sorted) participant pair; the unique index on it
// is what guarantees at most one conversation per pair under concurrent
// first-contact sends.
type Conversation struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PairKey        string               `bson:"pair_key" json:"-"`
	ParticipantIDs []primitive.ObjectID `bson:"participant_ids" json:"-"`
	LastMessageID  *primitive.ObjectID  `bson:"last_message_id,omitempty" json:"-"`

	CreateTime time.Time `bson:"create_time" json:"createdAt"`
	UpdateTime time.Time `bson:"update_time" json:"updatedAt"`
}

func (Conversation) GetTableName() string { return "conversations" }

// PairKey normalizes an unordered participant pair into the unique lookup key.
func PairKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

// SortedPair returns the pair in key order, matching PairKey.
func SortedPair(a, b primitive.ObjectID) []primitive.ObjectID {
	if a.Hex() > b.Hex() {
		a, b = b, a
	}
	return []primitive.ObjectID{a, b}
}

func (c *Conversation) HasParticipant(id primitive.ObjectID) bool {
	for _, p := range c.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}

// Other returns the counterpart of id in the pair. Self-conversations return
// id itself.
func (c *Conversation) Other(id primitive.ObjectID) primitive.ObjectID {
	for _, p := range c.ParticipantIDs {
		if p != id {
			return p
		}
	}
	return id
}
