package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message belongs to exactly one conversation. The read flag transitions only
// from false to true, only for messages whose sender is not the reader.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"-"`
	SenderID       primitive.ObjectID `bson:"sender_id" json:"-"`
	Text           string             `bson:"text" json:"text"`
	Read           bool               `bson:"read" json:"read"`
	CreateTime     time.Time          `bson:"create_time" json:"createdAt"`
}

func (Message) GetTableName() string { return "messages" }
