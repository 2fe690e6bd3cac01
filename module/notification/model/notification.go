package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodel "DevConnect/module/user/model"
)

const (
	TypeFollow  = "follow"
	TypeLike    = "like"
	TypeComment = "comment"

	// TypeMessage stays in the wire vocabulary for clients, but message
	// notifications are never persisted: unread state for messages is derived
	// from Message.read, and the realtime message-alert is a pure UI nudge.
	TypeMessage = "message"
)

// Notification is a persisted fan-out record for follow/like/comment actions.
// The sender profile is denormalized as a snapshot so listing needs no join.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"-"`
	Sender      usermodel.Summary  `bson:"sender" json:"sender"`
	Type        string             `bson:"type" json:"type"`
	PostID      string             `bson:"post_id,omitempty" json:"postId,omitempty"`
	PostImage   string             `bson:"post_image,omitempty" json:"postImage,omitempty"`
	Read        bool               `bson:"read" json:"read"`
	CreateTime  time.Time          `bson:"create_time" json:"createdAt"`
}

func (Notification) GetTableName() string { return "notifications" }
