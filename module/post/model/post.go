package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment lives embedded in its post, in insertion order.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"-"`
	Text       string             `bson:"text" json:"text"`
	CreateTime time.Time          `bson:"create_time" json:"createdAt"`
}

// Post holds the feed entry: author, text, optional image, the liker set and
// the embedded comment list.
type Post struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID primitive.ObjectID   `bson:"author_id" json:"-"`
	Text     string               `bson:"text" json:"text"`
	ImageURL string               `bson:"image_url,omitempty" json:"image,omitempty"`
	LikeIDs  []primitive.ObjectID `bson:"like_ids,omitempty" json:"-"`
	Comments []Comment            `bson:"comments,omitempty" json:"-"`

	CreateTime time.Time `bson:"create_time" json:"createdAt"`
	UpdateTime time.Time `bson:"update_time" json:"updatedAt"`
}

func (Post) GetTableName() string { return "posts" }

func (p *Post) LikedBy(id primitive.ObjectID) bool {
	for _, l := range p.LikeIDs {
		if l == id {
			return true
		}
	}
	return false
}
