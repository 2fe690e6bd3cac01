package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account master record: credentials, profile fields and the two
// follow edge sets. The symmetric invariant (A in B.followers iff B in
// A.following) is maintained by updating both documents in SetFollow.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Handle       string             `bson:"handle" json:"handle"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`

	Bio         string   `bson:"bio,omitempty" json:"bio"`
	AvatarURL   string   `bson:"avatar_url,omitempty" json:"avatar"`
	GithubURL   string   `bson:"github_url,omitempty" json:"github"`
	LinkedinURL string   `bson:"linkedin_url,omitempty" json:"linkedin"`
	Skills      []string `bson:"skills,omitempty" json:"skills"`

	FollowerIDs  []primitive.ObjectID `bson:"follower_ids,omitempty" json:"-"`
	FollowingIDs []primitive.ObjectID `bson:"following_ids,omitempty" json:"-"`

	CreateTime time.Time `bson:"create_time" json:"createdAt"`
	UpdateTime time.Time `bson:"update_time" json:"updatedAt"`
}

func (User) GetTableName() string { return "users" }

// Summary is the public subset embedded in posts, messages and notifications.
type Summary struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (u *User) Summary() Summary {
	return Summary{
		ID:     u.ID.Hex(),
		Handle: u.Handle,
		Name:   u.Name,
		Avatar: u.AvatarURL,
	}
}

func (u *User) Follows(id primitive.ObjectID) bool {
	for _, f := range u.FollowingIDs {
		if f == id {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the mutable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Name        *string
	Bio         *string
	AvatarURL   *string
	GithubURL   *string
	LinkedinURL *string
	Skills      []string
}
