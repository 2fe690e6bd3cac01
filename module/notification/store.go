package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DevConnect/data/database"
	"DevConnect/module/notification/model"
	"DevConnect/tools/errs"
)

type Store interface {
	Insert(ctx context.Context, n *model.Notification) error
	ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error)
	MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: database.Collection(db, model.Notification{})}
}

func (s *mongoStore) Insert(ctx context.Context, n *model.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreateTime.IsZero() {
		n.CreateTime = time.Now()
	}
	if _, err := s.coll.InsertOne(ctx, n); err != nil {
		return errs.WrapMsg(err, "insert notification")
	}
	return nil
}

func (s *mongoStore) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]*model.Notification, error) {
	cur, err := s.coll.Find(ctx,
		bson.M{"recipient_id": recipientID},
		options.Find().SetSort(bson.D{{Key: "create_time", Value: -1}}),
	)
	if err != nil {
		return nil, errs.WrapMsg(err, "find notifications")
	}
	defer cur.Close(ctx)

	var out []*model.Notification
	for cur.Next(ctx) {
		var n model.Notification
		if err := cur.Decode(&n); err != nil {
			return nil, errs.WrapMsg(err, "decode notification")
		}
		cp := n
		out = append(out, &cp)
	}
	return out, cur.Err()
}

func (s *mongoStore) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) error {
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"recipient_id": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return errs.WrapMsg(err, "mark notifications read")
	}
	return nil
}
