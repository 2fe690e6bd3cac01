package message

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DevConnect/data/database"
	"DevConnect/data/database/mgo/mongoutil"
	"DevConnect/module/message/model"
	"DevConnect/tools/errs"
)

// Store is the persistence seam for conversations and messages.
// FindOrCreateConversation must be atomic with respect to the one-conversation
// -per-pair invariant; the Mongo implementation leans on the unique pair_key
// index rather than a racy read-then-write check.
type Store interface {
	FindOrCreateConversation(ctx context.Context, a, b primitive.ObjectID) (conv *model.Conversation, created bool, err error)
	GetConversation(ctx context.Context, id primitive.ObjectID) (*model.Conversation, error)
	ListConversations(ctx context.Context, userID primitive.ObjectID) ([]*model.Conversation, error)
	// DeleteEmptyConversation is the compensating cleanup for a failed first
	// message: it only removes a conversation that still has no last message.
	DeleteEmptyConversation(ctx context.Context, id primitive.ObjectID) error
	SetLastMessage(ctx context.Context, convID, msgID primitive.ObjectID, at time.Time) error

	InsertMessage(ctx context.Context, m *model.Message) error
	ListMessages(ctx context.Context, convID primitive.ObjectID) ([]*model.Message, error)
	GetMessagesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Message, error)
	// MarkRead flips read on every unread message in the conversation whose
	// sender is not the reader, returning how many were flipped.
	MarkRead(ctx context.Context, convID, readerID primitive.ObjectID) (int64, error)
	CountUnread(ctx context.Context, convID, userID primitive.ObjectID) (int64, error)
}

type mongoStore struct {
	convColl *mongo.Collection
	msgColl  *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{
		convColl: database.Collection(db, model.Conversation{}),
		msgColl:  database.Collection(db, model.Message{}),
	}
}

func (s *mongoStore) FindOrCreateConversation(ctx context.Context, a, b primitive.ObjectID) (*model.Conversation, bool, error) {
	key := model.PairKey(a, b)
	now := time.Now()

	res, err := s.convColl.UpdateOne(ctx,
		bson.M{"pair_key": key},
		bson.M{"$setOnInsert": bson.M{
			"_id":             primitive.NewObjectID(),
			"pair_key":        key,
			"participant_ids": model.SortedPair(a, b),
			"create_time":     now,
			"update_time":     now,
		}},
		options.Update().SetUpsert(true),
	)
	created := false
	switch {
	case err == nil:
		created = res.UpsertedCount == 1
	case mongoutil.IsDup(err):
		// Lost the upsert race to the concurrent first-contact send from the
		// other side; the winner's document is the one to use.
	default:
		return nil, false, errs.WrapMsg(err, "upsert conversation")
	}

	var conv model.Conversation
	if err := s.convColl.FindOne(ctx, bson.M{"pair_key": key}).Decode(&conv); err != nil {
		return nil, false, errs.WrapMsg(err, "load upserted conversation")
	}
	return &conv, created, nil
}

func (s *mongoStore) GetConversation(ctx context.Context, id primitive.ObjectID) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.convColl.FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("conversation not found")
	}
	if err != nil {
		return nil, errs.WrapMsg(err, "find conversation")
	}
	return &conv, nil
}

func (s *mongoStore) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]*model.Conversation, error) {
	cur, err := s.convColl.Find(ctx,
		bson.M{"participant_ids": userID},
		options.Find().SetSort(bson.D{{Key: "update_time", Value: -1}}),
	)
	if err != nil {
		return nil, errs.WrapMsg(err, "find conversations")
	}
	defer cur.Close(ctx)

	var out []*model.Conversation
	for cur.Next(ctx) {
		var c model.Conversation
		if err := cur.Decode(&c); err != nil {
			return nil, errs.WrapMsg(err, "decode conversation")
		}
		cp := c
		out = append(out, &cp)
	}
	return out, cur.Err()
}

func (s *mongoStore) DeleteEmptyConversation(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.convColl.DeleteOne(ctx, bson.M{
		"_id":             id,
		"last_message_id": bson.M{"$exists": false},
	})
	if err != nil {
		return errs.WrapMsg(err, "delete empty conversation")
	}
	return nil
}

func (s *mongoStore) SetLastMessage(ctx context.Context, convID, msgID primitive.ObjectID, at time.Time) error {
	_, err := s.convColl.UpdateOne(ctx,
		bson.M{"_id": convID},
		bson.M{"$set": bson.M{"last_message_id": msgID, "update_time": at}},
	)
	if err != nil {
		return errs.WrapMsg(err, "set last message")
	}
	return nil
}

func (s *mongoStore) InsertMessage(ctx context.Context, m *model.Message) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreateTime.IsZero() {
		m.CreateTime = time.Now()
	}
	if _, err := s.msgColl.InsertOne(ctx, m); err != nil {
		return errs.WrapMsg(err, "insert message")
	}
	return nil
}

func (s *mongoStore) ListMessages(ctx context.Context, convID primitive.ObjectID) ([]*model.Message, error) {
	cur, err := s.msgColl.Find(ctx,
		bson.M{"conversation_id": convID},
		options.Find().SetSort(bson.D{{Key: "create_time", Value: 1}}),
	)
	if err != nil {
		return nil, errs.WrapMsg(err, "find messages")
	}
	defer cur.Close(ctx)

	var out []*model.Message
	for cur.Next(ctx) {
		var m model.Message
		if err := cur.Decode(&m); err != nil {
			return nil, errs.WrapMsg(err, "decode message")
		}
		cp := m
		out = append(out, &cp)
	}
	return out, cur.Err()
}

func (s *mongoStore) GetMessagesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Message, error) {
	out := make(map[primitive.ObjectID]*model.Message, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.msgColl.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errs.WrapMsg(err, "find messages by ids")
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var m model.Message
		if err := cur.Decode(&m); err != nil {
			return nil, errs.WrapMsg(err, "decode message")
		}
		cp := m
		out[m.ID] = &cp
	}
	return out, cur.Err()
}

func (s *mongoStore) MarkRead(ctx context.Context, convID, readerID primitive.ObjectID) (int64, error) {
	res, err := s.msgColl.UpdateMany(ctx,
		bson.M{
			"conversation_id": convID,
			"sender_id":       bson.M{"$ne": readerID},
			"read":            false,
		},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, errs.WrapMsg(err, "mark messages read")
	}
	return res.ModifiedCount, nil
}

func (s *mongoStore) CountUnread(ctx context.Context, convID, userID primitive.ObjectID) (int64, error) {
	n, err := s.msgColl.CountDocuments(ctx, bson.M{
		"conversation_id": convID,
		"sender_id":       bson.M{"$ne": userID},
		"read":            false,
	})
	if err != nil {
		return 0, errs.WrapMsg(err, "count unread")
	}
	return n, nil
}
