package post

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DevConnect/data/database"
	"DevConnect/module/post/model"
	"DevConnect/tools/errs"
)

type Store interface {
	Insert(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	// Feed returns all posts newest-first.
	Feed(ctx context.Context) ([]*model.Post, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*model.Post, error)
	SetLike(ctx context.Context, postID, userID primitive.ObjectID, like bool) error
	AddComment(ctx context.Context, postID primitive.ObjectID, c model.Comment) error
	Delete(ctx context.Context, postID primitive.ObjectID) error
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: database.Collection(db, model.Post{})}
}

func (s *mongoStore) Insert(ctx context.Context, p *model.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	p.CreateTime = now
	p.UpdateTime = now
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return errs.WrapMsg(err, "insert post")
	}
	return nil
}

func (s *mongoStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var p model.Post
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("post not found")
	}
	if err != nil {
		return nil, errs.WrapMsg(err, "find post")
	}
	return &p, nil
}

func (s *mongoStore) list(ctx context.Context, filter bson.M) ([]*model.Post, error) {
	cur, err := s.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "create_time", Value: -1}}),
	)
	if err != nil {
		return nil, errs.WrapMsg(err, "find posts")
	}
	defer cur.Close(ctx)

	var out []*model.Post
	for cur.Next(ctx) {
		var p model.Post
		if err := cur.Decode(&p); err != nil {
			return nil, errs.WrapMsg(err, "decode post")
		}
		cp := p
		out = append(out, &cp)
	}
	return out, cur.Err()
}

func (s *mongoStore) Feed(ctx context.Context) ([]*model.Post, error) {
	return s.list(ctx, bson.M{})
}

func (s *mongoStore) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*model.Post, error) {
	return s.list(ctx, bson.M{"author_id": authorID})
}

func (s *mongoStore) SetLike(ctx context.Context, postID, userID primitive.ObjectID, like bool) error {
	op := "$pull"
	if like {
		op = "$addToSet"
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{op: bson.M{"like_ids": userID}},
	)
	if err != nil {
		return errs.WrapMsg(err, "update like set")
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("post not found")
	}
	return nil
}

func (s *mongoStore) AddComment(ctx context.Context, postID primitive.ObjectID, c model.Comment) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"comments": c},
			"$set":  bson.M{"update_time": time.Now()},
		},
	)
	if err != nil {
		return errs.WrapMsg(err, "push comment")
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("post not found")
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, postID primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return errs.WrapMsg(err, "delete post")
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("post not found")
	}
	return nil
}
