package user

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DevConnect/data/database"
	"DevConnect/data/database/mgo/mongoutil"
	"DevConnect/module/user/model"
	"DevConnect/tools/errs"
)

// Store is the persistence seam for accounts. Implementations return code
// errors from tools/errs so the service layer never inspects driver errors.
type Store interface {
	Insert(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByHandle(ctx context.Context, handle string) (*model.User, error)
	GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error)
	// SetFollow adds (follow=true) or removes (follow=false) the edge on both
	// sides, keeping follower/following sets symmetric.
	SetFollow(ctx context.Context, followerID, targetID primitive.ObjectID, follow bool) error
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: database.Collection(db, model.User{})}
}

func (s *mongoStore) Insert(ctx context.Context, u *model.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	now := time.Now()
	u.CreateTime = now
	u.UpdateTime = now
	_, err := s.coll.InsertOne(ctx, u)
	if err != nil {
		if mongoutil.IsDup(err) {
			return errs.Conflict("handle or email already taken")
		}
		return errs.WrapMsg(err, "insert user")
	}
	return nil
}

func (s *mongoStore) getOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("user not found")
	}
	if err != nil {
		return nil, errs.WrapMsg(err, "find user")
	}
	return &u, nil
}

func (s *mongoStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return s.getOne(ctx, bson.M{"_id": id})
}

func (s *mongoStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getOne(ctx, bson.M{"email": email})
}

func (s *mongoStore) GetByHandle(ctx context.Context, handle string) (*model.User, error) {
	return s.getOne(ctx, bson.M{"handle": handle})
}

func (s *mongoStore) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.User, error) {
	out := make(map[primitive.ObjectID]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errs.WrapMsg(err, "find users")
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u model.User
		if err := cur.Decode(&u); err != nil {
			return nil, errs.WrapMsg(err, "decode user")
		}
		cp := u
		out[u.ID] = &cp
	}
	return out, cur.Err()
}

func (s *mongoStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd model.ProfileUpdate) (*model.User, error) {
	set := bson.M{"update_time": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.AvatarURL != nil {
		set["avatar_url"] = *upd.AvatarURL
	}
	if upd.GithubURL != nil {
		set["github_url"] = *upd.GithubURL
	}
	if upd.LinkedinURL != nil {
		set["linkedin_url"] = *upd.LinkedinURL
	}
	if upd.Skills != nil {
		set["skills"] = upd.Skills
	}

	after := options.After
	var u model.User
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("user not found")
	}
	if err != nil {
		return nil, errs.WrapMsg(err, "update profile")
	}
	return &u, nil
}

func (s *mongoStore) SetFollow(ctx context.Context, followerID, targetID primitive.ObjectID, follow bool) error {
	op := "$pull"
	if follow {
		op = "$addToSet"
	}
	if _, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{op: bson.M{"following_ids": targetID}},
	); err != nil {
		return errs.WrapMsg(err, "update following set")
	}
	if _, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{op: bson.M{"follower_ids": followerID}},
	); err != nil {
		return errs.WrapMsg(err, "update follower set")
	}
	return nil
}
