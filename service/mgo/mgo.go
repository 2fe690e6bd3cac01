package mgo

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"DevConnect/data/database/mgo/mongoutil"
)

var (
	mu sync.RWMutex
	db *mongo.Database
)

// Init connects to MongoDB and stores the database handle for the process.
func Init(ctx context.Context, cfg *mongoutil.Config) error {
	database, err := mongoutil.NewMongoDB(ctx, cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	db = database
	mu.Unlock()
	return nil
}

func GetDB() *mongo.Database {
	mu.RLock()
	defer mu.RUnlock()
	if db == nil {
		panic("mongo not initialized, call mgo.Init first")
	}
	return db
}

// EnsureIndexes creates the indexes the stores rely on. The unique pair_key
// index on conversations is load-bearing: it is what makes concurrent
// first-contact sends converge on a single conversation.
func EnsureIndexes(ctx context.Context) error {
	database := GetDB()

	users := database.Collection("users")
	if _, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "handle", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}); err != nil {
		return err
	}

	convs := database.Collection("conversations")
	if _, err := convs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	msgs := database.Collection("messages")
	if _, err := msgs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "create_time", Value: 1}},
	}); err != nil {
		return err
	}

	posts := database.Collection("posts")
	if _, err := posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "create_time", Value: -1}},
	}); err != nil {
		return err
	}

	notifs := database.Collection("notifications")
	_, err := notifs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "create_time", Value: -1}},
	})
	return err
}
