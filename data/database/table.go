package database

import "go.mongodb.org/mongo-driver/mongo"

// Table is implemented by every persisted model; the collection name lives
// with the model, not the store.
type Table interface {
	GetTableName() string
}

// Collection resolves a model's collection on the given database.
func Collection(db *mongo.Database, t Table) *mongo.Collection {
	return db.Collection(t.GetTableName())
}
