package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/fitprogram/internal/repository"
)

const kvCollectionName = "kv"

// kvDocument is one stored key. Value holds the raw JSON as a string so the
// document stays readable in the shell.
type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoKVStore implements repository.KVStore
type mongoKVStore struct {
	collection *mongo.Collection
}

// NewMongoKVStore creates a KV store backed by the "kv" collection.
func NewMongoKVStore(db *mongo.Database) repository.KVStore {
	return &mongoKVStore{
		collection: db.Collection(kvCollectionName),
	}
}

func (r *mongoKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc kvDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return []byte(doc.Value), nil
}

// Set upserts the document for key.
func (r *mongoKVStore) Set(ctx context.Context, key string, value []byte) error {
	doc := kvDocument{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *mongoKVStore) Delete(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}
