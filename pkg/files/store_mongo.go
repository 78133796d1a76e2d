package files

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on top of a MongoDB collection, one document
// per file.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

const mongoCloseTimeout = 5 * time.Second

type fileDocument struct {
	ID       string    `bson:"_id"`
	Name     string    `bson:"name"`
	MimeType string    `bson:"mime_type"`
	Data     []byte    `bson:"data"`
	Created  time.Time `bson:"created_at"`
}

// NewMongoStore connects to MongoDB and returns a Mongo-backed Store.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database name is required")
	}
	if collection == "" {
		return nil, errors.New("mongo collection name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (ms *MongoStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	var doc fileDocument
	err := ms.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", fmt.Errorf("%q: %w", id, ErrNotFound)
		}
		return nil, "", fmt.Errorf("query file %q: %w", id, err)
	}
	return doc.Data, doc.MimeType, nil
}

// Put inserts or replaces a file document.
func (ms *MongoStore) Put(ctx context.Context, id, name, mime string, data []byte) error {
	doc := fileDocument{ID: id, Name: name, MimeType: mime, Data: data, Created: time.Now().UTC()}
	_, err := ms.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

// Close disconnects from MongoDB.
func (ms *MongoStore) Close() error {
	if ms == nil || ms.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return ms.client.Disconnect(ctx)
}
