package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoBlobCollection = "app_data"

type mongoBlobDoc struct {
	Key       string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoBlob keeps the snapshot as one document whose _id is the store key.
type MongoBlob struct {
	Collection *mongo.Collection
	Key        string
	client     *mongo.Client
}

// NewMongoBlob connects, pings and binds to database.app_data.
func NewMongoBlob(uri, database, key string) (*MongoBlob, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoBlob{
		Collection: client.Database(database).Collection(mongoBlobCollection),
		Key:        key,
		client:     client,
	}, nil
}

func (m *MongoBlob) Load(ctx context.Context) ([]byte, error) {
	var doc mongoBlobDoc
	err := m.Collection.FindOne(ctx, bson.M{"_id": m.Key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", m.Key, err)
	}
	return []byte(doc.Data), nil
}

func (m *MongoBlob) Save(ctx context.Context, data []byte) error {
	doc := mongoBlobDoc{Key: m.Key, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err := m.Collection.ReplaceOne(ctx, bson.M{"_id": m.Key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace %s: %w", m.Key, err)
	}
	return nil
}

func (m *MongoBlob) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
