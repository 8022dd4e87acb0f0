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

// MongoConfig configures the MongoDB map store.
type MongoConfig struct {
	URI        string `toml:"uri" json:"uri"`
	Database   string `toml:"database" json:"database"`
	Collection string `toml:"collection" json:"collection"`
}

// DefaultMongoConfig returns the default MongoDB settings.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "synapse",
		Collection: "maps",
	}
}

// MongoStore persists map documents in a MongoDB collection.
// Used by serve mode where maps are shared across processes.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg = DefaultMongoConfig()
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Map, error) {
	var m Map
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find map: %w", err)
	}
	return &m, nil
}

func (s *MongoStore) Put(ctx context.Context, m *Map) error {
	m.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": m.ID}, m, opts); err != nil {
		return fmt.Errorf("upsert map: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete map: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Map, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	defer cur.Close(ctx)

	var maps []*Map
	if err := cur.All(ctx, &maps); err != nil {
		return nil, fmt.Errorf("decode maps: %w", err)
	}
	return maps, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
