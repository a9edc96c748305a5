package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"papuanews/internal/config"
	"papuanews/internal/types"
)

// MongoStore backs the article store with a MongoDB collection. A unique
// index on source_url enforces the same identity guarantee the SQL
// backends get from their schema.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	nextID     atomic.Uint64
	logger     *slog.Logger
}

// OpenMongo connects to the configured MongoDB deployment.
func OpenMongo(cfg config.StoreConfig, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "source_url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("mongodb index: %w", err)
	}

	s := &MongoStore{
		client:     client,
		collection: coll,
		logger:     logger.With("component", "store", "driver", "mongo"),
	}
	if err := s.seedNextID(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) seedNextID(ctx context.Context) error {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	var last StoredArticle
	err := s.collection.FindOne(ctx, bson.D{}, opts).Decode(&last)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("mongodb seed id: %w", err)
	}
	s.nextID.Store(uint64(last.ID))
	return nil
}

func (s *MongoStore) Name() string { return "mongo" }

func (s *MongoStore) FindBySourceURL(ctx context.Context, url string) (*StoredArticle, error) {
	var row StoredArticle
	err := s.collection.FindOne(ctx, bson.M{"source_url": url}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "find", Err: err}
	}
	return &row, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id uint) (*StoredArticle, error) {
	var row StoredArticle
	err := s.collection.FindOne(ctx, bson.M{"id": id}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "find", Err: err}
	}
	return &row, nil
}

func (s *MongoStore) Insert(ctx context.Context, a *StoredArticle) error {
	a.ID = uint(s.nextID.Add(1))
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if _, err := s.collection.InsertOne(ctx, a); err != nil {
		return &types.StoreError{Op: "insert", Err: err}
	}
	return nil
}

func (s *MongoStore) UpdateFields(ctx context.Context, url string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	_, err := s.collection.UpdateOne(ctx, bson.M{"source_url": url}, bson.M{"$set": set})
	if err != nil {
		return &types.StoreError{Op: "update", Err: err}
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, filter ListFilter) ([]StoredArticle, error) {
	query := s.filter(filter)
	opts := options.Find().SetSort(bson.D{
		{Key: "published_at", Value: -1},
		{Key: "id", Value: -1},
	})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cur, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, &types.StoreError{Op: "list", Err: err}
	}
	defer cur.Close(ctx)

	var rows []StoredArticle
	if err := cur.All(ctx, &rows); err != nil {
		return nil, &types.StoreError{Op: "list", Err: err}
	}
	return rows, nil
}

func (s *MongoStore) Count(ctx context.Context, filter ListFilter) (int64, error) {
	n, err := s.collection.CountDocuments(ctx, s.filter(filter))
	if err != nil {
		return 0, &types.StoreError{Op: "count", Err: err}
	}
	return n, nil
}

func (s *MongoStore) filter(f ListFilter) bson.M {
	query := bson.M{}
	if f.Region != "" {
		query["region"] = f.Region
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	return query
}

func (s *MongoStore) Close() error {
	s.logger.Info("store closing")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
