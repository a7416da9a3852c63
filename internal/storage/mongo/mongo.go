package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/driftboard/driftboard/internal/config"
	"github.com/driftboard/driftboard/internal/logger"
)

const (
	usersCollection = "users"
	postsCollection = "posts"

	defaultConnectTimeout = 10 * time.Second
)

type Storage struct {
	client *mongo.Client
	users  *mongo.Collection
	posts  *mongo.Collection
}

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to mongodb", "database", cfg.Public.Mongo.Database)

	timeout := time.Duration(cfg.Public.Mongo.ConnectTimeout)
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Public.Mongo.Uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Public.Mongo.Database)
	s := &Storage{
		client: client,
		users:  db.Collection(usersCollection),
		posts:  db.Collection(postsCollection),
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		return nil, err
	}

	logger.Log.Info("connected to mongodb")
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// Topic queries always filter on topic and usually on expiration.
	_, err = s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "topic", Value: 1}, {Key: "expiration", Value: 1}},
	})
	return err
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Cleanup(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
