package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/RichardoC/support-chat/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCollection = "data"
	defaultDatabase   = "test"
	connectTimeout    = 10 * time.Second
)

type MongoOptions struct {
	URI        string
	Database   string // falls back to the database named in URI
	Collection string
}

// MongoStore writes turns into a single MongoDB collection. The connection
// is opened on the first write and reused afterwards. Concurrent first
// writes share one connection attempt; a failed attempt is retried by the
// next write.
type MongoStore struct {
	opts   MongoOptions
	logger *zap.Logger
	dial   func(ctx context.Context) (*mongo.Client, error)

	group  singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoStore(opts MongoOptions, logger *zap.Logger) *MongoStore {
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.Database == "" {
		opts.Database = databaseFromURI(opts.URI)
	}
	if opts.URI == "" {
		logger.Error("MONGODB_URI is not set; chat turns cannot be stored")
	}

	s := &MongoStore{opts: opts, logger: logger}
	s.dial = s.connect
	return s
}

func (s *MongoStore) SaveTurn(ctx context.Context, turn *models.ChatTurn) error {
	coll, err := s.collection(ctx)
	if err != nil {
		return err
	}

	// BSON dates keep millisecond precision.
	turn.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	turn.ID = ""
	res, err := coll.InsertOne(ctx, turn)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		turn.ID = oid.Hex()
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client, s.coll = nil, nil
	return err
}

func (s *MongoStore) collection(ctx context.Context) (*mongo.Collection, error) {
	s.mu.RLock()
	coll := s.coll
	s.mu.RUnlock()
	if coll != nil {
		return coll, nil
	}
	if s.opts.URI == "" {
		return nil, ErrStoreNotConfigured
	}

	v, err, _ := s.group.Do("connect", func() (any, error) {
		s.mu.RLock()
		coll := s.coll
		s.mu.RUnlock()
		if coll != nil {
			return coll, nil
		}

		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), connectTimeout)
		defer cancel()
		client, err := s.dial(dialCtx)
		if err != nil {
			s.logger.Error("MongoDB connection error", zap.Error(err))
			return nil, err
		}

		coll = client.Database(s.opts.Database).Collection(s.opts.Collection)
		s.mu.Lock()
		s.client, s.coll = client, coll
		s.mu.Unlock()

		s.logger.Info("connected to MongoDB",
			zap.String("database", s.opts.Database),
			zap.String("collection", s.opts.Collection))
		return coll, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Collection), nil
}

func (s *MongoStore) connect(ctx context.Context) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.opts.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabase
}
