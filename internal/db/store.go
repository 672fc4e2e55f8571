package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/RichardoC/support-chat/internal/config"
	"github.com/RichardoC/support-chat/internal/models"
	"go.uber.org/zap"
)

// ErrStoreNotConfigured is returned by writes against a store that has no
// connection settings.
var ErrStoreNotConfigured = errors.New("store is not configured")

// Store persists chat turns. SaveTurn fills in ID and CreatedAt.
type Store interface {
	SaveTurn(ctx context.Context, turn *models.ChatTurn) error
	Close(ctx context.Context) error
}

// Open builds the store selected by cfg.StoreDriver.
func Open(cfg *config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		return NewMongoStore(MongoOptions{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		}, logger), nil
	case config.StoreDriverSQLite:
		return New(cfg.SQLitePath)
	case config.StoreDriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
