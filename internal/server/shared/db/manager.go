// Package db selects and initializes the account store backend configured
// for the server: Postgres (with embedded goose migrations), DynamoDB, or an
// in-memory map for tests and local runs.
package db

import (
	"context"
	"fmt"

	"github.com/dkovalev/authvault/internal/server/accounts"
	"github.com/dkovalev/authvault/internal/server/config"
)

// StoreManager owns the account store backend and its resources.
type StoreManager interface {
	Accounts() accounts.Repository
	Close() error
}

// NewStoreManager builds the backend named by cfg.StorageBackend.
func NewStoreManager(ctx context.Context, cfg *config.Config) (StoreManager, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		return NewPostgresStoreManager(ctx, cfg.DatabaseDSN)
	case config.StorageDynamoDB:
		return NewDynamoStoreManager(ctx, cfg)
	case config.StorageMemory:
		return NewInMemoryStoreManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}
}
