package storage

import (
	"context"
	"fmt"

	"github.com/powercore-shop/storefront/pkg/config"
)

// KV is the durable client storage collaborator: three independent namespaced
// records (token, user snapshot, cart) read and written as opaque JSON blobs.
// No cross-record transactionality is offered or assumed.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the configured backend.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.Storage.Backend {
	case config.StorageSQLite:
		return OpenSQLite(cfg.Storage.SQLitePath)
	case config.StorageRedis:
		return OpenRedis(ctx, cfg.Redis)
	case config.StorageMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// Key joins the configured namespace and a record name.
func Key(namespace, name string) string {
	return namespace + ":" + name
}
