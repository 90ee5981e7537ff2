package db

import (
	"context"
	"fmt"

	"github.com/MirrorChyan/ota-agent/internal/config"
)

// Store is a namespaced key/value store for small persisted settings.
// Implementations acquire and release the underlying handle around each access.
type Store interface {
	// Get returns def when the key has never been written.
	Get(ctx context.Context, namespace, key, def string) (string, error)
	Put(ctx context.Context, namespace, key, value string) error
	Close() error
}

func New(conf *config.Config) (Store, error) {
	switch conf.Store.Driver {
	case "", "sqlite":
		return NewSQLite(conf.Store.Path)
	case "redis":
		return NewRedis(conf)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", conf.Store.Driver)
	}
}
