// Package storage exposes the named-anchor stores.
package storage

import (
	internalstorage "github.com/SmitUplenchwar2687/easytime/internal/storage"
	"github.com/SmitUplenchwar2687/easytime/pkg/clock"
	"github.com/SmitUplenchwar2687/easytime/pkg/config"
)

// Storage persists named anchors.
type Storage = internalstorage.Storage

// Anchor is a named reference instant.
type Anchor = internalstorage.Anchor

// MemoryStorage is the in-memory backend.
type MemoryStorage = internalstorage.MemoryStorage

// MemoryConfig configures the in-memory backend.
type MemoryConfig = internalstorage.MemoryConfig

// RedisStorage is the Redis backend.
type RedisStorage = internalstorage.RedisStorage

// RedisConfig configures the Redis backend.
type RedisConfig = internalstorage.RedisConfig

// ErrNotFound is returned when an anchor does not exist.
var ErrNotFound = internalstorage.ErrNotFound

// New constructs the backend selected by cfg.
func New(cfg config.StorageConfig, clk clock.Clock) (Storage, error) {
	return internalstorage.New(cfg, clk)
}

// NewMemoryStorage creates an in-memory anchor store.
func NewMemoryStorage(cfg *MemoryConfig) (*MemoryStorage, error) {
	return internalstorage.NewMemoryStorage(cfg)
}

// NewRedisStorage connects a Redis anchor store.
func NewRedisStorage(cfg *RedisConfig) (*RedisStorage, error) {
	return internalstorage.NewRedisStorage(cfg)
}
