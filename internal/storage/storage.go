// Package storage keeps named anchor instants that offsets can be computed from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
	"github.com/SmitUplenchwar2687/easytime/internal/config"
)

var (
	// ErrNotFound is returned by Get when no live anchor has the given name.
	ErrNotFound = errors.New("anchor not found")
	// ErrInvalidName is returned for names ValidateName rejects.
	ErrInvalidName = errors.New("invalid anchor name")
	// ErrInvalidReference is returned by Resolve for unparseable references.
	ErrInvalidReference = errors.New("invalid reference")
)

// Anchor is a named reference instant.
type Anchor struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

// Storage persists anchors. Implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the instant saved under name, or ErrNotFound.
	Get(ctx context.Context, name string) (time.Time, error)

	// Set saves at under name. A ttl of 0 keeps the anchor until deleted.
	Set(ctx context.Context, name string, at time.Time, ttl time.Duration) error

	// Delete removes name. Deleting a missing anchor is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all live anchors sorted by name.
	List(ctx context.Context) ([]Anchor, error)

	// Close releases backend resources. It is idempotent.
	Close() error
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateName reports whether name can be used as an anchor name.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("%w %q: use letters, digits, '.', '_' or '-'", ErrInvalidName, name)
	}
	return nil
}

// New constructs the backend selected by cfg. clk drives expiry in the
// memory backend and is ignored by Redis, which expires keys itself.
func New(cfg config.StorageConfig, clk clock.Clock) (Storage, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStorage(&MemoryConfig{
			CleanupInterval: cfg.Memory.CleanupInterval,
			Clock:           clk,
		})
	case config.BackendRedis:
		r := cfg.Redis
		return NewRedisStorage(redisConfigFrom(r))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// AnchorPrefix marks a reference that names a stored anchor.
const AnchorPrefix = "anchor:"

// Resolve turns a user-supplied reference into an instant in loc. It
// accepts "anchor:<name>", RFC 3339 timestamps and plain dates, which are
// read as midnight in loc. An empty reference returns ok=false so the
// caller can fall back to its clock.
func Resolve(ctx context.Context, s Storage, ref string, loc *time.Location) (at time.Time, ok bool, err error) {
	if ref == "" {
		return time.Time{}, false, nil
	}
	if name, found := strings.CutPrefix(ref, AnchorPrefix); found {
		if s == nil {
			return time.Time{}, false, fmt.Errorf("no anchor store configured for %q", ref)
		}
		at, err := s.Get(ctx, name)
		if err != nil {
			return time.Time{}, false, err
		}
		return at.In(loc), true, nil
	}
	if at, err := time.Parse(time.RFC3339Nano, ref); err == nil {
		return at.In(loc), true, nil
	}
	if at, err := time.ParseInLocation(time.DateOnly, ref, loc); err == nil {
		return at, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w %q: want RFC 3339, YYYY-MM-DD or %s<name>", ErrInvalidReference, ref, AnchorPrefix)
}

func redisConfigFrom(r config.StorageRedisConfig) *RedisConfig {
	return &RedisConfig{
		Host:         r.Host,
		Port:         r.Port,
		Password:     r.Password,
		DB:           r.DB,
		Cluster:      r.Cluster,
		ClusterNodes: append([]string(nil), r.ClusterNodes...),
		PoolSize:     r.PoolSize,
		MaxRetries:   r.MaxRetries,
		DialTimeout:  r.DialTimeout,
		KeyPrefix:    r.KeyPrefix,
	}
}
