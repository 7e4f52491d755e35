package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SmitUplenchwar2687/easytime/internal/clock"
)

const defaultCleanupInterval = time.Minute

// MemoryConfig configures the in-memory backend.
type MemoryConfig struct {
	CleanupInterval time.Duration
	Clock           clock.Clock
}

// MemoryStorage is an in-memory anchor store. Expiry is measured on its
// Clock, so a VirtualClock can age anchors in tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]memItem
	clock clock.Clock

	cleanupInterval time.Duration
	stopCh          chan struct{}
	doneCh          chan struct{}
	closeOnce       sync.Once
}

type memItem struct {
	at        time.Time
	expiresAt time.Time // zero means no expiration
}

func (it memItem) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && !now.Before(it.expiresAt)
}

// NewMemoryStorage constructs a memory-backed Storage and starts its
// cleanup loop. A nil cfg uses a real clock and a one minute interval.
func NewMemoryStorage(cfg *MemoryConfig) (*MemoryStorage, error) {
	interval := defaultCleanupInterval
	var clk clock.Clock = clock.NewRealClock()
	if cfg != nil {
		if cfg.CleanupInterval < 0 {
			return nil, fmt.Errorf("cleanup_interval must be non-negative, got %s", cfg.CleanupInterval)
		}
		if cfg.CleanupInterval > 0 {
			interval = cfg.CleanupInterval
		}
		if cfg.Clock != nil {
			clk = cfg.Clock
		}
	}

	s := &MemoryStorage{
		items:           make(map[string]memItem),
		clock:           clk,
		cleanupInterval: interval,
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}
	go s.cleanupLoop()
	return s, nil
}

func (s *MemoryStorage) Get(ctx context.Context, name string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[name]
	if !ok || item.expired(s.clock.Now()) {
		return time.Time{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return item.at, nil
}

func (s *MemoryStorage) Set(ctx context.Context, name string, at time.Time, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if ttl < 0 {
		return fmt.Errorf("ttl must be non-negative, got %s", ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := memItem{at: at}
	if ttl > 0 {
		item.expiresAt = s.clock.Now().Add(ttl)
	}
	s.items[name] = item
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, name)
	return nil
}

func (s *MemoryStorage) List(ctx context.Context) ([]Anchor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock.Now()
	out := make([]Anchor, 0, len(s.items))
	for name, item := range s.items {
		if item.expired(now) {
			continue
		}
		out = append(out, Anchor{Name: name, At: item.at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Cleanup removes expired anchors.
func (s *MemoryStorage) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for name, item := range s.items {
		if item.expired(now) {
			delete(s.items, name)
		}
	}
}

// Len returns the number of stored anchors, including expired ones not yet
// cleaned up.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStorage) cleanupLoop() {
	defer close(s.doneCh)
	for {
		select {
		case <-s.clock.After(s.cleanupInterval):
			s.Cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// Close stops background cleanup.
func (s *MemoryStorage) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
	return nil
}
