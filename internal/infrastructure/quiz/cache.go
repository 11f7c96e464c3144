package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
)

// MemoryCache keeps quiz names in process with bigcache. It is the fallback
// when no Redis address is configured.
type MemoryCache struct {
	cache *bigcache.BigCache
}

func NewMemoryCache(ctx context.Context, ttl time.Duration) (*MemoryCache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 64
	cfg.Verbose = false

	cache, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("quiz name cache: %w", err)
	}
	return &MemoryCache{cache: cache}, nil
}

func (m *MemoryCache) Get(_ context.Context, quizID int64) (string, bool, error) {
	buf, err := m.cache.Get(strconv.FormatInt(quizID, 10))
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(buf), true, nil
}

func (m *MemoryCache) Set(_ context.Context, quizID int64, name string) error {
	return m.cache.Set(strconv.FormatInt(quizID, 10), []byte(name))
}

func (m *MemoryCache) Close() error { return m.cache.Close() }
