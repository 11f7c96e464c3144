package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// QuizNameCache stores quiz display names shared by every service replica.
// Key format: quizm:quiz_name:<quiz_id>
type QuizNameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuizNameCache creates a QuizNameCache wrapping the given Redis client.
func NewQuizNameCache(client *redis.Client, ttl time.Duration) *QuizNameCache {
	return &QuizNameCache{client: client, ttl: ttl}
}

// Get returns the cached name. A miss is reported as ok=false with a nil error.
func (c *QuizNameCache) Get(ctx context.Context, quizID int64) (string, bool, error) {
	name, err := c.client.Get(ctx, c.key(quizID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("quiz name cache get: %w", err)
	}
	return name, true, nil
}

// Set stores name for quizID until the cache TTL elapses.
func (c *QuizNameCache) Set(ctx context.Context, quizID int64, name string) error {
	if err := c.client.Set(ctx, c.key(quizID), name, c.ttl).Err(); err != nil {
		return fmt.Errorf("quiz name cache set: %w", err)
	}
	return nil
}

func (c *QuizNameCache) key(quizID int64) string {
	return fmt.Sprintf("quizm:quiz_name:%d", quizID)
}
