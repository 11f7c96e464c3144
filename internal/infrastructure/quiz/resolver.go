package quiz

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/quizm/users-service/internal/api/metrics"
	"github.com/quizm/users-service/internal/core/ports"
)

// NameCache is implemented by MemoryCache and the Redis quiz name cache.
type NameCache interface {
	Get(ctx context.Context, quizID int64) (name string, ok bool, err error)
	Set(ctx context.Context, quizID int64, name string) error
}

// CachedResolver consults the cache before the backend. Cache failures are
// logged and treated as misses.
type CachedResolver struct {
	next  ports.QuizNameResolver
	cache NameCache
	log   zerolog.Logger
}

func NewCachedResolver(next ports.QuizNameResolver, cache NameCache, log zerolog.Logger) *CachedResolver {
	return &CachedResolver{next: next, cache: cache, log: log}
}

func (r *CachedResolver) QuizName(ctx context.Context, quizID int64) (string, error) {
	name, ok, err := r.cache.Get(ctx, quizID)
	if err != nil {
		r.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("quiz name cache read failed")
	}
	if ok {
		metrics.QuizNameLookupsTotal.WithLabelValues("cache").Inc()
		return name, nil
	}

	name, err = r.next.QuizName(ctx, quizID)
	if err != nil {
		metrics.QuizNameLookupsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.QuizNameLookupsTotal.WithLabelValues("remote").Inc()

	if err := r.cache.Set(ctx, quizID, name); err != nil {
		r.log.Warn().Err(err).Int64("quiz_id", quizID).Msg("quiz name cache write failed")
	}
	return name, nil
}
