// Package server assembles the users service from its configuration and runs
// the HTTP listener until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/quizm/users-service/internal/api"
	"github.com/quizm/users-service/internal/api/handler"
	"github.com/quizm/users-service/internal/core/ports"
	"github.com/quizm/users-service/internal/core/service"
	"github.com/quizm/users-service/internal/infrastructure/config"
	"github.com/quizm/users-service/internal/infrastructure/db/memory"
	mongostore "github.com/quizm/users-service/internal/infrastructure/db/mongo"
	"github.com/quizm/users-service/internal/infrastructure/db/postgres"
	rediscache "github.com/quizm/users-service/internal/infrastructure/db/redis"
	"github.com/quizm/users-service/internal/infrastructure/http/handlers"
	"github.com/quizm/users-service/internal/infrastructure/quiz"
	"github.com/quizm/users-service/internal/infrastructure/security"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg     *config.Config
	log     zerolog.Logger
	echo    *echo.Echo
	closers []func(context.Context) error
}

// Option customises a Server.
type Option func(*options)

type options struct {
	registry *prometheus.Registry
}

// WithRegistry registers request metrics on reg instead of the default registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

type stores struct {
	users   ports.UserRepository
	records ports.RecordRepository
	pinger  handlers.Pinger
}

// New connects the configured store and cache and wires the HTTP router.
// On error every resource opened so far is released.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (srv *Server, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			_ = s.Close(context.Background())
		}
	}()

	st, err := s.openStores(ctx)
	if err != nil {
		return nil, err
	}
	pingers := []handlers.Pinger{st.pinger}

	cache, cachePinger, err := s.openQuizNameCache(ctx)
	if err != nil {
		return nil, err
	}
	if cachePinger != nil {
		pingers = append(pingers, cachePinger)
	}

	tokens, err := security.NewJWTManager(security.TokenConfig{
		Secret:    cfg.Auth.SecretKey,
		Algorithm: cfg.Auth.Algorithm,
		TTL:       cfg.Auth.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	var resolver ports.QuizNameResolver
	if cfg.Quiz.BackendAddress != "" {
		resolver = quiz.NewCachedResolver(quiz.NewClient(cfg.Quiz.BackendAddress, cfg.Quiz.LookupTimeout), cache, log)
	} else {
		log.Info().Msg("QUIZM_BACKEND_ADDRESS not set, records are stored without quiz names")
	}

	authService := service.NewAuthService(st.users, security.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, log)
	recordService := service.NewRecordService(st.records, st.users, resolver, log)

	deps := api.Deps{
		Auth:         authService,
		Records:      recordService,
		Cookie:       handler.CookieConfig{Secure: cfg.Auth.CookieSecure, TTL: tokens.TTL()},
		Log:          log,
		AllowOrigins: splitOrigins(cfg.Quiz.FrontendAddress),
		Pingers:      pingers,
	}
	if o.registry != nil {
		deps.Registerer = o.registry
		deps.Gatherer = o.registry
	}
	s.echo = api.NewRouter(deps)

	return s, nil
}

func (s *Server) openStores(ctx context.Context) (stores, error) {
	switch s.cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, s.cfg.Postgres.DSN())
		if err != nil {
			return stores{}, err
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		if err := postgres.MigrateUp(ctx, db); err != nil {
			return stores{}, err
		}
		return stores{
			users:   postgres.NewUserRepository(db),
			records: postgres.NewRecordRepository(db),
			pinger:  postgres.Pinger{DB: db},
		}, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: s.cfg.Mongo.URI, Database: s.cfg.Mongo.Database})
		if err != nil {
			return stores{}, err
		}
		s.closers = append(s.closers, client.Disconnect)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return stores{}, err
		}
		return stores{
			users:   mongostore.NewUserRepository(db),
			records: mongostore.NewRecordRepository(db),
			pinger:  mongostore.Pinger{Client: client},
		}, nil

	case config.DriverMemory:
		s.log.Warn().Msg("using the in-memory store, data is lost on restart")
		st := memory.NewStore()
		return stores{users: st.Users(), records: st.Records(), pinger: st}, nil
	}
	return stores{}, fmt.Errorf("unknown store driver %q", s.cfg.Store.Driver)
}

// openQuizNameCache prefers Redis when configured. The returned pinger is nil
// for the in-process cache.
func (s *Server) openQuizNameCache(ctx context.Context) (quiz.NameCache, handlers.Pinger, error) {
	if s.cfg.Redis.Addr != "" {
		client, err := rediscache.Connect(ctx, rediscache.Config{
			Addr:     s.cfg.Redis.Addr,
			DB:       s.cfg.Redis.DB,
			Timeout:  s.cfg.Redis.Timeout,
			PoolSize: s.cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return client.Close() })
		return rediscache.NewQuizNameCache(client, s.cfg.Quiz.CacheTTL), rediscache.Pinger{Client: client}, nil
	}

	cache, err := quiz.NewMemoryCache(ctx, s.cfg.Quiz.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	s.closers = append(s.closers, func(context.Context) error { return cache.Close() })
	return cache, nil, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves on the configured port until ctx is done, then drains in-flight
// requests for up to ten seconds.
func (s *Server) Run(ctx context.Context) error {
	addr := ":" + s.cfg.Port
	errCh := make(chan error, 1)

	go func() {
		s.log.Info().Str("addr", addr).Str("store", s.cfg.Store.Driver).Msg("listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		closeErr := s.Close(context.Background())
		if err != nil {
			return errors.Join(fmt.Errorf("http server: %w", err), closeErr)
		}
		return closeErr
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		s.log.Warn().Err(err).Msg("http shutdown")
	}
	return s.Close(shutdownCtx)
}

// Close releases the store and cache connections in reverse opening order.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
