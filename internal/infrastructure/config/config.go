package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/quizm/users-service/internal/infrastructure/security"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Quiz     QuizConfig
}

type AuthConfig struct {
	SecretKey    string        `env:"SECRET_KEY, required"`
	Algorithm    string        `env:"ALGORITHM,     default=HS256"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,     default=30m"`
	BcryptCost   int           `env:"BCRYPT_COST,   default=10"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=true"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=postgres"`
}

type PostgresConfig struct {
	Host     string `env:"DB_HOST,     default=localhost"`
	Port     int    `env:"DB_PORT,     default=5432"`
	Name     string `env:"DB_NAME,     default=quizm_users"`
	User     string `env:"DB_USER,     default=postgres"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSLMODE,  default=disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=quizm_users"`
}

// RedisConfig selects the quiz-name cache. An empty Addr falls back to the
// in-process cache.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB,        default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=500ms"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
}

type QuizConfig struct {
	BackendAddress  string        `env:"QUIZM_BACKEND_ADDRESS"`
	FrontendAddress string        `env:"QUIZM_FRONTEND_ADDRESS, default=http://localhost:3000"`
	LookupTimeout   time.Duration `env:"QUIZ_LOOKUP_TIMEOUT,    default=2s"`
	CacheTTL        time.Duration `env:"QUIZ_CACHE_TTL,         default=10m"`
}

// Load reads configuration from environment variables using go-envconfig.
// In development a .env file in the working directory is loaded first; it
// never overrides variables already set.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	if isDevelopment(lookuper) {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isDevelopment(l envconfig.Lookuper) bool {
	env, ok := l.Lookup("ENV")
	return !ok || env == "" || env == "development"
}

// Validate rejects values that parse but cannot be used.
func (c *Config) Validate() error {
	if !slices.Contains(security.SupportedAlgorithms, c.Auth.Algorithm) {
		return fmt.Errorf("config: unsupported ALGORITHM %q", c.Auth.Algorithm)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	switch c.Store.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Quiz.LookupTimeout <= 0 {
		return fmt.Errorf("config: QUIZ_LOOKUP_TIMEOUT must be positive, got %s", c.Quiz.LookupTimeout)
	}
	if c.Quiz.CacheTTL <= 0 {
		return fmt.Errorf("config: QUIZ_CACHE_TTL must be positive, got %s", c.Quiz.CacheTTL)
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// DSN renders the Postgres settings as a connection URL for pgx.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   "/" + p.Name,
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}
	q := url.Values{}
	q.Set("sslmode", strings.TrimSpace(p.SSLMode))
	u.RawQuery = q.Encode()
	return u.String()
}
