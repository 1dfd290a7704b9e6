package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env  string `env:"APP_ENV, default=dev"`
	Port int    `env:"PORT, default=8080"`

	// postgres | sqlite
	DBDriver   string `env:"DB_DRIVER, default=postgres"`
	DBURL      string `env:"DATABASE_URL"`
	SQLitePath string `env:"SQLITE_PATH, default=producthub.db"`
	DB         DBConfig

	// memory | redis
	CacheBackend string        `env:"CACHE_BACKEND, default=memory"`
	CacheTTL     time.Duration `env:"CACHE_TTL, default=5m"`
	Redis        RedisConfig

	AdminUsername  string   `env:"ADMIN_USERNAME"`
	AdminPassword  string   `env:"ADMIN_PASSWORD"`
	SeedCategories []string `env:"SEED_CATEGORIES"`

	AuthRateLimit      int      `env:"AUTH_RATE_LIMIT, default=20"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS"`
	MaxBodyBytes       int64    `env:"MAX_BODY_BYTES, default=1048576"`

	OTELEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

type DBConfig struct {
	Host     string `env:"DB_HOST, default=127.0.0.1"`
	Port     string `env:"DB_PORT, default=5432"`
	User     string `env:"DB_USER, default=producthub"`
	Password string `env:"DB_PASSWORD, default=producthub"`
	Name     string `env:"DB_NAME, default=producthub"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	return LoadFrom(context.Background(), envconfig.OsLookuper())
}

func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config

	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	})

	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))

	if cfg.DBURL == "" {
		cfg.DBURL = cfg.DB.URL()
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.CacheBackend {
	case "memory", "redis":
	default:
		return Config{}, fmt.Errorf("config: unsupported CACHE_BACKEND %q", cfg.CacheBackend)
	}

	return cfg, nil
}

func (c DBConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Name + "?sslmode=" + c.SSLMode
}

func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}
