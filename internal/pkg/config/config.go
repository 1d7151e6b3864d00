package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"

	devJWTSecret = "devsecret"
)

type Config struct {
	Port      string        `env:"PORT,      default=3001"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	HTTP  HTTPConfig
	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type HTTPConfig struct {
	BasePath       string        `env:"API_BASE_PATH,        default=/api"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS, default=*"`
	LoginRate      float64       `env:"LOGIN_RATE_PER_SEC,   default=5"`
	LoginBurst     int           `env:"LOGIN_BURST,          default=10"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE,       default=10s"`
}

type StoreConfig struct {
	Backend        string `env:"STORE_BACKEND,    default=memory"`
	LockWorkers    int    `env:"LOCK_WORKERS,     default=8"`
	SeedBcryptCost int    `env:"SEED_BCRYPT_COST, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=notes_saas"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	LockTTL  time.Duration `env:"REDIS_LOCK_TTL, default=5s"`
	LockWait time.Duration `env:"REDIS_LOCK_WAIT, default=3s"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks combinations that struct tags cannot express. Outside
// production a missing JWT secret falls back to a development secret.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		c.JWTSecret = devJWTSecret
	}
	switch c.Store.Backend {
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.HTTP.BasePath != "" && !strings.HasPrefix(c.HTTP.BasePath, "/") {
		return fmt.Errorf("API_BASE_PATH must start with '/', got %q", c.HTTP.BasePath)
	}
	c.HTTP.BasePath = strings.TrimSuffix(c.HTTP.BasePath, "/")
	return nil
}

// UsesDevSecret reports whether Validate substituted the development secret.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
