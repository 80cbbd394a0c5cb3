package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string   `env:"PORT,         default=8080"`
	Env         string   `env:"ENV,          default=development"`
	LogLevel    string   `env:"LOG_LEVEL,    default=info"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Tags     TagsConfig
	Realtime RealtimeConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=720h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=showcase"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// TagsConfig configures the tag suggestion model. An empty APIKey disables it.
type TagsConfig struct {
	APIKey   string        `env:"OPENAI_API_KEY"`
	Model    string        `env:"OPENAI_MODEL,  default=gpt-4o-mini"`
	Timeout  time.Duration `env:"TAGS_TIMEOUT,  default=15s"`
	Attempts int           `env:"TAGS_ATTEMPTS, default=2"`
	PerHour  int           `env:"TAGS_PER_HOUR, default=30"`
}

type RealtimeConfig struct {
	Workers int `env:"REALTIME_WORKERS, default=8"`
	Buffer  int `env:"REALTIME_BUFFER,  default=256"`
	Outbox  int `env:"REALTIME_OUTBOX,  default=32"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory, when present, is applied first
// without overriding variables already set.
func Load() *Config {
	_ = godotenv.Load()
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
