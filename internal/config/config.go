package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port int    `env:"SERVER_PORT, default=8080"`
	Env  string `env:"ENV, default=development"`
}

type DatabaseConfig struct {
	Host       string `env:"DB_HOST, default=localhost"`
	Port       int    `env:"DB_PORT, default=5432"`
	Username   string `env:"DB_USERNAME, default=postgres"`
	Password   string `env:"DB_PASSWORD, default=password"`
	DBName     string `env:"DB_NAME, default=agentdesk"`
	SSLMode    string `env:"DB_SSLMODE, default=disable"`
	TestDBName string `env:"TEST_DB_NAME, default=agentdesk_test"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, default=change-me-in-production"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=12h"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL, default=info"`
	Pretty bool   `env:"LOG_PRETTY, default=false"`
}

// GetDSN returns the database connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from the environment. A .env file is applied
// first when present; real environment variables win over it.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}
