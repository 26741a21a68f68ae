package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// BaseURL is the externally visible origin embedded in emailed
	// confirmation and reset links.
	BaseURL string `env:"BASE_URL, default=http://localhost:8080"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
	Mail  MailConfig
}

type JWTConfig struct {
	Secret            string `env:"JWT_SECRET"`
	ExpirationSeconds int    `env:"JWT_EXPIRATION_SECONDS, default=3600"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=contacts"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`

	// CacheTTLSeconds bounds how long a cached user snapshot may go stale.
	CacheTTLSeconds int `env:"CACHE_TTL_SECONDS, default=3600"`
}

type MailConfig struct {
	Host     string `env:"MAIL_HOST"`
	Port     int    `env:"MAIL_PORT, default=587"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	From     string `env:"MAIL_FROM"`
	FromName string `env:"MAIL_FROM_NAME, default=Contacts API"`
	StartTLS bool   `env:"MAIL_STARTTLS, default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
