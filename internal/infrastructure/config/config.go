package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// DemoProjectIDs is the fixed allow-list of projects a demo account may
	// browse regardless of lead/team relations.
	DemoProjectIDs []string `env:"DEMO_PROJECT_IDS, delimiter=,"`

	Mongo MongoConfig
	Redis RedisConfig
	Slack SlackConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=tracker"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SlackConfig struct {
	// WebhookURL is the Slack incoming-webhook endpoint. Empty disables
	// outbound notifications.
	WebhookURL string `env:"SLACK_WEBHOOK_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
