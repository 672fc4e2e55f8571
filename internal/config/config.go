package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"
)

// Config holds the environment driven configuration of the relay server.
type Config struct {
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"support-chat"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8100"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StoreDriver     string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI        string `env:"MONGODB_URI"`
	MongoDatabase   string `env:"MONGODB_DATABASE"`
	MongoCollection string `env:"MONGODB_COLLECTION" envDefault:"data"`
	SQLitePath      string `env:"SQLITE_PATH" envDefault:"support-chat.db"`

	LLMAPIKey       string        `env:"GROQ_API_KEY"`
	LLMBaseURL      string        `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel        string        `env:"LLM_MODEL" envDefault:"llama-3.3-70b-versatile"`
	LLMProviderName string        `env:"LLM_PROVIDER_NAME" envDefault:"Groq"`
	LLMTimeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"0s"`

	// TurnMetadata is attached verbatim to every stored turn, e.g.
	// TURN_METADATA="site:acme,widget:v2".
	TurnMetadata map[string]string `env:"TURN_METADATA"`

	ShowEmojiPicker bool `env:"WIDGET_SHOW_EMOJI_PICKER" envDefault:"true"`
	AllowFullscreen bool `env:"WIDGET_ALLOW_FULLSCREEN" envDefault:"true"`
}

// Load reads an optional .env file and then parses environment variables
// into Config. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo, StoreDriverSQLite, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of %s, %s, %s: got %q",
			StoreDriverMongo, StoreDriverSQLite, StoreDriverMemory, c.StoreDriver)
	}
	if c.LLMTimeout < 0 {
		return fmt.Errorf("LLM_TIMEOUT must not be negative")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// Metadata converts TurnMetadata into the opaque map stored on turns.
// It returns nil when nothing is configured.
func (c *Config) Metadata() map[string]any {
	if len(c.TurnMetadata) == 0 {
		return nil
	}
	out := make(map[string]any, len(c.TurnMetadata))
	for k, v := range c.TurnMetadata {
		out[k] = v
	}
	return out
}
