// Package config loads runtime configuration from VERISCRIBE_-prefixed
// environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Store backend selectors.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreHosted = "hosted"
)

// Model provider selectors.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the full runtime configuration. The backend choices are fixed at
// startup; there is no runtime switching.
type Config struct {
	// Addr is the analysis server listen address.
	Addr string `env:"VERISCRIBE_ADDR" envDefault:":8000"`
	// APIURL is the analysis backend base URL gateway clients talk to.
	APIURL string `env:"VERISCRIBE_API_URL" envDefault:"http://localhost:8000/api"`

	// Store selects the entity backend: memory, file or hosted.
	Store string `env:"VERISCRIBE_STORE" envDefault:"file"`
	// DataDir holds the file store's JSON collections.
	DataDir string `env:"VERISCRIBE_DATA_DIR" envDefault:"data"`
	// EntityAPIURL is the hosted document-store base URL; required when
	// Store is "hosted".
	EntityAPIURL string `env:"VERISCRIBE_ENTITY_API_URL"`

	// ModelProvider selects the completion provider: openai or anthropic.
	ModelProvider string `env:"VERISCRIBE_MODEL_PROVIDER" envDefault:"openai"`
	// ModelID overrides the provider's default model.
	ModelID string `env:"VERISCRIBE_MODEL_ID"`

	// UploadDir is where the analysis server stores uploaded files.
	UploadDir string `env:"VERISCRIBE_UPLOAD_DIR" envDefault:"uploads"`
	// PublicBaseURL prefixes stored-file URLs returned to clients.
	PublicBaseURL string `env:"VERISCRIBE_PUBLIC_BASE_URL"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"VERISCRIBE_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config and validates backend choices.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreHosted:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store)
	}
	if c.Store == StoreHosted && c.EntityAPIURL == "" {
		return fmt.Errorf("VERISCRIBE_ENTITY_API_URL is required for the hosted store")
	}
	switch c.ModelProvider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown model provider %q", c.ModelProvider)
	}
	return nil
}
