// Package config provides environment-based configuration for the notice QA
// service.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings holds all environment-based configuration. Field names map
// directly to environment variables.
type Settings struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is where the notice corpus and index snapshot live.
	// Env: DATA_DIR (default: ./notice_data)
	DataDir string `envconfig:"DATA_DIR" default:"./notice_data"`

	// SynonymsFile optionally points to a TOML file overriding the built-in
	// synonym map.
	// Env: SYNONYMS_FILE
	SynonymsFile string `envconfig:"SYNONYMS_FILE"`

	// DefaultTopK is the candidate budget used when a request does not set
	// top_k.
	// Env: DEFAULT_TOP_K (default: 5)
	DefaultTopK int `envconfig:"DEFAULT_TOP_K" default:"5"`

	// OpenAIAPIKey enables the generation capability when set; without it
	// answers are rule-based.
	// Env: OPENAI_API_KEY
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// OpenAIModel is the chat model used for generation.
	// Env: OPENAI_MODEL (default: gpt-3.5-turbo)
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo"`

	// OpenAIBaseURL overrides the generation endpoint (e.g. a proxy).
	// Env: OPENAI_BASE_URL
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	// GenerationTimeout bounds each generation call.
	// Env: GENERATION_TIMEOUT (default: 20s)
	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"20s"`

	// GenerationMaxTokens caps the generated answer length.
	// Env: GENERATION_MAX_TOKENS (default: 300)
	GenerationMaxTokens int `envconfig:"GENERATION_MAX_TOKENS" default:"300"`
}

// Load reads settings from the environment.
func Load() (Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, fmt.Errorf("failed to process environment configuration: %w", err)
	}
	return s, nil
}

// GenerationEnabled reports whether an external generation capability is
// configured.
func (s Settings) GenerationEnabled() bool {
	return s.OpenAIAPIKey != ""
}
