package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/user/audit45/pkg/backend"
)

// Config is the whole application configuration. It is loaded once and
// passed down explicitly; nothing mutates process environment to select a
// backend.
type Config struct {
	Backend  string          `yaml:"backend"`
	LogDir   string          `yaml:"log_dir"`
	OpenAI   OpenAISection   `yaml:"openai"`
	Ollama   OllamaSection   `yaml:"ollama"`
	LMStudio LMStudioSection `yaml:"lmstudio"`
	Gemini   GeminiSection   `yaml:"gemini"`
}

type OpenAISection struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	MaxRetries int    `yaml:"max_retries"`
	// SystemSlot marks whether the hosted API build accepts a system text.
	// Legacy builds that reject it get the user prompt alone.
	SystemSlot bool `yaml:"system_slot"`
}

type OllamaSection struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type LMStudioSection struct {
	BaseURL     string `yaml:"base_url"`
	FallbackURL string `yaml:"fallback_url"`
	Model       string `yaml:"model"`
}

type GeminiSection struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".audit45")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Load reads the config file, falling back to defaults when it does not
// exist, then fills unset fields from environment variables.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Backend: "openai",
		LogDir:  "./logs",
		OpenAI:  OpenAISection{SystemSlot: true},
	}
}

// applyEnv fills unset fields from the environment. Env vars never override
// explicit file values; they are the fallback, not the source of truth.
func (c *Config) applyEnv() {
	setIfEmpty(&c.Backend, "AUDIT45_BACKEND")
	setIfEmpty(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setIfEmpty(&c.OpenAI.Model, "OPENAI_MODEL")
	setIfEmpty(&c.Ollama.BaseURL, "OLLAMA_BASE_URL")
	setIfEmpty(&c.Ollama.Model, "OLLAMA_MODEL")
	setIfEmpty(&c.LMStudio.BaseURL, "LMSTUDIO_BASE_URL")
	setIfEmpty(&c.LMStudio.FallbackURL, "LMSTUDIO_FALLBACK_URL")
	setIfEmpty(&c.LMStudio.Model, "LMSTUDIO_MODEL")
	setIfEmpty(&c.Gemini.APIKey, "GOOGLE_API_KEY")
}

func setIfEmpty(dst *string, envKey string) {
	if *dst == "" {
		*dst = os.Getenv(envKey)
	}
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

// BackendConfig converts the loaded configuration into the explicit struct
// the backend factory consumes.
func (c *Config) BackendConfig() backend.Config {
	return backend.Config{
		Backend: c.Backend,
		OpenAI: backend.OpenAIConfig{
			APIKey:     c.OpenAI.APIKey,
			Model:      c.OpenAI.Model,
			MaxRetries: c.OpenAI.MaxRetries,
			SystemSlot: c.OpenAI.SystemSlot,
		},
		Ollama: backend.OllamaConfig{
			BaseURL: c.Ollama.BaseURL,
			Model:   c.Ollama.Model,
		},
		LMStudio: backend.LMStudioConfig{
			BaseURL:     c.LMStudio.BaseURL,
			FallbackURL: c.LMStudio.FallbackURL,
			Model:       c.LMStudio.Model,
		},
		Gemini: backend.GeminiConfig{
			APIKey: c.Gemini.APIKey,
			Model:  c.Gemini.Model,
		},
	}
}

// ModelFor returns the model configured for the named backend, for display
// and audit-log records.
func (c *Config) ModelFor(name string) string {
	switch name {
	case "ollama":
		return c.Ollama.Model
	case "lmstudio":
		return c.LMStudio.Model
	case "gemini":
		return c.Gemini.Model
	default:
		return c.OpenAI.Model
	}
}

// SetModelFor updates the model for the named backend.
func (c *Config) SetModelFor(name, model string) {
	switch name {
	case "ollama":
		c.Ollama.Model = model
	case "lmstudio":
		c.LMStudio.Model = model
	case "gemini":
		c.Gemini.Model = model
	default:
		c.OpenAI.Model = model
	}
}
