package backend

import (
	"context"
	"time"
)

// Generator is the capability every text-generation backend implements:
// produce raw text for a system/user prompt pair. The raw text is not
// guaranteed to be JSON; the findings package degrades it safely.
type Generator interface {
	// Generate returns the backend's raw response text. Errors carry a
	// classification (see Error) when the transport layer can provide one.
	Generate(ctx context.Context, systemPrompt, userPrompt, clauseHint string) (string, error)

	// ListModels enumerates models the backend can serve, for the setup
	// wizard and the models command.
	ListModels(ctx context.Context) ([]string, error)

	// Name returns the backend's configured name.
	Name() string
}

// Timeouts shared across the HTTP backends.
const (
	healthProbeTimeout = 5 * time.Second
	chatTimeout        = 15 * time.Second
	generateTimeout    = 30 * time.Second
)

// Config selects and parameterizes a backend. It is built once from the
// loaded configuration and handed to the factory; nothing reads or mutates
// process environment after that point.
type Config struct {
	Backend  string
	OpenAI   OpenAIConfig
	Ollama   OllamaConfig
	LMStudio LMStudioConfig
	Gemini   GeminiConfig
}

type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	// SystemSlot is resolved at construction: when false the API build in
	// use rejects a separate system text and only the user prompt is sent.
	SystemSlot bool
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type LMStudioConfig struct {
	// BaseURL overrides the candidate list entirely when set.
	BaseURL     string
	FallbackURL string
	Model       string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}
