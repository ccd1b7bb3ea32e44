package backend

import (
	"context"

	"go.uber.org/zap"
)

// New selects a backend variant by configured name. Unrecognized names fall
// back to the hosted OpenAI backend rather than failing: backend choice is
// operator convenience, not a correctness boundary.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Generator, error) {
	switch cfg.Backend {
	case "ollama":
		return NewOllamaBackend(cfg.Ollama, logger), nil
	case "lmstudio":
		return NewLMStudioBackend(cfg.LMStudio, logger), nil
	case "gemini":
		return NewGeminiBackend(ctx, cfg.Gemini, logger)
	default:
		return NewOpenAIBackend(cfg.OpenAI, logger), nil
	}
}
