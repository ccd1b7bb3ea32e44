package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiBackend is the SDK-hosted variant. Like the Responses API backend it
// has no separate system slot in the way we use it, so the prompts are
// merged into one text.
type GeminiBackend struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *zap.Logger
}

func NewGeminiBackend(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-pro"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	return &GeminiBackend{client: client, model: model, logger: logger}, nil
}

func (b *GeminiBackend) Name() string { return "gemini" }

func (b *GeminiBackend) Generate(ctx context.Context, systemPrompt, userPrompt, clauseHint string) (string, error) {
	merged := fmt.Sprintf("[SYSTEM]\n%s\n\n[USER]\n%s%s", systemPrompt, userPrompt, formatInstruction)

	resp, err := b.model.GenerateContent(ctx, genai.Text(merged))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (b *GeminiBackend) ListModels(ctx context.Context) ([]string, error) {
	iter := b.client.ListModels(ctx)
	var names []string
	for {
		m, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		// Only list models that support content generation (rough filter)
		if strings.Contains(m.Name, "gemini") {
			names = append(names, strings.TrimPrefix(m.Name, "models/"))
		}
	}
	return names, nil
}

func (b *GeminiBackend) Close() {
	b.client.Close()
}
