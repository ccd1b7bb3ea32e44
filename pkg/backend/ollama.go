package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaBackend posts one concatenated prompt to a single local server.
// Any non-2xx status is a hard failure; there is no retry layer here — the
// dispatcher's offline fallback covers a dead local server well enough.
type OllamaBackend struct {
	cfg    OllamaConfig
	client *http.Client
	logger *zap.Logger
}

func NewOllamaBackend(cfg OllamaConfig, logger *zap.Logger) *OllamaBackend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "llama3:8b-instruct"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaBackend{
		cfg:    cfg,
		client: &http.Client{Timeout: generateTimeout},
		logger: logger,
	}
}

func (b *OllamaBackend) Name() string { return "ollama" }

func (b *OllamaBackend) Generate(ctx context.Context, systemPrompt, userPrompt, clauseHint string) (string, error) {
	prompt := fmt.Sprintf("[SYSTEM]\n%s\n\n[USER]\n%s", systemPrompt, userPrompt)

	payload, err := json.Marshal(map[string]interface{}{
		"model":  b.cfg.Model,
		"prompt": prompt,
		"stream": false,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, readErrorMessage(resp.Body))
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding ollama response: %w", err)
	}
	return out.Response, nil
}

func (b *OllamaBackend) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status: %s", resp.Status)
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var models []string
	for _, m := range result.Models {
		models = append(models, m.Name)
	}
	return models, nil
}
