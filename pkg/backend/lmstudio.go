package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Default candidate endpoints when no override is configured. LM Studio
// binds to 127.0.0.1 or localhost depending on version, so both are tried.
var defaultLMStudioEndpoints = []string{
	"http://127.0.0.1:1234/v1",
	"http://localhost:1234/v1",
}

// LMStudioBackend holds an ordered list of candidate base URLs and fails
// over across them per call: each candidate is health-probed first, the
// first healthy one takes the chat request, and a candidate is never
// retried within the same call.
type LMStudioBackend struct {
	endpoints   []string
	model       string
	chatClient  *http.Client
	probeClient *http.Client
	logger      *zap.Logger
}

func NewLMStudioBackend(cfg LMStudioConfig, logger *zap.Logger) *LMStudioBackend {
	var endpoints []string
	if cfg.BaseURL != "" {
		endpoints = []string{cfg.BaseURL}
	} else {
		endpoints = append(endpoints, defaultLMStudioEndpoints...)
		if cfg.FallbackURL != "" {
			endpoints = append(endpoints, cfg.FallbackURL)
		}
	}
	model := cfg.Model
	if model == "" {
		model = "openai/gpt-oss-20b"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LMStudioBackend{
		endpoints:   endpoints,
		model:       model,
		chatClient:  &http.Client{Timeout: chatTimeout},
		probeClient: &http.Client{Timeout: healthProbeTimeout},
		logger:      logger,
	}
}

func (b *LMStudioBackend) Name() string { return "lmstudio" }

// healthOK probes {endpoint}/models. Probe failures only skip the
// candidate; they never abort the call.
func (b *LMStudioBackend) healthOK(ctx context.Context, base string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/models", nil)
	if err != nil {
		return false
	}
	resp, err := b.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (b *LMStudioBackend) Generate(ctx context.Context, systemPrompt, userPrompt, clauseHint string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model": b.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 0.2,
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	for _, base := range b.endpoints {
		if !b.healthOK(ctx, base) {
			lastErr = &Error{
				Code:      ErrUnreachable,
				Message:   fmt.Sprintf("LM Studio health check failed: %s/models", base),
				Retryable: false,
			}
			b.logger.Debug("skipping unhealthy endpoint", zap.String("endpoint", base))
			continue
		}

		text, err := b.chat(ctx, base, payload)
		if err != nil {
			lastErr = err
			b.logger.Debug("endpoint call failed", zap.String("endpoint", base), zap.Error(err))
			continue
		}
		return text, nil
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", &Error{Code: ErrUnreachable, Message: "no LM Studio endpoint reachable", Retryable: false}
}

func (b *LMStudioBackend) chat(ctx context.Context, base string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.chatClient.Do(req)
	if err != nil {
		return "", ClassifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", MapHTTPError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// ListModels queries the first candidate whose /models listing responds.
func (b *LMStudioBackend) ListModels(ctx context.Context) ([]string, error) {
	var lastErr error
	for _, base := range b.endpoints {
		models, err := b.listModelsAt(ctx, base)
		if err != nil {
			lastErr = err
			continue
		}
		return models, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("no LM Studio endpoint reachable")
}

func (b *LMStudioBackend) listModelsAt(ctx context.Context, base string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/models", nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.probeClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LM Studio returned status: %s", resp.Status)
	}

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	models := make([]string, 0, len(result.Data))
	for _, m := range result.Data {
		models = append(models, m.ID)
	}
	return models, nil
}
