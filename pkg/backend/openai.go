package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/user/audit45/pkg/findings"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// formatInstruction is appended to every hosted prompt. Models ignore it
// often enough that the extraction pipeline exists.
const formatInstruction = "\n\n[FORMAT]\n" +
	"Return exactly ONE JSON object only. Keys: findings:[{title,clause,reason,result}]. " +
	"No prose, no explanation, no markdown."

// OpenAIBackend talks to the hosted Responses API. The call contract takes a
// single input string plus a model identifier; there are no separate
// system/user slots and no sampling controls, so both prompts are merged
// into one text.
//
// Degraded outcomes (retry exhaustion, 4xx, unexpected errors) are returned
// as serialized single-finding objects rather than errors, so the caller's
// pipeline treats a broken API the same way it treats odd prose.
type OpenAIBackend struct {
	cfg     OpenAIConfig
	baseURL string
	client  *http.Client
	retryer *Retryer
	logger  *zap.Logger
}

func NewOpenAIBackend(cfg OpenAIConfig, logger *zap.Logger) *OpenAIBackend {
	if cfg.Model == "" {
		cfg.Model = "gpt-5"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIBackend{
		cfg:     cfg,
		baseURL: baseURL,
		client:  &http.Client{Timeout: generateTimeout},
		retryer: NewRetryer(cfg.MaxRetries, logger),
		logger:  logger,
	}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Generate(ctx context.Context, systemPrompt, userPrompt, clauseHint string) (string, error) {
	// SystemSlot is a construction-time capability: builds that reject a
	// system text get the user prompt alone instead of a failed call.
	var merged string
	if b.cfg.SystemSlot {
		merged = fmt.Sprintf("[SYSTEM]\n%s\n\n[USER]\n%s", systemPrompt, userPrompt)
	} else {
		merged = fmt.Sprintf("[USER]\n%s", userPrompt)
	}
	merged += formatInstruction

	raw, err := b.retryer.Do(ctx, func() (string, error) {
		return b.call(ctx, merged)
	})
	if err == nil {
		return raw, nil
	}

	var be *Error
	if errors.As(err, &be) {
		if be.Code == ErrClientStatus {
			return wrapCallFailure(fmt.Sprintf("API 호출 실패: HTTP %d %s", be.HTTPStatus, be.Message)), nil
		}
		b.logger.Warn("hosted backend exhausted retries", zap.String("code", string(be.Code)), zap.Error(be))
		return wrapCallFailure(fmt.Sprintf("API 호출 실패: 재시도 한도 초과 (%s)", be.Code)), nil
	}
	return wrapCallFailure(fmt.Sprintf("예상치 못한 오류: %v", err)), nil
}

// call performs one Responses API request and classifies every failure.
func (b *OpenAIBackend) call(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"model": b.cfg.Model,
		"input": prompt,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", ClassifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", MapHTTPError(resp.StatusCode, readErrorMessage(resp.Body))
	}

	var out responsesAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Code: ErrUpstreamStatus, Message: err.Error(), Retryable: true}
	}
	return out.Text(), nil
}

func (b *OpenAIBackend) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAI API returned status: %s", resp.Status)
	}

	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var models []string
	for _, m := range result.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

// responsesAPIResponse is the subset of the Responses API payload we need.
type responsesAPIResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// Text concatenates every output_text part of the response.
func (r responsesAPIResponse) Text() string {
	var sb strings.Builder
	for _, item := range r.Output {
		for _, part := range item.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}

// wrapCallFailure serializes a diagnostic as a valid one-finding object.
func wrapCallFailure(msg string) string {
	return findings.MarshalCompact(findings.WrapFreeText(msg))
}

// readErrorMessage pulls a human-readable message out of an API error body,
// falling back to the raw text.
func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(body))
}
