// Package openai implements the feature-extraction and embedding gateway
// against an OpenAI-compatible API (e.g. Mistral's compatible endpoint).
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/talent-cloud/matchdex/internal/domain"
	"github.com/talent-cloud/matchdex/internal/metrics"
)

// Gateway calls the LLM provider for feature engineering and embeddings.
type Gateway struct {
	client     *openai.Client
	chatModel  string
	embedModel openai.EmbeddingModel
	dimensions int
	timeout    time.Duration
	provider   string
	logger     *zap.Logger
}

// Config holds the gateway settings.
type Config struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Dimensions     int
	Timeout        time.Duration
	Provider       string
	Logger         *zap.Logger
}

// NewGateway creates an OpenAI-compatible gateway client.
func NewGateway(cfg *Config) *Gateway {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Gateway{
		client:     openai.NewClientWithConfig(clientCfg),
		chatModel:  cfg.ChatModel,
		embedModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		dimensions: cfg.Dimensions,
		timeout:    cfg.Timeout,
		provider:   cfg.Provider,
		logger:     cfg.Logger,
	}
}

// JobFeatures implements domain.FeatureExtractor for job postings.
func (g *Gateway) JobFeatures(ctx context.Context, job domain.RawJob) (domain.JobFeatures, error) {
	payload, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return domain.JobFeatures{}, fmt.Errorf("marshal job: %w: %w", err, domain.ErrFeatureExtraction)
	}

	raw, err := g.complete(ctx, "job_features", jobPromptHeader+string(payload))
	if err != nil {
		return domain.JobFeatures{}, err
	}

	var feats domain.JobFeatures
	if err := decodeFeatures(raw, &feats); err != nil {
		return domain.JobFeatures{}, fmt.Errorf("job features: %w: %w", err, domain.ErrFeatureExtraction)
	}
	if err := feats.Validate(); err != nil {
		return domain.JobFeatures{}, fmt.Errorf("job features: %w: %w", err, domain.ErrFeatureExtraction)
	}
	return feats, nil
}

// CandidateFeatures implements domain.FeatureExtractor for candidate profiles.
func (g *Gateway) CandidateFeatures(ctx context.Context, cand domain.RawCandidate) (domain.CandidateFeatures, error) {
	payload, err := json.MarshalIndent(cand, "", "  ")
	if err != nil {
		return domain.CandidateFeatures{}, fmt.Errorf("marshal candidate: %w: %w", err, domain.ErrFeatureExtraction)
	}

	raw, err := g.complete(ctx, "candidate_features", candidatePromptHeader+string(payload))
	if err != nil {
		return domain.CandidateFeatures{}, err
	}

	var feats domain.CandidateFeatures
	if err := decodeFeatures(raw, &feats); err != nil {
		return domain.CandidateFeatures{}, fmt.Errorf("candidate features: %w: %w", err, domain.ErrFeatureExtraction)
	}
	if err := feats.Validate(); err != nil {
		return domain.CandidateFeatures{}, fmt.Errorf("candidate features: %w: %w", err, domain.ErrFeatureExtraction)
	}
	return feats, nil
}

// complete runs a chat completion in JSON mode and returns the raw content.
func (g *Gateway) complete(ctx context.Context, operation, prompt string) (string, error) {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.chatModel,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})

	duration := time.Since(start)

	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(g.provider, g.chatModel, operation, "error").Inc()
		metrics.GatewayErrorsTotal.WithLabelValues(g.provider, g.chatModel, operation, "api_error").Inc()
		return "", g.wrapErr(err, domain.ErrFeatureExtraction)
	}

	if len(resp.Choices) == 0 {
		metrics.GatewayRequestsTotal.WithLabelValues(g.provider, g.chatModel, operation, "error").Inc()
		metrics.GatewayErrorsTotal.WithLabelValues(g.provider, g.chatModel, operation, "empty_response").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrFeatureExtraction)
	}

	metrics.GatewayRequestsTotal.WithLabelValues(g.provider, g.chatModel, operation, "success").Inc()
	metrics.GatewayRequestDuration.WithLabelValues(g.provider, g.chatModel, operation).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.GatewayTokensTotal.WithLabelValues(g.provider, g.chatModel, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.GatewayTokensTotal.WithLabelValues(g.provider, g.chatModel, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// Embed implements domain.Embedder.
func (g *Gateway) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.EmbeddingResult{}, fmt.Errorf("empty text: %w", domain.ErrEmbeddingFailed)
	}

	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          g.embedModel,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}
	if g.dimensions > 0 {
		req.Dimensions = g.dimensions
	}

	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	start := time.Now()

	resp, err := g.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	model := string(g.embedModel)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(g.provider, model, "embedding", "error").Inc()
		metrics.GatewayErrorsTotal.WithLabelValues(g.provider, model, "embedding", "api_error").Inc()
		return domain.EmbeddingResult{}, g.wrapErr(err, domain.ErrEmbeddingFailed)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.GatewayRequestsTotal.WithLabelValues(g.provider, model, "embedding", "error").Inc()
		metrics.GatewayErrorsTotal.WithLabelValues(g.provider, model, "embedding", "empty_response").Inc()
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingFailed)
	}

	metrics.GatewayRequestsTotal.WithLabelValues(g.provider, model, "embedding", "success").Inc()
	metrics.GatewayRequestDuration.WithLabelValues(g.provider, model, "embedding").Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.GatewayTokensTotal.WithLabelValues(g.provider, model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.GatewayTokensTotal.WithLabelValues(g.provider, model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Embedding,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Gateway) HealthCheck(ctx context.Context) error {
	ctx, cancel := g.callCtx(ctx)
	defer cancel()

	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// callCtx bounds a single gateway call so an unresponsive provider cannot
// hang a request indefinitely.
func (g *Gateway) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// wrapErr maps a provider error onto a domain sentinel. A deadline hit gets
// its own sentinel so callers can distinguish timeouts from outright failures.
func (g *Gateway) wrapErr(err error, sentinel error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gateway call exceeded %s: %w", g.timeout, domain.ErrGatewayTimeout)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("gateway API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), sentinel)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gateway API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, sentinel)
	}

	return fmt.Errorf("gateway request failed: %v: %w", err, sentinel)
}

// decodeFeatures parses a completion into a typed features record, tolerating
// markdown code fences some models emit around JSON.
func decodeFeatures(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode features JSON: %w", err)
	}
	return nil
}
