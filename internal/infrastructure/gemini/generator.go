// Package gemini wraps the Gemini text generation API
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
)

var (
	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("gemini api key is not configured")
	// ErrEmptyResponse is returned when the model produced no text
	ErrEmptyResponse = errors.New("gemini returned no text")
)

// Generator produces text completions for single prompts
type Generator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewGenerator creates a generator. Without an API key the generator is
// created disabled and every Generate call returns ErrNotConfigured.
func NewGenerator(cfg *config.AIConfig, m *metrics.Metrics, logger zerolog.Logger) (*Generator, error) {
	g := &Generator{
		model:   cfg.GeminiModel,
		timeout: cfg.Timeout,
		metrics: m,
		logger:  logger,
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn().Msg("GEMINI_API_KEY not set, AI replies will use fallbacks")
		return g, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.GeminiBaseURL,
		},
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.client = client

	logger.Info().Str("model", cfg.GeminiModel).Msg("Gemini generator initialized")
	return g, nil
}

// Enabled reports whether an API key is configured
func (g *Generator) Enabled() bool {
	return g.client != nil
}

// Generate returns the model's text for prompt
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", ErrNotConfigured
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.metrics.RecordAIRequest("error")
		g.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Gemini request failed")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		g.metrics.RecordAIRequest("empty")
		return "", ErrEmptyResponse
	}

	g.metrics.RecordAIRequest("success")
	g.logger.Debug().Dur("elapsed", time.Since(start)).Int("length", len(text)).Msg("Gemini response received")
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
