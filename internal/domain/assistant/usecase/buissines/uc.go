// Package buissines contains business logic for the assistant domain
package buissines

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/assistant/deps"
	"github.com/Conte777/botflow/internal/domain/assistant/entities"
	platform "github.com/Conte777/botflow/internal/domain/platform/entities"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
)

// UseCase generates replies and campaign copy. None of its operations
// return errors: every failure degrades to a deterministic default.
type UseCase struct {
	generator deps.Generator
	limiter   *rate.Limiter
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(generator deps.Generator, cfg *config.AIConfig, m *metrics.Metrics, logger zerolog.Logger) *UseCase {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &UseCase{
		generator: generator,
		limiter:   rate.NewLimiter(limit, burst),
		metrics:   m,
		logger:    logger,
	}
}

func (uc *UseCase) enabled() bool {
	return uc.generator != nil && uc.generator.Enabled()
}

// generate calls the backend unless it is unconfigured or throttled; ok is false on any failure
func (uc *UseCase) generate(ctx context.Context, op, prompt string) (string, bool) {
	if !uc.enabled() {
		return "", false
	}

	if !uc.limiter.Allow() {
		uc.metrics.RecordAIRequest("throttled")
		uc.logger.Warn().Str("op", op).Msg("AI request throttled, using fallback")
		return "", false
	}

	text, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		uc.logger.Warn().Err(err).Str("op", op).Msg("AI generation failed, using fallback")
		return "", false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// GenerateReply answers an incoming message in context
func (uc *UseCase) GenerateReply(ctx context.Context, incoming string, rc entities.ConversationContext) entities.Reply {
	if text, ok := uc.generate(ctx, "reply", buildReplyPrompt(incoming, rc)); ok {
		return entities.Reply{Text: text, Origin: platform.OriginAI}
	}

	return entities.Reply{Text: FallbackReply(incoming), Origin: platform.OriginFallback}
}

// GenerateCampaignCopy writes campaign content for prompt in the given tone
func (uc *UseCase) GenerateCampaignCopy(ctx context.Context, prompt string, tone entities.Tone) string {
	if !uc.enabled() {
		return entities.CampaignCopyUnconfigured
	}
	if tone == "" {
		tone = entities.DefaultTone
	}

	if text, ok := uc.generate(ctx, "campaign_copy", buildCampaignPrompt(prompt, tone)); ok {
		return text
	}
	return entities.CampaignCopyPlaceholder
}

// ImproveCopy rewrites text towards goals; the original text is returned on failure
func (uc *UseCase) ImproveCopy(ctx context.Context, text string, goals []string) string {
	if len(goals) == 0 {
		goals = entities.DefaultGoals
	}

	if improved, ok := uc.generate(ctx, "improve_copy", buildImprovePrompt(text, goals)); ok {
		return improved
	}
	return text
}
