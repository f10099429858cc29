package service

import (
	"context"
	"log/slog"

	"github.com/gschargev/giftdesk/internal/ai"
	"github.com/gschargev/giftdesk/internal/domain"
	"github.com/gschargev/giftdesk/internal/metrics"
)

// Fixed fallbacks shown when generation fails. The assistant never surfaces
// a raw provider error to the user.
const (
	GreetingFallback   = "감사 인사를 생성하는 중 오류가 발생했습니다. 직접 입력해 주세요."
	SuggestionFallback = "선물 추천을 불러올 수 없습니다."
)

// =============================================================================
// Interface Definition
// =============================================================================

// AssistService drafts holiday greetings and gift suggestions.
type AssistService interface {
	// GenerateGreeting drafts a holiday thank-you message for a client
	// contact. Always returns usable text; provider failures yield
	// GreetingFallback.
	GenerateGreeting(ctx context.Context, clientName, company, position string, holiday domain.Holiday) string

	// SuggestGift drafts gift ideas for a client tier and holiday. Always
	// returns usable text; provider failures yield SuggestionFallback.
	SuggestGift(ctx context.Context, category domain.ClientCategory, holiday domain.Holiday) string
}

// =============================================================================
// Implementation
// =============================================================================

type assistService struct {
	provider ai.Provider
	logger   *slog.Logger
}

// NewAssistService creates a new AssistService.
func NewAssistService(provider ai.Provider, logger *slog.Logger) AssistService {
	return &assistService{
		provider: provider,
		logger:   logger,
	}
}

func (s *assistService) GenerateGreeting(ctx context.Context, clientName, company, position string, holiday domain.Holiday) string {
	prompt := ai.GreetingPrompt(clientName, company, position, holiday)

	text, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		metrics.AIAPICalls.WithLabelValues("greeting", "error").Inc()
		s.logger.Error("greeting generation failed", "error", err, "holiday", holiday)
		return GreetingFallback
	}

	metrics.AIAPICalls.WithLabelValues("greeting", "success").Inc()
	return text
}

func (s *assistService) SuggestGift(ctx context.Context, category domain.ClientCategory, holiday domain.Holiday) string {
	prompt := ai.SuggestionPrompt(category, holiday)

	text, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		metrics.AIAPICalls.WithLabelValues("suggestion", "error").Inc()
		s.logger.Error("gift suggestion failed", "error", err, "category", category, "holiday", holiday)
		return SuggestionFallback
	}

	metrics.AIAPICalls.WithLabelValues("suggestion", "success").Inc()
	return text
}
