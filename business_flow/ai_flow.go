package businessflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/pulsecrm/pulse/app/dto"
	"github.com/pulsecrm/pulse/app/services"
	"github.com/pulsecrm/pulse/config"
)

// AIFlow produces campaign copy suggestions and delivery summaries. When the
// text generation backend is unavailable it falls back to canned output so
// the endpoints always answer.
type AIFlow interface {
	SuggestMessages(ctx context.Context, req *dto.SuggestMessagesRequest, metadata *ClientMetadata) (*dto.SuggestMessagesResponse, error)
	SummarizeCampaign(ctx context.Context, req *dto.SummarizeCampaignRequest, metadata *ClientMetadata) (*dto.SummarizeCampaignResponse, error)
}

// AIFlowImpl implements the AI flow
type AIFlowImpl struct {
	textGen     services.TextGenService
	rc          *redis.Client
	cacheConfig *config.CacheConfig
	logger      *log.Logger
}

// NewAIFlow creates a new AI flow instance
func NewAIFlow(textGen services.TextGenService, rc *redis.Client, cacheConfig *config.CacheConfig, logger *log.Logger) AIFlow {
	return &AIFlowImpl{textGen: textGen, rc: rc, cacheConfig: cacheConfig, logger: logger}
}

// SuggestMessages returns message variants for an objective. Suggestions are
// cached per objective since the prompt is deterministic; delivery reports
// never go through this path.
func (s *AIFlowImpl) SuggestMessages(ctx context.Context, req *dto.SuggestMessagesRequest, metadata *ClientMetadata) (*dto.SuggestMessagesResponse, error) {
	if strings.TrimSpace(req.Objective) == "" {
		return nil, NewBusinessError("AI_VALIDATION_FAILED", "Objective is required", ErrObjectiveRequired)
	}

	cacheKey := s.suggestionCacheKey(req.Objective)
	if cached := s.cachedSuggestions(ctx, cacheKey); cached != nil {
		return &dto.SuggestMessagesResponse{Suggestions: cached}, nil
	}

	suggestions, err := s.textGen.SuggestMessages(ctx, req.Objective)
	if err != nil {
		s.logger.Printf("text generation failed, using fallback suggestions: %v", err)
		suggestions = []string{
			fmt.Sprintf("Special offer just for you! (%s)", req.Objective),
			fmt.Sprintf("Don't miss out - exclusive deal on %s", req.Objective),
			fmt.Sprintf("Your next %s is waiting with 10%% off!", req.Objective),
		}
	} else {
		s.storeSuggestions(ctx, cacheKey, suggestions)
	}

	return &dto.SuggestMessagesResponse{Suggestions: suggestions}, nil
}

// SummarizeCampaign turns delivery counts into a short narrative.
func (s *AIFlowImpl) SummarizeCampaign(ctx context.Context, req *dto.SummarizeCampaignRequest, metadata *ClientMetadata) (*dto.SummarizeCampaignResponse, error) {
	stats := services.CampaignStats{
		Name:         req.Name,
		AudienceSize: *req.AudienceSize,
		Sent:         *req.Sent,
		Failed:       *req.Failed,
	}

	summary, err := s.textGen.SummarizeCampaign(ctx, stats)
	if err != nil {
		s.logger.Printf("text generation failed, using fallback summary: %v", err)
		summary = fmt.Sprintf("Campaign %q reached %d users. %d delivered, %d failed. Most messages reached successfully.",
			stats.Name, stats.AudienceSize, stats.Sent, stats.Failed)
	}

	return &dto.SummarizeCampaignResponse{Summary: summary}, nil
}

func (s *AIFlowImpl) suggestionCacheKey(objective string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(objective))))
	return "ai:suggestions:" + hex.EncodeToString(sum[:16])
}

func (s *AIFlowImpl) cachedSuggestions(ctx context.Context, key string) []string {
	if s.rc == nil || !s.cacheConfig.Enabled {
		return nil
	}
	raw, err := s.rc.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Printf("suggestion cache read failed: %v", err)
		}
		return nil
	}
	var suggestions []string
	if err := json.Unmarshal([]byte(raw), &suggestions); err != nil {
		return nil
	}
	return suggestions
}

func (s *AIFlowImpl) storeSuggestions(ctx context.Context, key string, suggestions []string) {
	if s.rc == nil || !s.cacheConfig.Enabled {
		return
	}
	raw, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	if err := s.rc.Set(ctx, key, raw, s.cacheConfig.TTL).Err(); err != nil {
		s.logger.Printf("suggestion cache write failed: %v", err)
	}
}
