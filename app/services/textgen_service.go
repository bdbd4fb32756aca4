package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pulsecrm/pulse/config"
)

// CampaignStats carries the numbers a summary is written from.
type CampaignStats struct {
	Name         string
	AudienceSize int64
	Sent         int64
	Failed       int64
}

// TextGenService is the text-generation collaborator: short promotional
// message suggestions and campaign performance summaries. Callers must treat
// it as unreachable at any time and fall back to static text.
type TextGenService interface {
	SuggestMessages(ctx context.Context, objective string) ([]string, error)
	SummarizeCampaign(ctx context.Context, stats CampaignStats) (string, error)
}

// OpenAITextGen calls an OpenAI-compatible chat completions endpoint.
type OpenAITextGen struct {
	cfg    config.TextGenConfig
	client *http.Client
}

// NewOpenAITextGen creates a text generation client for the configured endpoint
func NewOpenAITextGen(cfg config.TextGenConfig) *OpenAITextGen {
	return &OpenAITextGen{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// SuggestMessages asks for three short promotional messages for the objective.
func (g *OpenAITextGen) SuggestMessages(ctx context.Context, objective string) ([]string, error) {
	content, err := g.complete(ctx,
		"You are an assistant generating short marketing messages.",
		fmt.Sprintf("Generate 3 short promotional messages for this campaign objective: %q.", objective),
	)
	if err != nil {
		return nil, err
	}

	var suggestions []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			suggestions = append(suggestions, line)
		}
	}
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("text generation returned no suggestions")
	}

	return suggestions, nil
}

// SummarizeCampaign asks for a short business insight over campaign stats.
func (g *OpenAITextGen) SummarizeCampaign(ctx context.Context, stats CampaignStats) (string, error) {
	content, err := g.complete(ctx,
		"You are an assistant summarizing marketing campaign performance.",
		fmt.Sprintf("Summarize this campaign: %q. Stats: Audience size: %d, Sent: %d, Failed: %d. Provide a short business insight.",
			stats.Name, stats.AudienceSize, stats.Sent, stats.Failed),
	)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

func (g *OpenAITextGen) complete(ctx context.Context, system, user string) (string, error) {
	if !g.cfg.Enabled || g.cfg.APIKey == "" {
		return "", fmt.Errorf("text generation is not configured")
	}

	body, _ := json.Marshal(chatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens: g.cfg.MaxTokens,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("text generation http status: %d", resp.StatusCode)
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("text generation returned no choices")
	}

	return out.Choices[0].Message.Content, nil
}
