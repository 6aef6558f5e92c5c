package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"catalogapi/internal/config"
)

const systemPrompt = `You are a helpful assistant that improves catalog item titles and descriptions.
Your goal is to make them more descriptive, engaging, and SEO-friendly while maintaining accuracy.
Respond in JSON format with: {"suggestedTitle": "...", "suggestedDescription": "..."}`

const userPromptFormat = `Improve the following catalog item:

Title: %s
Description: %s

Provide:
1. A better, more descriptive title (12-50 characters)
2. An improved description (at least 60 characters, clear and engaging, not more than 140 characters)

Return only valid JSON.`

// openAISuggester implements Suggester against the OpenAI chat completion API.
type openAISuggester struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a Suggester backed by OpenAI. Outbound HTTP calls carry
// trace context via otelhttp.
func NewOpenAI(cfg config.OpenAIConfig) (Suggester, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	return &openAISuggester{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Suggest asks the model for improved content in JSON mode. Missing fields in
// the reply fall back to the original input.
func (s *openAISuggester) Suggest(ctx context.Context, req Request) (*Suggestion, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.7,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPromptFormat, req.Title, req.Description)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("empty response from openai")
	}

	var parsed struct {
		SuggestedTitle       string `json:"suggestedTitle"`
		SuggestedDescription string `json:"suggestedDescription"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("parse suggestion response: %w", err)
	}

	out := &Suggestion{
		SuggestedTitle:       parsed.SuggestedTitle,
		SuggestedDescription: parsed.SuggestedDescription,
	}
	if out.SuggestedTitle == "" {
		out.SuggestedTitle = req.Title
	}
	if out.SuggestedDescription == "" {
		out.SuggestedDescription = req.Description
	}
	return out, nil
}
