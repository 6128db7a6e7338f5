package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"readscore/internal/port"
)

// OpenAI is an LLM backed by the OpenAI chat completions API or any
// compatible endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI reads the API key from apiKeyEnv. A non-empty baseURL targets a
// compatible server; such servers may run without a key.
func NewOpenAI(apiKeyEnv, model, baseURL string) (*OpenAI, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" && baseURL == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	return o.chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
}

func (o *OpenAI) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return o.chat(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userPrompt},
	})
}

func (o *OpenAI) chat(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) ModelName() string {
	return o.model
}

var _ port.LLM = (*OpenAI)(nil)
