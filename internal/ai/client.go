package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured возвращается, когда API-ключ не задан.
var ErrNotConfigured = errors.New("ai client is not configured")

// Client - абстракция над LLM-провайдером для генерации текста и эмбеддингов.
type Client interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	Enabled() bool
}

// OpenAIClient - реализация поверх OpenAI API.
type OpenAIClient struct {
	api            *openai.Client
	model          string
	embeddingModel string
	timeout        time.Duration
	maxTokens      int
	temperature    float32
}

type Config struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Timeout        time.Duration
	MaxTokens      int
	Temperature    float32
}

// NewOpenAIClient создает клиента. Возвращает выключенный клиент, если
// ключ не задан: AI-эндпоинты в этом случае отвечают 503.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	c := &OpenAIClient{
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		timeout:        cfg.Timeout,
		maxTokens:      cfg.MaxTokens,
		temperature:    cfg.Temperature,
	}
	if cfg.APIKey != "" {
		c.api = openai.NewClient(cfg.APIKey)
	}
	return c
}

func (c *OpenAIClient) Enabled() bool {
	return c != nil && c.api != nil
}

func (c *OpenAIClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai: empty embeddings response")
	}
	return resp.Data[0].Embedding, nil
}
