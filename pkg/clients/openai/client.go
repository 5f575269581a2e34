// Package openai adapts the OpenAI API to the completion and embedding
// contracts consumed by llm and vectorstore nodes.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/graphline/graphline/pkg/protocol"
)

// DefaultEmbeddingModel matches the 1536-dimension documents schema.
const DefaultEmbeddingModel = "text-embedding-3-small"

// Client wraps the OpenAI SDK behind protocol.LLMClient and
// protocol.Embedder.
type Client struct {
	client         openai.Client
	embeddingModel string
}

// Option configures a Client.
type Option func(*Client)

// WithEmbeddingModel overrides the embedding model.
func WithEmbeddingModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.embeddingModel = model
		}
	}
}

// NewClient creates an OpenAI-backed client. The base URL is optional and
// allows pointing at compatible gateways.
func NewClient(apiKey, baseURL string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}

	c := &Client{
		client:         openai.NewClient(clientOpts...),
		embeddingModel: DefaultEmbeddingModel,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Complete runs a single-turn chat completion and returns the first
// choice's content.
func (c *Client) Complete(ctx context.Context, request protocol.CompletionRequest) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(request.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(request.SystemPrompt),
			openai.UserMessage(request.UserPrompt),
		},
		Temperature: openai.Float(request.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector for one text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	response, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(response.Data) == 0 {
		return nil, errors.New("embedding response contained no data")
	}

	return response.Data[0].Embedding, nil
}

var (
	_ protocol.LLMClient = (*Client)(nil)
	_ protocol.Embedder  = (*Client)(nil)
)
