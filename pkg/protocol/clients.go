package protocol

import (
	"context"

	"github.com/graphline/graphline/pkg/models"
)

// CompletionRequest is one synchronous chat completion: a system preamble
// plus a single user prompt.
type CompletionRequest struct {
	Model        string
	Temperature  float64
	SystemPrompt string
	UserPrompt   string
}

// LLMClient sends chat-completion requests to a language model provider.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Embedder computes a vector embedding for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// DocumentQuery describes one similarity search against the document store.
type DocumentQuery struct {
	Collection    string
	Embedding     []float64
	Limit         int
	MinSimilarity float64
}

// DocumentSearcher retrieves documents ordered by descending similarity to
// the query embedding.
type DocumentSearcher interface {
	SearchDocuments(ctx context.Context, query DocumentQuery) ([]*models.Document, error)
}

// SQLRunner executes already-rendered SQL text. Query is used for
// row-returning statements, Exec for everything else.
type SQLRunner interface {
	Query(ctx context.Context, query string) ([]map[string]any, error)
	Exec(ctx context.Context, query string) (int64, error)
}
