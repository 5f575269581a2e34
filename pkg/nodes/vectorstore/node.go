// Package vectorstore provides the document retrieval node: it embeds a
// query drawn from the payload and fetches the most relevant documents from
// the document store, optionally re-ranked for diversity with MMR.
package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/nodes"
	"github.com/graphline/graphline/pkg/protocol"
)

const (
	SearchTypeSimilarity = "similarity"
	SearchTypeMMR        = "mmr"

	defaultTopK = 3

	// minSimilarity is the fixed floor applied to every search.
	minSimilarity = 0.5
)

// VectorstoreConfig defines the configuration for vectorstore nodes.
type VectorstoreConfig struct {
	Collection string `json:"collection"`
	SearchType string `json:"search_type"`
	TopK       int    `json:"top_k"`
	QueryKey   string `json:"query_key"`
}

// VectorstoreNode retrieves documents relevant to the payload.
type VectorstoreNode struct {
	base     nodes.Base
	embedder protocol.Embedder
	searcher protocol.DocumentSearcher
	config   VectorstoreConfig
}

// NewVectorstoreNode creates a new vectorstore node executor.
func NewVectorstoreNode(
	node *models.Node,
	scope protocol.ExecutionScope,
	embedder protocol.Embedder,
	searcher protocol.DocumentSearcher,
) *VectorstoreNode {
	config := VectorstoreConfig{
		SearchType: SearchTypeSimilarity,
		TopK:       defaultTopK,
	}

	if collection, ok := node.Config["collection"].(string); ok {
		config.Collection = collection
	}

	if searchType, ok := node.Config["search_type"].(string); ok && searchType != "" {
		config.SearchType = searchType
	}

	if topK, ok := nodes.ConfigFloat(node.Config, "top_k"); ok && topK > 0 {
		config.TopK = int(topK)
	}

	if queryKey, ok := node.Config["query_key"].(string); ok {
		config.QueryKey = queryKey
	}

	return &VectorstoreNode{
		base:     nodes.NewBase(node, scope),
		embedder: embedder,
		searcher: searcher,
		config:   config,
	}
}

// Execute embeds the query text, searches the configured collection and
// merges documents and query into the payload.
func (n *VectorstoreNode) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	started := time.Now()

	if n.embedder == nil || n.searcher == nil {
		err := errors.New("vectorstore clients are not configured")
		n.base.LogExecution(ctx, input, nil, models.LogStatusFailed, err.Error(), time.Since(started))

		return nil, err
	}

	query := n.resolveQuery(input)

	embedding, err := n.embedder.Embed(ctx, query)
	if err != nil {
		err = fmt.Errorf("failed to embed query: %w", err)
		n.base.LogExecution(ctx, input, nil, models.LogStatusFailed, err.Error(), time.Since(started))

		return nil, err
	}

	documents, err := n.search(ctx, embedding)
	if err != nil {
		err = fmt.Errorf("document search failed: %w", err)
		n.base.LogExecution(ctx, input, nil, models.LogStatusFailed, err.Error(), time.Since(started))

		return nil, err
	}

	output := nodes.MergePayload(input, map[string]any{
		"documents": documentPayload(documents),
		"query":     query,
	})

	return n.base.LogExecution(ctx, input, output, models.LogStatusCompleted,
		fmt.Sprintf("retrieved %d documents", len(documents)), time.Since(started)), nil
}

func (n *VectorstoreNode) search(ctx context.Context, embedding []float64) ([]*models.Document, error) {
	limit := n.config.TopK
	if n.config.SearchType == SearchTypeMMR {
		// Overfetch candidates; the greedy selection trims back to top_k.
		limit = 2 * n.config.TopK
	}

	documents, err := n.searcher.SearchDocuments(ctx, protocol.DocumentQuery{
		Collection:    n.config.Collection,
		Embedding:     embedding,
		Limit:         limit,
		MinSimilarity: minSimilarity,
	})
	if err != nil {
		return nil, err
	}

	if n.config.SearchType == SearchTypeMMR {
		documents = selectMMR(documents, n.config.TopK, mmrLambda)
	}

	return documents, nil
}

// resolveQuery picks the search text: the configured query_key field if it
// holds a string, else the first string-valued payload field longer than 5
// characters, else the JSON-serialized payload.
func (n *VectorstoreNode) resolveQuery(input map[string]any) string {
	if n.config.QueryKey != "" {
		if text, ok := input[n.config.QueryKey].(string); ok {
			return text
		}
	}

	keys := make([]string, 0, len(input))
	for key := range input {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		if text, ok := input[key].(string); ok && len(text) > 5 {
			return text
		}
	}

	data, err := json.Marshal(input)
	if err != nil {
		return fmt.Sprintf("%v", input)
	}

	return string(data)
}

// documentPayload flattens documents into plain maps for the payload;
// embeddings stay internal to the node.
func documentPayload(documents []*models.Document) []map[string]any {
	payload := make([]map[string]any, 0, len(documents))

	for _, doc := range documents {
		payload = append(payload, map[string]any{
			"id":         doc.ID,
			"title":      doc.Title,
			"content":    doc.Content,
			"similarity": doc.Similarity,
			"metadata":   doc.Metadata,
		})
	}

	return payload
}
