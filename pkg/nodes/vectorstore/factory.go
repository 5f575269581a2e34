package vectorstore

import (
	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

// Factory creates VectorstoreNode instances bound to injected embedding and
// search clients.
type Factory struct {
	embedder protocol.Embedder
	searcher protocol.DocumentSearcher
}

// NewFactory creates a new vectorstore node factory. Either client may be
// nil when the backing services are unavailable; execution then fails fast.
func NewFactory(embedder protocol.Embedder, searcher protocol.DocumentSearcher) *Factory {
	return &Factory{embedder: embedder, searcher: searcher}
}

// Create builds a vectorstore executor bound to the execution scope.
func (f *Factory) Create(node *models.Node, scope protocol.ExecutionScope) (protocol.NodeExecutor, error) {
	return NewVectorstoreNode(node, scope, f.embedder, f.searcher), nil
}

// ID returns the node type identifier.
func (f *Factory) ID() string {
	return models.NodeTypeVectorstore
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Vectorstore"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Retrieves documents relevant to the payload via similarity or MMR search."
}

// Schema returns the JSON schema for vectorstore node configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"collection": map[string]any{
				"type":        "string",
				"description": "Document namespace to search.",
			},
			"search_type": map[string]any{
				"type":        "string",
				"enum":        []string{SearchTypeSimilarity, SearchTypeMMR},
				"default":     SearchTypeSimilarity,
				"description": "Plain similarity ranking or MMR diversity re-ranking.",
			},
			"top_k": map[string]any{
				"type":        "number",
				"default":     defaultTopK,
				"description": "Number of documents to return.",
			},
			"query_key": map[string]any{
				"type":        "string",
				"description": "Payload field holding the search text.",
			},
		},
	}
}
