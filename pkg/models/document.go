package models

// Document is one row retrieved from the document store by a vectorstore
// node. Similarity is relative to the query embedding; Embedding is carried
// so MMR re-ranking can measure document-to-document similarity.
type Document struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Embedding  []float64      `json:"embedding,omitempty"`
}
