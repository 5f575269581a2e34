package tool

import (
	"net/http"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

// Factory creates ToolNode instances bound to an injected HTTP client and
// SQL runner.
type Factory struct {
	httpClient *http.Client
	sqlRunner  protocol.SQLRunner
}

// NewFactory creates a new tool node factory. httpClient may be nil to use
// http.DefaultClient; sqlRunner may be nil when no database is configured,
// in which case sql-mode tools fail fast.
func NewFactory(httpClient *http.Client, sqlRunner protocol.SQLRunner) *Factory {
	return &Factory{httpClient: httpClient, sqlRunner: sqlRunner}
}

// Create builds a tool executor bound to the execution scope.
func (f *Factory) Create(node *models.Node, scope protocol.ExecutionScope) (protocol.NodeExecutor, error) {
	return NewToolNode(node, scope, f.httpClient, f.sqlRunner), nil
}

// ID returns the node type identifier.
func (f *Factory) ID() string {
	return models.NodeTypeTool
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Tool"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Performs an HTTP API call, a sandboxed expression transform, or templated SQL execution."
}

// Schema returns the JSON schema for tool node configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tool_type": map[string]any{
				"type":    "string",
				"enum":    []string{ToolTypeAPI, ToolTypeExpression, ToolTypeSQL},
				"default": ToolTypeAPI,
			},
			"api_endpoint": map[string]any{
				"type":        "string",
				"description": "Target URL for api tools.",
			},
			"api_method": map[string]any{
				"type":    "string",
				"enum":    []string{"GET", "POST", "PUT"},
				"default": "GET",
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Extra request headers for api tools.",
			},
			"expression": map[string]any{
				"type":        "string",
				"description": "Transform expression for expression tools. The payload is bound to `input`.",
			},
			"sql_query": map[string]any{
				"type":        "string",
				"description": "SQL template for sql tools. {field} placeholders substitute payload values.",
			},
		},
	}
}
