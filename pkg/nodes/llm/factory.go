package llm

import (
	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

// Factory creates LLMNode instances bound to an injected completion client.
type Factory struct {
	client       protocol.LLMClient
	defaultModel string
}

// NewFactory creates a new LLM node factory. client may be nil when no
// provider credentials are available.
func NewFactory(client protocol.LLMClient, defaultModel string) *Factory {
	return &Factory{client: client, defaultModel: defaultModel}
}

// Create builds an LLM executor bound to the execution scope.
func (f *Factory) Create(node *models.Node, scope protocol.ExecutionScope) (protocol.NodeExecutor, error) {
	return NewLLMNode(node, scope, f.client, f.defaultModel), nil
}

// ID returns the node type identifier.
func (f *Factory) ID() string {
	return models.NodeTypeLLM
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "LLM"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Sends a templated prompt to a language model and merges the response into the payload."
}

// Schema returns the JSON schema for LLM node configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model": map[string]any{
				"type":        "string",
				"description": "Model identifier. Defaults to the engine-wide model.",
			},
			"temperature": map[string]any{
				"type":        "number",
				"description": "Sampling temperature.",
				"default":     defaultTemperature,
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "User prompt template. {key} placeholders resolve against the payload.",
			},
			"system_prompt": map[string]any{
				"type":        "string",
				"description": "System preamble. Defaults to a generic assistant preamble.",
			},
		},
		"required": []string{"prompt"},
	}
}
