package output

import (
	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

// Factory creates OutputNode instances.
type Factory struct{}

// NewFactory creates a new output node factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create builds an output executor bound to the execution scope.
func (f *Factory) Create(node *models.Node, scope protocol.ExecutionScope) (protocol.NodeExecutor, error) {
	return NewOutputNode(node, scope), nil
}

// ID returns the node type identifier.
func (f *Factory) ID() string {
	return models.NodeTypeOutput
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Output"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Shapes the final payload, either verbatim or through a key template mapping."
}

// Schema returns the JSON schema for output node configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{
				"type": "object",
				"description": "Mapping of output key to template value. String values interpolate " +
					"{input_key} placeholders from scalar payload fields.",
			},
		},
	}
}
