package condition

import (
	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

// Factory creates ConditionNode instances.
type Factory struct{}

// NewFactory creates a new condition node factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create builds a condition executor bound to the execution scope.
func (f *Factory) Create(node *models.Node, scope protocol.ExecutionScope) (protocol.NodeExecutor, error) {
	return NewConditionNode(node, scope), nil
}

// ID returns the node type identifier.
func (f *Factory) ID() string {
	return models.NodeTypeCondition
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Condition"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Evaluates an expression against the payload and routes execution to the true or false edge."
}

// Schema returns the JSON schema for condition node configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"condition": map[string]any{
				"type":        "string",
				"description": "Expression evaluated against payload fields.",
				"default":     defaultCondition,
				"examples": []string{
					`status == "active"`,
					`count > 10`,
					`enabled and mode != "test"`,
				},
			},
		},
	}
}
