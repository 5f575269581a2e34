package trigger

import (
	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

// Factory creates TriggerNode instances.
type Factory struct{}

// NewFactory creates a new trigger node factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create builds a trigger executor bound to the execution scope.
func (f *Factory) Create(node *models.Node, scope protocol.ExecutionScope) (protocol.NodeExecutor, error) {
	return NewTriggerNode(node, scope), nil
}

// ID returns the node type identifier.
func (f *Factory) ID() string {
	return models.NodeTypeTrigger
}

// Name returns the factory name.
func (f *Factory) Name() string {
	return "Trigger"
}

// Description returns the factory description.
func (f *Factory) Description() string {
	return "Entry point of a workflow. Passes the input payload through unchanged."
}

// Schema returns the JSON schema for trigger node configuration.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
