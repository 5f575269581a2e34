// Package registry maps node types to executor factories. The registry is
// built explicitly by the caller, so every engine instance carries exactly
// the node types and backing clients it was constructed with.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.NodeFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.NodeFactory),
	}
}

// Register adds a node factory under its type identifier. Registering the
// same type twice replaces the earlier factory.
func (r *Registry) Register(factory protocol.NodeFactory) {
	r.factories[factory.ID()] = factory
	r.logger.Debug("Registered node type", "type", factory.ID())
}

// CreateExecutor builds an executor for the node, bound to the execution
// scope. An unregistered node type is a definition error.
func (r *Registry) CreateExecutor(node *models.Node, scope protocol.ExecutionScope) (protocol.NodeExecutor, error) {
	factory, ok := r.factories[node.Type]
	if !ok {
		return nil, fmt.Errorf("no executor registered for node type '%s'", node.Type)
	}

	return factory.Create(node, scope)
}

// NodeTypes returns the registered type identifiers in sorted order.
func (r *Registry) NodeTypes() []string {
	types := make([]string, 0, len(r.factories))
	for nodeType := range r.factories {
		types = append(types, nodeType)
	}

	sort.Strings(types)

	return types
}

// Schemas returns the per-type config schemas of all registered factories.
func (r *Registry) Schemas() map[string]map[string]any {
	schemas := make(map[string]map[string]any, len(r.factories))
	for nodeType, factory := range r.factories {
		schemas[nodeType] = factory.Schema()
	}

	return schemas
}
