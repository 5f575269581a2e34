// Package trigger provides the workflow entry-point node. It is a pure
// pass-through: the payload leaves exactly as it arrived.
package trigger

import (
	"context"
	"time"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/nodes"
	"github.com/graphline/graphline/pkg/protocol"
)

// TriggerNode marks the fixed entry point of a graph. It carries no side
// effect and has no error path.
type TriggerNode struct {
	base nodes.Base
}

// NewTriggerNode creates a new trigger node executor.
func NewTriggerNode(node *models.Node, scope protocol.ExecutionScope) *TriggerNode {
	return &TriggerNode{base: nodes.NewBase(node, scope)}
}

// Execute returns the input payload unchanged and logs the visit.
func (n *TriggerNode) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	started := time.Now()

	return n.base.LogExecution(ctx, input, input,
		models.LogStatusCompleted, "trigger fired", time.Since(started)), nil
}
