// Package output provides the terminal shaping node: it either passes the
// payload through verbatim or rebuilds it from a template mapping.
package output

import (
	"context"
	"time"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/nodes"
	"github.com/graphline/graphline/pkg/protocol"
	"github.com/graphline/graphline/pkg/template"
)

// OutputNode shapes the final payload of a run.
type OutputNode struct {
	base     nodes.Base
	template map[string]any
}

// NewOutputNode creates a new output node executor.
func NewOutputNode(node *models.Node, scope protocol.ExecutionScope) *OutputNode {
	tmpl, _ := node.Config["template"].(map[string]any)

	return &OutputNode{
		base:     nodes.NewBase(node, scope),
		template: tmpl,
	}
}

// Execute renders the configured template. With no template the input is
// the output. String template values get {input_key} occurrences replaced
// by stringified scalar payload fields; non-string values are copied
// through without interpolation.
func (n *OutputNode) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	started := time.Now()

	if len(n.template) == 0 {
		return n.base.LogExecution(ctx, input, input,
			models.LogStatusCompleted, "output passed through", time.Since(started)), nil
	}

	output := make(map[string]any, len(n.template))

	for key, value := range n.template {
		if text, ok := value.(string); ok {
			output[key] = template.Render(text, input)
		} else {
			output[key] = value
		}
	}

	return n.base.LogExecution(ctx, input, output,
		models.LogStatusCompleted, "output template rendered", time.Since(started)), nil
}
