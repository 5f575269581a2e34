// Package tool provides the side-effecting node with three sub-modes: a
// generic HTTP API call, a sandboxed expression transform, and templated
// SQL execution.
package tool

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/nodes"
	"github.com/graphline/graphline/pkg/protocol"
)

// Tool sub-modes selected by the tool_type config field.
const (
	ToolTypeAPI        = "api"
	ToolTypeExpression = "expression"
	ToolTypeSQL        = "sql"
)

// ToolNode dispatches on its configured sub-mode and merges tool_result
// into the payload on success.
type ToolNode struct {
	base       nodes.Base
	toolType   string
	config     map[string]any
	httpClient *http.Client
	sqlRunner  protocol.SQLRunner
}

// NewToolNode creates a new tool node executor.
func NewToolNode(
	node *models.Node,
	scope protocol.ExecutionScope,
	httpClient *http.Client,
	sqlRunner protocol.SQLRunner,
) *ToolNode {
	toolType := ToolTypeAPI
	if configured, ok := node.Config["tool_type"].(string); ok && configured != "" {
		toolType = configured
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ToolNode{
		base:       nodes.NewBase(node, scope),
		toolType:   toolType,
		config:     node.Config,
		httpClient: httpClient,
		sqlRunner:  sqlRunner,
	}
}

// Execute runs the configured sub-mode. Any sub-mode failure is logged with
// a type-tagged message and returned.
func (n *ToolNode) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	started := time.Now()

	var (
		result any
		err    error
	)

	switch n.toolType {
	case ToolTypeAPI:
		result, err = n.executeAPI(ctx, input)
	case ToolTypeExpression:
		result, err = n.executeExpression(input)
	case ToolTypeSQL:
		result, err = n.executeSQL(ctx, input)
	default:
		err = fmt.Errorf("unknown tool type %q", n.toolType)
	}

	if err != nil {
		err = fmt.Errorf("%s tool failed: %w", n.toolType, err)
		n.base.LogExecution(ctx, input, nil, models.LogStatusFailed, err.Error(), time.Since(started))

		return nil, err
	}

	output := nodes.MergePayload(input, map[string]any{"tool_result": result})

	return n.base.LogExecution(ctx, input, output, models.LogStatusCompleted,
		fmt.Sprintf("%s tool completed", n.toolType), time.Since(started)), nil
}

func (n *ToolNode) configString(key string) string {
	value, _ := n.config[key].(string)

	return value
}
