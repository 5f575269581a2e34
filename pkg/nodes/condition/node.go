// Package condition provides the branching node: it evaluates a sandboxed
// expression against the payload and records the boolean outcome that the
// orchestrator's successor resolution branches on.
//
// Expressions use expr-lang syntax (comparisons, boolean logic, arithmetic
// and field access over payload keys). No host functions are exposed to the
// expression environment.
package condition

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/expr-lang/expr"
	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/nodes"
	"github.com/graphline/graphline/pkg/protocol"
)

const defaultCondition = "true"

// ConditionNode evaluates one expression per visit.
type ConditionNode struct {
	base      nodes.Base
	condition string
}

// NewConditionNode creates a new condition node executor.
func NewConditionNode(node *models.Node, scope protocol.ExecutionScope) *ConditionNode {
	condition := defaultCondition
	if expression, ok := node.Config["condition"].(string); ok && expression != "" {
		condition = expression
	}

	return &ConditionNode{
		base:      nodes.NewBase(node, scope),
		condition: condition,
	}
}

// Execute evaluates the condition against the payload as the variable
// namespace and merges condition_result into the output. Compile and
// evaluation errors (including references to absent payload fields) are
// logged as failed and returned, aborting the run.
func (n *ConditionNode) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	started := time.Now()

	program, err := expr.Compile(n.condition)
	if err != nil {
		err = fmt.Errorf("failed to compile condition %q: %w", n.condition, err)
		n.base.LogExecution(ctx, input, nil, models.LogStatusFailed, err.Error(), time.Since(started))

		return nil, err
	}

	result, err := expr.Run(program, map[string]any(input))
	if err != nil {
		err = fmt.Errorf("failed to evaluate condition %q: %w", n.condition, err)
		n.base.LogExecution(ctx, input, nil, models.LogStatusFailed, err.Error(), time.Since(started))

		return nil, err
	}

	conditionResult := coerceBool(result)

	output := nodes.MergePayload(input, map[string]any{"condition_result": conditionResult})

	return n.base.LogExecution(ctx, input, output, models.LogStatusCompleted,
		fmt.Sprintf("condition evaluated to %t", conditionResult), time.Since(started)), nil
}

// coerceBool converts an expression result to a boolean by truthiness.
func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}

		return v != ""
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case nil:
		return false
	default:
		return false
	}
}
