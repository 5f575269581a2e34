package tool

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
)

// executeExpression evaluates a user-authored expression over the payload,
// exposed to the expression environment as `input`. The expression grammar
// is expr-lang's; no host functions are exposed, so a definition can
// transform data but cannot execute arbitrary code.
func (n *ToolNode) executeExpression(input map[string]any) (any, error) {
	expression := n.configString("expression")
	if expression == "" {
		return nil, errors.New("missing required field 'expression'")
	}

	program, err := expr.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression: %w", err)
	}

	result, err := expr.Run(program, map[string]any{"input": input})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expression: %w", err)
	}

	return result, nil
}
