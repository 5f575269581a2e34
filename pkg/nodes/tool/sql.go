package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/graphline/graphline/pkg/template"
)

// executeSQL renders the sql_query template against the payload and runs
// the resulting statement verbatim. Statements starting with SELECT return
// all rows as a list of mappings; anything else returns the affected row
// count.
func (n *ToolNode) executeSQL(ctx context.Context, input map[string]any) (any, error) {
	if n.sqlRunner == nil {
		return nil, errors.New("sql runner is not configured")
	}

	queryTemplate := n.configString("sql_query")
	if queryTemplate == "" {
		return nil, errors.New("missing required field 'sql_query'")
	}

	query, err := template.RenderSQL(queryTemplate, input)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(query)), "select") {
		rows, err := n.sqlRunner.Query(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}

		return rows, nil
	}

	affected, err := n.sqlRunner.Exec(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("statement failed: %w", err)
	}

	return map[string]any{"rows_affected": affected}, nil
}
