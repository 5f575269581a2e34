package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/graphline/graphline/pkg/protocol"
)

// SQLRunner executes arbitrary statements produced by sql tool nodes
// against the application database.
type SQLRunner struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLRunner creates a SQL runner over an existing connection pool.
func NewSQLRunner(db *sql.DB, logger *slog.Logger) *SQLRunner {
	return &SQLRunner{db: db, logger: logger}
}

// Query runs a statement and returns every row as a column-name keyed map.
func (sr *SQLRunner) Query(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := sr.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			sr.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	results := make([]map[string]any, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))

		for i, column := range columns {
			value := values[i]
			if raw, ok := value.([]byte); ok {
				value = string(raw)
			}

			row[column] = value
		}

		results = append(results, row)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// Exec runs a statement and returns the number of affected rows.
func (sr *SQLRunner) Exec(ctx context.Context, query string) (int64, error) {
	result, err := sr.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}

var _ protocol.SQLRunner = (*SQLRunner)(nil)
