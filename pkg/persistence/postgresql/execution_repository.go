package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/persistence"
)

// ExecutionRepository handles execution and execution-log database
// operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

// Save upserts an execution row. Each call is one independently committed
// write; status transitions are not batched with log appends.
func (er *ExecutionRepository) Save(ctx context.Context, execution *models.WorkflowExecution) error {
	inputJSON, err := json.Marshal(execution.InputData)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	outputJSON, err := json.Marshal(execution.OutputData)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	pathJSON, err := json.Marshal(execution.ExecutionPath)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	query := `
		INSERT INTO workflow_executions (
			id, workflow_id, status, started_at, completed_at,
			input_data, output_data, execution_path, error_message
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_at = EXCLUDED.completed_at,
			output_data = EXCLUDED.output_data,
			execution_path = EXCLUDED.execution_path,
			error_message = EXCLUDED.error_message
	`

	_, err = er.db.ExecContext(ctx, query,
		execution.ID,
		nullableString(execution.WorkflowID),
		execution.Status,
		execution.StartedAt,
		execution.CompletedAt,
		inputJSON,
		outputJSON,
		pathJSON,
		nullableString(execution.ErrorMessage),
	)
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	return nil
}

// GetByID returns an execution by its ID, or ErrExecutionNotFound.
func (er *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	query := `
		SELECT id, workflow_id, status, started_at, completed_at,
			   input_data, output_data, execution_path, error_message
		FROM workflow_executions
		WHERE id = $1
	`

	execution, err := scanExecution(er.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
		}

		return nil, persistence.NewExecutionError("GetByID", id, err)
	}

	return execution, nil
}

// GetByWorkflow returns all executions of one workflow, most recent first.
func (er *ExecutionRepository) GetByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	query := `
		SELECT id, workflow_id, status, started_at, completed_at,
			   input_data, output_data, execution_path, error_message
		FROM workflow_executions
		WHERE workflow_id = $1
		ORDER BY started_at DESC
	`

	rows, err := er.db.QueryContext(ctx, query, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			er.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	executions := make([]*models.WorkflowExecution, 0)

	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

// AppendLog inserts one immutable log row.
func (er *ExecutionRepository) AppendLog(ctx context.Context, entry *models.ExecutionLog) error {
	inputJSON, err := json.Marshal(entry.InputData)
	if err != nil {
		return persistence.NewExecutionError("AppendLog", entry.ExecutionID, err)
	}

	outputJSON, err := json.Marshal(entry.OutputData)
	if err != nil {
		return persistence.NewExecutionError("AppendLog", entry.ExecutionID, err)
	}

	query := `
		INSERT INTO execution_logs (
			id, execution_id, node_id, input_data, output_data,
			status, message, duration_ms, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = er.db.ExecContext(ctx, query,
		entry.ID,
		entry.ExecutionID,
		entry.NodeID,
		inputJSON,
		outputJSON,
		entry.Status,
		nullableString(entry.Message),
		entry.DurationMS,
		entry.CreatedAt,
	)
	if err != nil {
		return persistence.NewExecutionError("AppendLog", entry.ExecutionID, err)
	}

	return nil
}

// Logs returns the execution's log rows in append order.
func (er *ExecutionRepository) Logs(ctx context.Context, executionID string) ([]*models.ExecutionLog, error) {
	query := `
		SELECT id, execution_id, node_id, input_data, output_data,
			   status, message, duration_ms, created_at
		FROM execution_logs
		WHERE execution_id = $1
		ORDER BY seq ASC
	`

	rows, err := er.db.QueryContext(ctx, query, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution logs: %w", err)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			er.logger.ErrorContext(ctx, "failed to close rows", "error", closeErr)
		}
	}()

	entries := make([]*models.ExecutionLog, 0)

	for rows.Next() {
		var (
			entry      models.ExecutionLog
			inputJSON  []byte
			outputJSON []byte
			message    sql.NullString
		)

		err := rows.Scan(
			&entry.ID,
			&entry.ExecutionID,
			&entry.NodeID,
			&inputJSON,
			&outputJSON,
			&entry.Status,
			&message,
			&entry.DurationMS,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution log: %w", err)
		}

		entry.Message = message.String

		if err := json.Unmarshal(inputJSON, &entry.InputData); err != nil {
			return nil, fmt.Errorf("failed to decode log input data: %w", err)
		}

		if len(outputJSON) > 0 {
			if err := json.Unmarshal(outputJSON, &entry.OutputData); err != nil {
				return nil, fmt.Errorf("failed to decode log output data: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating execution logs: %w", err)
	}

	return entries, nil
}

func scanExecution(row rowScanner) (*models.WorkflowExecution, error) {
	var (
		execution    models.WorkflowExecution
		workflowID   sql.NullString
		errorMessage sql.NullString
		inputJSON    []byte
		outputJSON   []byte
		pathJSON     []byte
	)

	err := row.Scan(
		&execution.ID,
		&workflowID,
		&execution.Status,
		&execution.StartedAt,
		&execution.CompletedAt,
		&inputJSON,
		&outputJSON,
		&pathJSON,
		&errorMessage,
	)
	if err != nil {
		return nil, err
	}

	execution.WorkflowID = workflowID.String
	execution.ErrorMessage = errorMessage.String

	if err := json.Unmarshal(inputJSON, &execution.InputData); err != nil {
		return nil, fmt.Errorf("failed to decode input data: %w", err)
	}

	if len(outputJSON) > 0 {
		if err := json.Unmarshal(outputJSON, &execution.OutputData); err != nil {
			return nil, fmt.Errorf("failed to decode output data: %w", err)
		}
	}

	if err := json.Unmarshal(pathJSON, &execution.ExecutionPath); err != nil {
		return nil, fmt.Errorf("failed to decode execution path: %w", err)
	}

	return &execution, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
