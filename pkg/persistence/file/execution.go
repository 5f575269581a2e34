package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/persistence"
)

// ExecutionRepository handles execution and execution-log file operations.
type ExecutionRepository struct {
	root string
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

func (er *ExecutionRepository) executionsDir() string {
	return filepath.Join(er.root, "executions")
}

func (er *ExecutionRepository) logPath(executionID string) string {
	return filepath.Join(er.root, "logs", executionID+".json")
}

// Save writes the execution document, creating or replacing it.
func (er *ExecutionRepository) Save(_ context.Context, execution *models.WorkflowExecution) error {
	if err := validateID(execution.ID); err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	if err := os.MkdirAll(er.executionsDir(), 0750); err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	data, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	path := filepath.Join(er.executionsDir(), execution.ID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return persistence.NewExecutionError("Save", execution.ID, err)
	}

	return nil
}

// GetByID returns an execution by its ID, or ErrExecutionNotFound.
func (er *ExecutionRepository) GetByID(_ context.Context, id string) (*models.WorkflowExecution, error) {
	if err := validateID(id); err != nil {
		return nil, persistence.NewExecutionError("GetByID", id, err)
	}

	data, err := os.ReadFile(filepath.Join(er.executionsDir(), id+".json")) // #nosec G304 -- id is validated
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
		}

		return nil, persistence.NewExecutionError("GetByID", id, err)
	}

	var execution models.WorkflowExecution
	if err := json.Unmarshal(data, &execution); err != nil {
		return nil, persistence.NewExecutionError("GetByID", id, err)
	}

	return &execution, nil
}

// GetByWorkflow returns all executions of one workflow, most recent first.
func (er *ExecutionRepository) GetByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	root := os.DirFS(er.executionsDir())

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list execution files: %w", err)
	}

	executions := make([]*models.WorkflowExecution, 0)

	for _, file := range jsonFiles {
		executionID := file[:len(file)-5]

		execution, err := er.GetByID(ctx, executionID)
		if err != nil {
			return nil, err
		}

		if execution.WorkflowID == workflowID {
			executions = append(executions, execution)
		}
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.After(executions[j].StartedAt)
	})

	return executions, nil
}

// AppendLog appends one log row to the execution's log file. Append is
// read-modify-write; rows are never updated in place.
func (er *ExecutionRepository) AppendLog(ctx context.Context, entry *models.ExecutionLog) error {
	if err := validateID(entry.ExecutionID); err != nil {
		return persistence.NewExecutionError("AppendLog", entry.ExecutionID, err)
	}

	if err := os.MkdirAll(filepath.Join(er.root, "logs"), 0750); err != nil {
		return persistence.NewExecutionError("AppendLog", entry.ExecutionID, err)
	}

	entries, err := er.Logs(ctx, entry.ExecutionID)
	if err != nil {
		return err
	}

	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return persistence.NewExecutionError("AppendLog", entry.ExecutionID, err)
	}

	if err := os.WriteFile(er.logPath(entry.ExecutionID), data, 0600); err != nil {
		return persistence.NewExecutionError("AppendLog", entry.ExecutionID, err)
	}

	return nil
}

// Logs returns the execution's log rows in append order.
func (er *ExecutionRepository) Logs(_ context.Context, executionID string) ([]*models.ExecutionLog, error) {
	if err := validateID(executionID); err != nil {
		return nil, persistence.NewExecutionError("Logs", executionID, err)
	}

	data, err := os.ReadFile(er.logPath(executionID)) // #nosec G304 -- id is validated
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.ExecutionLog{}, nil
		}

		return nil, persistence.NewExecutionError("Logs", executionID, err)
	}

	var entries []*models.ExecutionLog
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, persistence.NewExecutionError("Logs", executionID, err)
	}

	return entries, nil
}
