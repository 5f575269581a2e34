// Package file provides file-based persistence for workflows, executions
// and execution logs. Each entity is one JSON document under the root
// directory.
package file

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the
// file system.
type Persistence struct {
	root          string
	workflowRepo  *WorkflowRepository
	executionRepo *ExecutionRepository
}

// NewPersistence creates a new file persistence layer rooted at the given
// directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:          cleanRoot,
		workflowRepo:  NewWorkflowRepository(cleanRoot),
		executionRepo: NewExecutionRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there
// is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) Workflows(ctx context.Context) ([]*models.Workflow, error) {
	return fp.workflowRepo.GetAll(ctx)
}

func (fp *Persistence) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	return fp.workflowRepo.GetByID(ctx, id)
}

func (fp *Persistence) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	return fp.workflowRepo.Save(ctx, workflow)
}

func (fp *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return fp.workflowRepo.Delete(ctx, id)
}

func (fp *Persistence) CreateExecution(ctx context.Context, execution *models.WorkflowExecution) error {
	return fp.executionRepo.Save(ctx, execution)
}

func (fp *Persistence) SaveExecution(ctx context.Context, execution *models.WorkflowExecution) error {
	return fp.executionRepo.Save(ctx, execution)
}

func (fp *Persistence) ExecutionByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	return fp.executionRepo.GetByID(ctx, id)
}

func (fp *Persistence) ExecutionsByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	return fp.executionRepo.GetByWorkflow(ctx, workflowID)
}

func (fp *Persistence) AppendLog(ctx context.Context, entry *models.ExecutionLog) error {
	return fp.executionRepo.AppendLog(ctx, entry)
}

func (fp *Persistence) LogsByExecution(ctx context.Context, executionID string) ([]*models.ExecutionLog, error) {
	return fp.executionRepo.Logs(ctx, executionID)
}

// validateID rejects identifiers that are unsafe for file operations.
func validateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if strings.Contains(id, "..") || strings.Contains(id, "/") || strings.Contains(id, "\\") {
		return errors.New("id contains invalid characters")
	}

	return nil
}

var _ persistence.Persistence = (*Persistence)(nil)
