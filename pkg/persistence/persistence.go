// Package persistence provides the data storage abstraction for workflows,
// executions and execution logs.
package persistence

import (
	"context"

	"github.com/graphline/graphline/pkg/models"
)

// Persistence is the storage contract the engine runs against. Each
// execution status transition and each log append is an independently
// committed write; there is no multi-statement transaction spanning a run.
// A crash mid-run therefore leaves the execution row in "running" state
// with a partial log, which is a documented limitation.
type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error

	CreateExecution(ctx context.Context, execution *models.WorkflowExecution) error
	SaveExecution(ctx context.Context, execution *models.WorkflowExecution) error
	ExecutionByID(ctx context.Context, id string) (*models.WorkflowExecution, error)
	ExecutionsByWorkflow(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error)

	// AppendLog stores one immutable node-visit record. Rows are never
	// updated or reordered; read-back order is append order.
	AppendLog(ctx context.Context, entry *models.ExecutionLog) error
	LogsByExecution(ctx context.Context, executionID string) ([]*models.ExecutionLog, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
