// Package protocol defines the interfaces and contracts for pluggable node
// executors and the external clients they depend on.
package protocol

import (
	"context"
	"log/slog"

	"github.com/graphline/graphline/pkg/models"
)

// NodeExecutor is the contract every node type implements. Execute receives
// the current payload and returns the payload to pass downstream. On
// internal failure an executor logs a failed ExecutionLog row and returns
// the error; it must never swallow it. The orchestrator aborts the run on
// the first error.
type NodeExecutor interface {
	Execute(ctx context.Context, input map[string]any) (map[string]any, error)
}

// ExecutionScope binds a node executor to the run that owns it: the
// execution row to annotate, the recorder for audit log rows, and the
// run-scoped logger.
type ExecutionScope struct {
	Execution *models.WorkflowExecution
	Recorder  ExecutionRecorder
	Logger    *slog.Logger
}

// ExecutionRecorder appends immutable execution log rows.
type ExecutionRecorder interface {
	AppendLog(ctx context.Context, entry *models.ExecutionLog) error
}

// NodeFactory creates node executor instances and provides metadata about
// the node type.
type NodeFactory interface {
	// Create builds an executor for the given node definition, bound to
	// the given execution scope.
	Create(node *models.Node, scope ExecutionScope) (NodeExecutor, error)

	// ID returns the node type identifier this factory serves.
	ID() string

	// Name returns the human-readable name for this node type.
	Name() string

	// Description returns a description of what this node type does.
	Description() string

	// Schema returns the JSON schema for the node type's config mapping.
	Schema() map[string]any
}
