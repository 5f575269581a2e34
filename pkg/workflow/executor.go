// Package workflow provides the orchestrator that walks a node graph,
// dispatches each node to its executor and finalizes the execution record.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/otelhelper"
	"github.com/graphline/graphline/pkg/persistence"
	"github.com/graphline/graphline/pkg/protocol"
	"github.com/graphline/graphline/pkg/registry"
)

// Executor runs workflow definitions. One Executor serves many runs; each
// run is fully independent and strictly sequential (no fan-out, no per-
// workflow locking, no retries).
type Executor struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewExecutor creates a workflow executor with injected persistence and
// node registry.
func NewExecutor(store persistence.Persistence, reg *registry.Registry, logger *slog.Logger) *Executor {
	return &Executor{
		persistence: store,
		registry:    reg,
		logger:      logger,
	}
}

// WithTracer attaches an OpenTelemetry tracer; without one, runs are not
// traced.
func (e *Executor) WithTracer(tracer trace.Tracer) *Executor {
	e.tracer = tracer

	return e
}

// Execute runs a persisted workflow by id against the input payload and
// returns the final payload. Inactive or missing workflows are refused
// before any execution row is created.
func (e *Executor) Execute(ctx context.Context, workflowID string, input map[string]any) (map[string]any, error) {
	wf, err := e.persistence.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	if !wf.IsActive {
		return nil, fmt.Errorf("workflow %s is not active", workflowID)
	}

	execution := models.NewWorkflowExecution(newExecutionID(), wf.ID, snapshot(input))

	return e.run(ctx, execution, wf.Definition)
}

// ExecuteDefinition runs an ad-hoc definition that is not persisted as a
// workflow. The execution record is still created and finalized, with an
// empty workflow id.
func (e *Executor) ExecuteDefinition(ctx context.Context, def *models.WorkflowDefinition, input map[string]any) (map[string]any, error) {
	execution := models.NewWorkflowExecution(newExecutionID(), "", snapshot(input))

	return e.run(ctx, execution, def)
}

func (e *Executor) run(ctx context.Context, execution *models.WorkflowExecution, def *models.WorkflowDefinition) (map[string]any, error) {
	logger := e.logger.With(
		"execution_id", execution.ID,
		"workflow_id", execution.WorkflowID,
	)

	if err := e.persistence.CreateExecution(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	logger.InfoContext(ctx, "Starting workflow execution")

	var span trace.Span
	if e.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
			attribute.String(otelhelper.WorkflowIDKey, execution.WorkflowID),
			attribute.String(otelhelper.ExecutionIDKey, execution.ID),
		)
		defer span.End()
	}

	// Zero trigger nodes is a definition error; the run is marked failed
	// explicitly rather than left running. With multiple trigger nodes the
	// first in list order wins.
	current := def.TriggerNode()
	if current == nil {
		return nil, e.fail(ctx, execution, span,
			fmt.Errorf("workflow definition has no trigger node"))
	}

	scope := protocol.ExecutionScope{
		Execution: execution,
		Recorder:  e.persistence,
		Logger:    logger,
	}

	data := execution.InputData

	for {
		nodeLogger := logger.With("node_id", current.ID, "node_type", current.Type)
		nodeLogger.DebugContext(ctx, "Executing node")

		result, err := e.executeNode(ctx, current, scope, data)
		if err != nil {
			nodeLogger.ErrorContext(ctx, "Node execution failed", "error", err)

			return nil, e.fail(ctx, execution, span,
				fmt.Errorf("node %s failed: %w", current.ID, err))
		}

		data = result

		nextID := resolveSuccessor(def.Connections, current, result)
		if nextID == "" {
			break
		}

		next := def.NodeByID(nextID)
		if next == nil {
			// A dangling target ends the run; the current node's output is
			// the final payload, same as the no-successor case.
			nodeLogger.WarnContext(ctx, "Connection targets unknown node", "target", nextID)

			break
		}

		current = next
	}

	execution.Complete(data)

	if err := e.persistence.SaveExecution(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to finalize execution %s: %w", execution.ID, err)
	}

	logger.InfoContext(ctx, "Workflow execution completed",
		"nodes_visited", len(execution.ExecutionPath))

	return data, nil
}

func (e *Executor) executeNode(ctx context.Context, node *models.Node, scope protocol.ExecutionScope, data map[string]any) (map[string]any, error) {
	var span trace.Span
	if e.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "node.execute",
			attribute.String(otelhelper.NodeIDKey, node.ID),
			attribute.String(otelhelper.NodeTypeKey, node.Type),
		)
		defer span.End()
	}

	executor, err := e.registry.CreateExecutor(node, scope)
	if err != nil {
		if span != nil {
			otelhelper.SetError(span, err)
		}

		return nil, err
	}

	result, err := executor.Execute(ctx, data)
	if err != nil && span != nil {
		otelhelper.SetError(span, err)
	}

	return result, err
}

// fail finalizes the execution as failed and returns the error to the
// caller. The partial execution path and log rows stay in place for
// diagnosis.
func (e *Executor) fail(ctx context.Context, execution *models.WorkflowExecution, span trace.Span, cause error) error {
	execution.Fail(cause.Error())

	if err := e.persistence.SaveExecution(ctx, execution); err != nil {
		e.logger.ErrorContext(ctx, "Failed to persist failed execution",
			"execution_id", execution.ID, "error", err)
	}

	if span != nil {
		otelhelper.SetError(span, cause)
	}

	return cause
}

// resolveSuccessor picks the next node id, scanning the connection list in
// definition order and taking the first match. For condition nodes the
// edge guard (lowercased, empty defaults to "true") must match the node's
// condition_result (absent defaults to false). For every other node the
// first outgoing connection wins and guards are ignored. Returns "" when
// no connection matches, which ends the run.
func resolveSuccessor(connections []*models.Connection, node *models.Node, result map[string]any) string {
	if node.Type == models.NodeTypeCondition {
		outcome, _ := result["condition_result"].(bool)

		want := "false"
		if outcome {
			want = "true"
		}

		for _, conn := range connections {
			if conn.Source != node.ID {
				continue
			}

			guard := strings.ToLower(conn.Condition)
			if guard == "" {
				guard = "true"
			}

			if guard == want {
				return conn.Target
			}
		}

		return ""
	}

	for _, conn := range connections {
		if conn.Source == node.ID {
			return conn.Target
		}
	}

	return ""
}

// snapshot copies the caller's input payload so the run never aliases it.
func snapshot(input map[string]any) map[string]any {
	copied := make(map[string]any, len(input))
	for k, v := range input {
		copied[k] = v
	}

	return copied
}

// newExecutionID generates a unique execution ID.
func newExecutionID() string {
	return "exec-" + uuid.New().String()
}
