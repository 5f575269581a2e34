package workflow

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/nodes/condition"
	"github.com/graphline/graphline/pkg/nodes/output"
	"github.com/graphline/graphline/pkg/nodes/tool"
	"github.com/graphline/graphline/pkg/nodes/trigger"
	"github.com/graphline/graphline/pkg/persistence/file"
	"github.com/graphline/graphline/pkg/registry"
)

func newTestExecutor(t *testing.T) (*Executor, *file.Persistence) {
	t.Helper()

	store := file.NewPersistence(t.TempDir())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := registry.NewRegistry(logger)
	reg.Register(trigger.NewFactory())
	reg.Register(condition.NewFactory())
	reg.Register(tool.NewFactory(nil, nil))
	reg.Register(output.NewFactory())

	return NewExecutor(store, reg, logger), store
}

func saveWorkflow(t *testing.T, store *file.Persistence, def *models.WorkflowDefinition, active bool) *models.Workflow {
	t.Helper()

	wf := &models.Workflow{
		Name:       "test workflow",
		Definition: def,
		IsActive:   active,
	}
	require.NoError(t, store.SaveWorkflow(context.Background(), wf))

	return wf
}

func linearDefinition() *models.WorkflowDefinition {
	return &models.WorkflowDefinition{
		Nodes: []*models.Node{
			{ID: "start", Type: models.NodeTypeTrigger},
			{ID: "finish", Type: models.NodeTypeOutput, Config: map[string]any{
				"template": map[string]any{"summary": "got {message}"},
			}},
		},
		Connections: []*models.Connection{
			{Source: "start", Target: "finish"},
		},
	}
}

func branchingDefinition() *models.WorkflowDefinition {
	return &models.WorkflowDefinition{
		Nodes: []*models.Node{
			{ID: "start", Type: models.NodeTypeTrigger},
			{ID: "check", Type: models.NodeTypeCondition, Config: map[string]any{
				"condition": "score > 10",
			}},
			{ID: "high", Type: models.NodeTypeOutput, Config: map[string]any{
				"template": map[string]any{"verdict": "high"},
			}},
			{ID: "low", Type: models.NodeTypeOutput, Config: map[string]any{
				"template": map[string]any{"verdict": "low"},
			}},
		},
		Connections: []*models.Connection{
			{Source: "start", Target: "check"},
			{Source: "check", Target: "high", Condition: "true"},
			{Source: "check", Target: "low", Condition: "false"},
		},
	}
}

func TestExecuteLinearChain(t *testing.T) {
	executor, store := newTestExecutor(t)
	ctx := context.Background()

	wf := saveWorkflow(t, store, linearDefinition(), true)

	output, err := executor.Execute(ctx, wf.ID, map[string]any{"message": "hello"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"summary": "got hello"}, output)

	executions, err := store.ExecutionsByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	require.Len(t, executions, 1)

	execution := executions[0]
	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	require.NotNil(t, execution.CompletedAt)
	assert.Equal(t, map[string]any{"message": "hello"}, execution.InputData)
	assert.Equal(t, "got hello", execution.OutputData["summary"])

	require.Len(t, execution.ExecutionPath, 2)
	assert.Equal(t, "start", execution.ExecutionPath[0].NodeID)
	assert.Equal(t, "finish", execution.ExecutionPath[1].NodeID)

	logs, err := store.LogsByExecution(ctx, execution.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "start", logs[0].NodeID)
	assert.Equal(t, "finish", logs[1].NodeID)
	assert.Equal(t, models.LogStatusCompleted, logs[1].Status)
}

func TestExecutionIDsAreFullUUIDs(t *testing.T) {
	executor, store := newTestExecutor(t)
	ctx := context.Background()

	wf := saveWorkflow(t, store, linearDefinition(), true)

	_, err := executor.Execute(ctx, wf.ID, map[string]any{"message": "one"})
	require.NoError(t, err)
	_, err = executor.Execute(ctx, wf.ID, map[string]any{"message": "two"})
	require.NoError(t, err)

	executions, err := store.ExecutionsByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	require.Len(t, executions, 2)

	// IDs carry the full UUID so concurrent runs cannot collide and
	// overwrite each other's history.
	for _, execution := range executions {
		require.True(t, strings.HasPrefix(execution.ID, "exec-"))
		_, parseErr := uuid.Parse(strings.TrimPrefix(execution.ID, "exec-"))
		assert.NoError(t, parseErr)
	}

	assert.NotEqual(t, executions[0].ID, executions[1].ID)
}

func TestExecuteConditionBranches(t *testing.T) {
	cases := []struct {
		name  string
		score float64
		want  string
	}{
		{"true branch", 42, "high"},
		{"false branch", 3, "low"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			executor, _ := newTestExecutor(t)

			output, err := executor.ExecuteDefinition(context.Background(),
				branchingDefinition(), map[string]any{"score": tc.score})
			require.NoError(t, err)

			assert.Equal(t, tc.want, output["verdict"])
		})
	}
}

func TestExecuteConditionWithoutMatchingEdgeEndsRun(t *testing.T) {
	def := &models.WorkflowDefinition{
		Nodes: []*models.Node{
			{ID: "start", Type: models.NodeTypeTrigger},
			{ID: "check", Type: models.NodeTypeCondition, Config: map[string]any{
				"condition": "score > 10",
			}},
			{ID: "high", Type: models.NodeTypeOutput},
		},
		Connections: []*models.Connection{
			{Source: "start", Target: "check"},
			{Source: "check", Target: "high", Condition: "true"},
		},
	}

	executor, _ := newTestExecutor(t)

	// The condition is false and only a "true" edge exists, so the run
	// ends normally with the condition node's output as the final payload.
	output, err := executor.ExecuteDefinition(context.Background(), def, map[string]any{
		"score": float64(3),
	})
	require.NoError(t, err)

	assert.Equal(t, false, output["condition_result"])
	assert.NotContains(t, output, "verdict")
}

func TestExecuteGuardlessConditionEdgeMeansTrue(t *testing.T) {
	def := branchingDefinition()
	def.Connections[1].Condition = ""

	executor, _ := newTestExecutor(t)

	output, err := executor.ExecuteDefinition(context.Background(), def, map[string]any{
		"score": float64(42),
	})
	require.NoError(t, err)

	assert.Equal(t, "high", output["verdict"])
}

func TestExecuteDuplicateEdgesFirstWins(t *testing.T) {
	def := linearDefinition()
	def.Nodes = append(def.Nodes, &models.Node{
		ID: "other", Type: models.NodeTypeOutput, Config: map[string]any{
			"template": map[string]any{"summary": "other"},
		},
	})
	def.Connections = []*models.Connection{
		{Source: "start", Target: "finish"},
		{Source: "start", Target: "other"},
	}

	executor, _ := newTestExecutor(t)

	output, err := executor.ExecuteDefinition(context.Background(), def, map[string]any{
		"message": "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "got hello", output["summary"])
}

func TestExecuteDanglingTargetEndsRun(t *testing.T) {
	def := &models.WorkflowDefinition{
		Nodes: []*models.Node{
			{ID: "start", Type: models.NodeTypeTrigger},
		},
		Connections: []*models.Connection{
			{Source: "start", Target: "ghost"},
		},
	}

	executor, _ := newTestExecutor(t)

	output, err := executor.ExecuteDefinition(context.Background(), def, map[string]any{
		"message": "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", output["message"])
}

func TestExecuteWithoutTriggerFails(t *testing.T) {
	executor, store := newTestExecutor(t)
	ctx := context.Background()

	def := &models.WorkflowDefinition{
		Nodes: []*models.Node{{ID: "finish", Type: models.NodeTypeOutput}},
	}
	wf := saveWorkflow(t, store, def, true)

	_, err := executor.Execute(ctx, wf.ID, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no trigger node")

	executions, err := store.ExecutionsByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.ExecutionStatusFailed, executions[0].Status)
	assert.Contains(t, executions[0].ErrorMessage, "no trigger node")
}

func TestExecuteUnknownNodeTypeFails(t *testing.T) {
	executor, store := newTestExecutor(t)
	ctx := context.Background()

	def := &models.WorkflowDefinition{
		Nodes: []*models.Node{
			{ID: "start", Type: models.NodeTypeTrigger},
			{ID: "mystery", Type: "python"},
		},
		Connections: []*models.Connection{
			{Source: "start", Target: "mystery"},
		},
	}
	wf := saveWorkflow(t, store, def, true)

	_, err := executor.Execute(ctx, wf.ID, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no executor registered for node type 'python'")

	executions, err := store.ExecutionsByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	require.Len(t, executions, 1)

	execution := executions[0]
	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)

	// Only the trigger produced a log row; the unknown node fails before
	// any executor runs.
	logs, err := store.LogsByExecution(ctx, execution.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "start", logs[0].NodeID)
}

func TestExecuteNodeFailureFinalizesExecution(t *testing.T) {
	executor, store := newTestExecutor(t)
	ctx := context.Background()

	def := &models.WorkflowDefinition{
		Nodes: []*models.Node{
			{ID: "start", Type: models.NodeTypeTrigger},
			{ID: "broken", Type: models.NodeTypeCondition, Config: map[string]any{
				"condition": "score >",
			}},
		},
		Connections: []*models.Connection{
			{Source: "start", Target: "broken"},
		},
	}
	wf := saveWorkflow(t, store, def, true)

	_, err := executor.Execute(ctx, wf.ID, map[string]any{"score": float64(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node broken failed")

	executions, err := store.ExecutionsByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	require.Len(t, executions, 1)

	execution := executions[0]
	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	assert.Contains(t, execution.ErrorMessage, "node broken failed")
	assert.Nil(t, execution.OutputData)

	// Both visits are recorded: the trigger completed, the broken node
	// failed.
	logs, err := store.LogsByExecution(ctx, execution.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.LogStatusCompleted, logs[0].Status)
	assert.Equal(t, models.LogStatusFailed, logs[1].Status)

	require.Len(t, execution.ExecutionPath, 2)
	assert.Equal(t, models.LogStatusFailed, execution.ExecutionPath[1].Status)
}

func TestExecuteInactiveWorkflowRefused(t *testing.T) {
	executor, store := newTestExecutor(t)
	ctx := context.Background()

	wf := saveWorkflow(t, store, linearDefinition(), false)

	_, err := executor.Execute(ctx, wf.ID, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not active")

	// No execution record is created for a refused run.
	executions, err := store.ExecutionsByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestExecuteMissingWorkflow(t *testing.T) {
	executor, _ := newTestExecutor(t)

	_, err := executor.Execute(context.Background(), "does-not-exist", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch workflow")
}

func TestExecuteDefinitionAdHoc(t *testing.T) {
	executor, _ := newTestExecutor(t)

	output, err := executor.ExecuteDefinition(context.Background(), linearDefinition(),
		map[string]any{"message": "hello"})
	require.NoError(t, err)

	assert.Equal(t, "got hello", output["summary"])
}

func TestExecuteDoesNotMutateCallerInput(t *testing.T) {
	executor, _ := newTestExecutor(t)

	def := &models.WorkflowDefinition{
		Nodes: []*models.Node{
			{ID: "start", Type: models.NodeTypeTrigger},
			{ID: "check", Type: models.NodeTypeCondition, Config: map[string]any{
				"condition": "true",
			}},
		},
		Connections: []*models.Connection{
			{Source: "start", Target: "check"},
		},
	}

	input := map[string]any{"message": "hello"}

	output, err := executor.ExecuteDefinition(context.Background(), def, input)
	require.NoError(t, err)

	assert.Equal(t, true, output["condition_result"])
	assert.NotContains(t, input, "condition_result")
}

func TestResolveSuccessorMultipleTriggersFirstWins(t *testing.T) {
	def := &models.WorkflowDefinition{
		Nodes: []*models.Node{
			{ID: "trigger-a", Type: models.NodeTypeTrigger},
			{ID: "trigger-b", Type: models.NodeTypeTrigger},
			{ID: "finish", Type: models.NodeTypeOutput, Config: map[string]any{
				"template": map[string]any{"from": "a"},
			}},
		},
		Connections: []*models.Connection{
			{Source: "trigger-a", Target: "finish"},
			{Source: "trigger-b", Target: "trigger-b"},
		},
	}

	executor, _ := newTestExecutor(t)

	output, err := executor.ExecuteDefinition(context.Background(), def, map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "a", output["from"])
}
