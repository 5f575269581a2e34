package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/persistence"
)

func testWorkflow() *models.Workflow {
	return &models.Workflow{
		Name:     "test workflow",
		IsActive: true,
		Definition: &models.WorkflowDefinition{
			Nodes: []*models.Node{
				{ID: "start", Type: models.NodeTypeTrigger},
				{ID: "finish", Type: models.NodeTypeOutput},
			},
			Connections: []*models.Connection{
				{Source: "start", Target: "finish"},
			},
		},
	}
}

func TestWorkflowRoundTrip(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	wf := testWorkflow()
	require.NoError(t, store.SaveWorkflow(ctx, wf))
	assert.NotEmpty(t, wf.ID)
	assert.False(t, wf.CreatedAt.IsZero())

	loaded, err := store.WorkflowByID(ctx, wf.ID)
	require.NoError(t, err)

	assert.Equal(t, wf.Name, loaded.Name)
	assert.True(t, loaded.IsActive)
	require.Len(t, loaded.Definition.Nodes, 2)
	assert.Equal(t, "start", loaded.Definition.Nodes[0].ID)
}

func TestWorkflowByIDNotFound(t *testing.T) {
	store := NewPersistence(t.TempDir())

	_, err := store.WorkflowByID(context.Background(), "absent")
	require.Error(t, err)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflowsListsAll(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.SaveWorkflow(ctx, testWorkflow()))
	require.NoError(t, store.SaveWorkflow(ctx, testWorkflow()))

	workflows, err := store.Workflows(ctx)
	require.NoError(t, err)
	assert.Len(t, workflows, 2)
}

func TestDeleteWorkflow(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	wf := testWorkflow()
	require.NoError(t, store.SaveWorkflow(ctx, wf))
	require.NoError(t, store.DeleteWorkflow(ctx, wf.ID))

	_, err := store.WorkflowByID(ctx, wf.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = store.DeleteWorkflow(ctx, wf.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestExecutionRoundTrip(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	execution := models.NewWorkflowExecution("exec-1", "wf-1", map[string]any{"k": "v"})
	require.NoError(t, store.CreateExecution(ctx, execution))

	execution.Complete(map[string]any{"result": "done"})
	require.NoError(t, store.SaveExecution(ctx, execution))

	loaded, err := store.ExecutionByID(ctx, "exec-1")
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, loaded.Status)
	assert.Equal(t, "v", loaded.InputData["k"])
	assert.Equal(t, "done", loaded.OutputData["result"])
	require.NotNil(t, loaded.CompletedAt)
}

func TestExecutionByIDNotFound(t *testing.T) {
	store := NewPersistence(t.TempDir())

	_, err := store.ExecutionByID(context.Background(), "absent")
	require.Error(t, err)
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestExecutionsByWorkflowSortedMostRecentFirst(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	older := models.NewWorkflowExecution("exec-old", "wf-1", nil)
	older.StartedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.SaveExecution(ctx, older))

	newer := models.NewWorkflowExecution("exec-new", "wf-1", nil)
	require.NoError(t, store.SaveExecution(ctx, newer))

	other := models.NewWorkflowExecution("exec-other", "wf-2", nil)
	require.NoError(t, store.SaveExecution(ctx, other))

	executions, err := store.ExecutionsByWorkflow(ctx, "wf-1")
	require.NoError(t, err)

	require.Len(t, executions, 2)
	assert.Equal(t, "exec-new", executions[0].ID)
	assert.Equal(t, "exec-old", executions[1].ID)
}

func TestAppendLogPreservesOrder(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	for _, nodeID := range []string{"start", "check", "finish"} {
		entry := &models.ExecutionLog{
			ID:          "log-" + nodeID,
			ExecutionID: "exec-1",
			NodeID:      nodeID,
			Status:      models.LogStatusCompleted,
			CreatedAt:   time.Now().UTC(),
		}
		require.NoError(t, store.AppendLog(ctx, entry))
	}

	logs, err := store.LogsByExecution(ctx, "exec-1")
	require.NoError(t, err)

	require.Len(t, logs, 3)
	assert.Equal(t, "start", logs[0].NodeID)
	assert.Equal(t, "check", logs[1].NodeID)
	assert.Equal(t, "finish", logs[2].NodeID)
}

func TestLogsByExecutionEmptyWithoutFile(t *testing.T) {
	store := NewPersistence(t.TempDir())

	logs, err := store.LogsByExecution(context.Background(), "exec-none")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestValidateIDRejectsUnsafeIdentifiers(t *testing.T) {
	store := NewPersistence(t.TempDir())
	ctx := context.Background()

	_, err := store.WorkflowByID(ctx, "../escape")
	require.Error(t, err)

	_, err = store.ExecutionByID(ctx, "a/b")
	require.Error(t, err)

	_, err = store.WorkflowByID(ctx, "")
	require.Error(t, err)
}
