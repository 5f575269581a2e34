package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

type memoryRecorder struct {
	entries []*models.ExecutionLog
}

func (r *memoryRecorder) AppendLog(_ context.Context, entry *models.ExecutionLog) error {
	r.entries = append(r.entries, entry)

	return nil
}

type fakeClient struct {
	response string
	err      error
	request  protocol.CompletionRequest
}

func (c *fakeClient) Complete(_ context.Context, request protocol.CompletionRequest) (string, error) {
	c.request = request

	return c.response, c.err
}

func newTestScope() (protocol.ExecutionScope, *memoryRecorder) {
	recorder := &memoryRecorder{}

	return protocol.ExecutionScope{
		Execution: models.NewWorkflowExecution("exec-test", "wf-test", nil),
		Recorder:  recorder,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, recorder
}

func TestLLMRendersPromptAndMergesResponse(t *testing.T) {
	scope, recorder := newTestScope()
	client := &fakeClient{response: "It is sunny."}

	node := &models.Node{
		ID:   "answer",
		Type: models.NodeTypeLLM,
		Config: map[string]any{
			"prompt":      "Answer the question: {question}",
			"model":       "gpt-4o",
			"temperature": 0.2,
		},
	}

	executor, err := NewFactory(client, "gpt-4o-mini").Create(node, scope)
	require.NoError(t, err)

	output, err := executor.Execute(context.Background(), map[string]any{
		"question": "What is the weather?",
	})
	require.NoError(t, err)

	assert.Equal(t, "It is sunny.", output["llm_response"])
	assert.Equal(t, "What is the weather?", output["question"])

	assert.Equal(t, "Answer the question: What is the weather?", client.request.UserPrompt)
	assert.Equal(t, "gpt-4o", client.request.Model)
	assert.InEpsilon(t, 0.2, client.request.Temperature, 1e-9)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, models.LogStatusCompleted, recorder.entries[0].Status)
}

func TestLLMUsesDefaults(t *testing.T) {
	scope, _ := newTestScope()
	client := &fakeClient{response: "ok"}

	node := &models.Node{
		ID:     "answer",
		Type:   models.NodeTypeLLM,
		Config: map[string]any{"prompt": "hello"},
	}

	executor, err := NewFactory(client, "gpt-4o-mini").Create(node, scope)
	require.NoError(t, err)

	_, err = executor.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", client.request.Model)
	assert.InEpsilon(t, defaultTemperature, client.request.Temperature, 1e-9)
	assert.NotEmpty(t, client.request.SystemPrompt)
}

func TestLLMIntegerTemperatureFromYAMLConfig(t *testing.T) {
	scope, _ := newTestScope()
	client := &fakeClient{response: "ok"}

	// YAML definitions decode whole numbers as int, not float64.
	node := &models.Node{
		ID:   "answer",
		Type: models.NodeTypeLLM,
		Config: map[string]any{
			"prompt":      "hello",
			"temperature": int(1),
		},
	}

	executor, err := NewFactory(client, "gpt-4o-mini").Create(node, scope)
	require.NoError(t, err)

	_, err = executor.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)

	assert.InEpsilon(t, 1.0, client.request.Temperature, 1e-9)
}

func TestLLMFailsFastWithoutClient(t *testing.T) {
	scope, recorder := newTestScope()

	node := &models.Node{
		ID:     "answer",
		Type:   models.NodeTypeLLM,
		Config: map[string]any{"prompt": "hello"},
	}

	executor, err := NewFactory(nil, "gpt-4o-mini").Create(node, scope)
	require.NoError(t, err)

	output, err := executor.Execute(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
	assert.Nil(t, output)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, models.LogStatusFailed, recorder.entries[0].Status)
}

func TestLLMPropagatesProviderError(t *testing.T) {
	scope, recorder := newTestScope()
	client := &fakeClient{err: errors.New("rate limited")}

	node := &models.Node{
		ID:     "answer",
		Type:   models.NodeTypeLLM,
		Config: map[string]any{"prompt": "hello"},
	}

	executor, err := NewFactory(client, "gpt-4o-mini").Create(node, scope)
	require.NoError(t, err)

	_, err = executor.Execute(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, models.LogStatusFailed, recorder.entries[0].Status)
}
