// Package llm provides the chat-completion node: it renders a prompt
// template against the payload, sends it to the configured language model
// and merges the response text back into the payload.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/nodes"
	"github.com/graphline/graphline/pkg/protocol"
	"github.com/graphline/graphline/pkg/template"
)

const (
	defaultTemperature  = 0.7
	defaultSystemPrompt = "You are a helpful assistant inside an automated workflow. " +
		"Answer concisely using the data you are given."

	// completionTimeout bounds the provider call for one node visit.
	completionTimeout = 30 * time.Second
)

// LLMConfig defines the configuration for LLM nodes.
type LLMConfig struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	Prompt       string  `json:"prompt"`
	SystemPrompt string  `json:"system_prompt"`
}

// LLMNode sends one chat completion per visit.
type LLMNode struct {
	base   nodes.Base
	client protocol.LLMClient
	config LLMConfig
}

// NewLLMNode creates a new LLM node executor. The client may be nil when no
// provider is configured; execution then fails fast before any network call.
func NewLLMNode(node *models.Node, scope protocol.ExecutionScope, client protocol.LLMClient, defaultModel string) *LLMNode {
	config := LLMConfig{
		Model:        defaultModel,
		Temperature:  defaultTemperature,
		SystemPrompt: defaultSystemPrompt,
	}

	if model, ok := node.Config["model"].(string); ok && model != "" {
		config.Model = model
	}

	if temperature, ok := nodes.ConfigFloat(node.Config, "temperature"); ok {
		config.Temperature = temperature
	}

	if prompt, ok := node.Config["prompt"].(string); ok {
		config.Prompt = prompt
	}

	if systemPrompt, ok := node.Config["system_prompt"].(string); ok && systemPrompt != "" {
		config.SystemPrompt = systemPrompt
	}

	return &LLMNode{
		base:   nodes.NewBase(node, scope),
		client: client,
		config: config,
	}
}

// Execute renders the prompt, performs the completion and merges
// llm_response into the payload. Failures are logged then returned; there
// is no retry.
func (n *LLMNode) Execute(ctx context.Context, input map[string]any) (map[string]any, error) {
	started := time.Now()

	if n.client == nil {
		err := errors.New("llm client is not configured (missing API key)")
		n.base.LogExecution(ctx, input, nil, models.LogStatusFailed, err.Error(), time.Since(started))

		return nil, err
	}

	prompt := template.Render(n.config.Prompt, input)

	callCtx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	response, err := n.client.Complete(callCtx, protocol.CompletionRequest{
		Model:        n.config.Model,
		Temperature:  n.config.Temperature,
		SystemPrompt: n.config.SystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		err = fmt.Errorf("llm completion failed: %w", err)
		n.base.LogExecution(ctx, input, nil, models.LogStatusFailed, err.Error(), time.Since(started))

		return nil, err
	}

	output := nodes.MergePayload(input, map[string]any{"llm_response": response})

	return n.base.LogExecution(ctx, input, output, models.LogStatusCompleted,
		fmt.Sprintf("completion via %s", n.config.Model), time.Since(started)), nil
}
