// Package nodes provides the shared executor base used by every node type:
// the logging hook that records one audit row and one execution-path entry
// per node visit.
package nodes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/protocol"
)

// Base carries the node definition and the execution scope a node executor
// is bound to. Concrete executors embed it and finish every Execute call,
// success or failure, with LogExecution.
type Base struct {
	Node  *models.Node
	Scope protocol.ExecutionScope
}

// NewBase binds a node definition to an execution scope.
func NewBase(node *models.Node, scope protocol.ExecutionScope) Base {
	return Base{Node: node, Scope: scope}
}

// LogExecution appends an ExecutionLog row and an execution-path entry for
// one node visit and returns the output payload unchanged, so call sites
// can `return b.LogExecution(...), nil`.
//
// A recorder failure is reported on the run logger but does not override
// the node's own outcome: the audit trail is best-effort per row, the
// payload result is not.
func (b *Base) LogExecution(
	ctx context.Context,
	input, output map[string]any,
	status models.LogStatus,
	message string,
	duration time.Duration,
) map[string]any {
	entry := &models.ExecutionLog{
		ID:          uuid.New().String(),
		ExecutionID: b.Scope.Execution.ID,
		NodeID:      b.Node.ID,
		InputData:   input,
		OutputData:  output,
		Status:      status,
		Message:     message,
		DurationMS:  duration.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := b.Scope.Recorder.AppendLog(ctx, entry); err != nil {
		b.Scope.Logger.ErrorContext(ctx, "Failed to append execution log",
			"node_id", b.Node.ID, "error", err)
	}

	b.Scope.Execution.AppendPath(b.Node.ID, status)

	return output
}

// ConfigFloat reads a numeric config value. JSON decoding yields float64
// while YAML decoding yields int for whole numbers, so both shapes are
// accepted.
func ConfigFloat(config map[string]any, key string) (float64, bool) {
	switch v := config[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// MergePayload copies the input payload and lays the given fields on top.
// Nodes never mutate their caller's map.
func MergePayload(input map[string]any, fields map[string]any) map[string]any {
	merged := make(map[string]any, len(input)+len(fields))

	for k, v := range input {
		merged[k] = v
	}

	for k, v := range fields {
		merged[k] = v
	}

	return merged
}
