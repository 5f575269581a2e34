package models

import "time"

// ExecutionStatus is the lifecycle state of a workflow execution.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// LogStatus is the outcome of a single node visit.
type LogStatus string

const (
	LogStatusCompleted LogStatus = "completed"
	LogStatusFailed    LogStatus = "failed"
)

// WorkflowExecution is one timed, logged run of a workflow definition.
// WorkflowID is empty for runs started from an ad-hoc definition. The row
// is created with status "running" and finalized exactly once through
// Complete or Fail.
type WorkflowExecution struct {
	ID            string          `json:"id"`
	WorkflowID    string          `json:"workflow_id,omitempty"`
	Status        ExecutionStatus `json:"status"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	InputData     map[string]any  `json:"input_data"`
	OutputData    map[string]any  `json:"output_data,omitempty"`
	ExecutionPath []PathEntry     `json:"execution_path"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}

// PathEntry records one node visit in visitation order.
type PathEntry struct {
	NodeID    string    `json:"node_id"`
	Timestamp time.Time `json:"timestamp"`
	Status    LogStatus `json:"status"`
}

// ExecutionLog is one immutable record of a single node visit within an
// execution. Rows are append-only and never updated.
type ExecutionLog struct {
	ID          string         `json:"id"`
	ExecutionID string         `json:"execution_id"`
	NodeID      string         `json:"node_id"`
	InputData   map[string]any `json:"input_data"`
	OutputData  map[string]any `json:"output_data,omitempty"`
	Status      LogStatus      `json:"status"`
	Message     string         `json:"message,omitempty"`
	DurationMS  int64          `json:"duration_ms"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewWorkflowExecution creates a running execution with a snapshot of the
// input payload.
func NewWorkflowExecution(id, workflowID string, input map[string]any) *WorkflowExecution {
	return &WorkflowExecution{
		ID:            id,
		WorkflowID:    workflowID,
		Status:        ExecutionStatusRunning,
		StartedAt:     time.Now().UTC(),
		InputData:     input,
		ExecutionPath: make([]PathEntry, 0),
	}
}

// Complete marks the execution completed with the final payload.
func (e *WorkflowExecution) Complete(output map[string]any) {
	now := time.Now().UTC()
	e.Status = ExecutionStatusCompleted
	e.CompletedAt = &now
	e.OutputData = output
}

// Fail marks the execution failed with the error message.
func (e *WorkflowExecution) Fail(message string) {
	now := time.Now().UTC()
	e.Status = ExecutionStatusFailed
	e.CompletedAt = &now
	e.ErrorMessage = message
}

// AppendPath records a node visit on the execution path.
func (e *WorkflowExecution) AppendPath(nodeID string, status LogStatus) {
	e.ExecutionPath = append(e.ExecutionPath, PathEntry{
		NodeID:    nodeID,
		Timestamp: time.Now().UTC(),
		Status:    status,
	})
}
