// Package models defines the core domain models for node-based workflow execution.
package models

import "time"

// Node type identifiers understood by the engine. A definition referencing
// any other type fails at the node it names.
const (
	NodeTypeTrigger     = "trigger"
	NodeTypeLLM         = "llm"
	NodeTypeVectorstore = "vectorstore"
	NodeTypeCondition   = "condition"
	NodeTypeTool        = "tool"
	NodeTypeOutput      = "output"
)

// Workflow is a named, versionless workflow definition. The definition is
// immutable during a run: an execution reads a snapshot at start.
type Workflow struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"        validate:"required,min=3"`
	Description string              `json:"description"`
	Definition  *WorkflowDefinition `json:"definition"  validate:"required"`
	IsActive    bool                `json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// WorkflowDefinition is the declarative graph: a list of typed nodes and a
// list of directed connections between them.
type WorkflowDefinition struct {
	Nodes       []*Node       `json:"nodes"       validate:"required,min=1,dive"`
	Connections []*Connection `json:"connections" validate:"dive"`
}

// Node is one typed step in a workflow graph.
type Node struct {
	ID     string         `json:"id"   validate:"required"`
	Type   string         `json:"type" validate:"required"`
	Name   string         `json:"name,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// Connection is a directed edge between two node ids. Condition is only
// meaningful when the source is a condition node; it guards the edge with
// "true" or "false" (empty means "true").
type Connection struct {
	Source    string `json:"source" validate:"required"`
	Target    string `json:"target" validate:"required"`
	Condition string `json:"condition,omitempty"`
}

// NodeByID returns the node with the given id, or nil if absent.
func (d *WorkflowDefinition) NodeByID(id string) *Node {
	for _, node := range d.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// TriggerNode returns the entry node of the graph: the first node in list
// order whose type is "trigger". Returns nil when the definition has none.
// First-in-list wins when a definition carries multiple trigger nodes.
func (d *WorkflowDefinition) TriggerNode() *Node {
	for _, node := range d.Nodes {
		if node.Type == NodeTypeTrigger {
			return node
		}
	}

	return nil
}
