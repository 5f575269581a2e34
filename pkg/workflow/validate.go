package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/registry"
)

// Validator checks workflow definitions before they are saved or run:
// structural validation against a JSON schema assembled from the registered
// node types, then graph-level checks the schema cannot express.
type Validator struct {
	validate *validator.Validate
	registry *registry.Registry
}

// NewValidator creates a validator bound to a node registry.
func NewValidator(reg *registry.Registry) *Validator {
	return &Validator{
		validate: validator.New(),
		registry: reg,
	}
}

// ValidateWorkflow validates the workflow model and its definition.
func (v *Validator) ValidateWorkflow(wf *models.Workflow) error {
	if err := v.validate.Struct(wf); err != nil {
		return fmt.Errorf("workflow validation failed: %w", err)
	}

	return v.ValidateDefinition(wf.Definition)
}

// ValidateDefinition validates the node graph.
func (v *Validator) ValidateDefinition(def *models.WorkflowDefinition) error {
	if err := v.validateSchema(def); err != nil {
		return err
	}

	return validateGraph(def)
}

func (v *Validator) validateSchema(def *models.WorkflowDefinition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode definition: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(v.definitionSchema()),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return fmt.Errorf("invalid workflow definition: %s", strings.Join(problems, "; "))
	}

	return nil
}

// definitionSchema builds the JSON schema for a definition, with the node
// type enum drawn from the registered factories.
func (v *Validator) definitionSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"nodes"},
		"properties": map[string]any{
			"nodes": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"id", "type"},
					"properties": map[string]any{
						"id":     map[string]any{"type": "string", "minLength": 1},
						"type":   map[string]any{"type": "string", "enum": v.registry.NodeTypes()},
						"name":   map[string]any{"type": "string"},
						"config": map[string]any{"type": "object"},
					},
				},
			},
			"connections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"source", "target"},
					"properties": map[string]any{
						"source":    map[string]any{"type": "string", "minLength": 1},
						"target":    map[string]any{"type": "string", "minLength": 1},
						"condition": map[string]any{"type": "string", "enum": []string{"true", "false"}},
					},
				},
			},
		},
	}
}

// validateGraph enforces the invariants the schema cannot: unique node ids,
// connections referencing known nodes, and the presence of a trigger node.
func validateGraph(def *models.WorkflowDefinition) error {
	seen := make(map[string]bool, len(def.Nodes))

	for _, node := range def.Nodes {
		if seen[node.ID] {
			return fmt.Errorf("duplicate node id %q", node.ID)
		}

		seen[node.ID] = true
	}

	for _, conn := range def.Connections {
		if !seen[conn.Source] {
			return fmt.Errorf("connection references unknown source node %q", conn.Source)
		}

		if !seen[conn.Target] {
			return fmt.Errorf("connection references unknown target node %q", conn.Target)
		}
	}

	if def.TriggerNode() == nil {
		return fmt.Errorf("workflow definition has no trigger node")
	}

	return nil
}
