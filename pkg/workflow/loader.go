package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/graphline/graphline/pkg/models"
)

// LoadDefinitionFile reads a workflow definition from a JSON or YAML file.
// The file may hold either a bare definition ({"nodes": ..., ...}) or a
// full workflow document with a "definition" field.
func LoadDefinitionFile(path string) (*models.WorkflowDefinition, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is caller-supplied CLI input
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseDefinition(data, yaml.Unmarshal)
	default:
		return parseDefinition(data, json.Unmarshal)
	}
}

func parseDefinition(data []byte, unmarshal func([]byte, any) error) (*models.WorkflowDefinition, error) {
	var wf models.Workflow
	if err := unmarshal(data, &wf); err == nil && wf.Definition != nil && len(wf.Definition.Nodes) > 0 {
		return wf.Definition, nil
	}

	var def models.WorkflowDefinition
	if err := unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse workflow definition: %w", err)
	}

	if len(def.Nodes) == 0 {
		return nil, fmt.Errorf("workflow definition has no nodes")
	}

	return &def, nil
}
