package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphline/graphline/pkg/models"
	"github.com/graphline/graphline/pkg/nodes"
)

func writeDefinitionFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefinitionFileJSON(t *testing.T) {
	path := writeDefinitionFile(t, "wf.json", `{
		"nodes": [
			{"id": "start", "type": "trigger"},
			{"id": "finish", "type": "output"}
		],
		"connections": [
			{"source": "start", "target": "finish"}
		]
	}`)

	def, err := LoadDefinitionFile(path)
	require.NoError(t, err)

	require.Len(t, def.Nodes, 2)
	assert.Equal(t, models.NodeTypeTrigger, def.Nodes[0].Type)
	require.Len(t, def.Connections, 1)
	assert.Equal(t, "finish", def.Connections[0].Target)
}

func TestLoadDefinitionFileYAML(t *testing.T) {
	path := writeDefinitionFile(t, "wf.yaml", `
nodes:
  - id: start
    type: trigger
  - id: check
    type: condition
    config:
      condition: "score > 10"
connections:
  - source: start
    target: check
`)

	def, err := LoadDefinitionFile(path)
	require.NoError(t, err)

	require.Len(t, def.Nodes, 2)
	assert.Equal(t, "score > 10", def.Nodes[1].Config["condition"])
}

func TestLoadDefinitionFileYAMLIntegerConfig(t *testing.T) {
	path := writeDefinitionFile(t, "wf.yaml", `
nodes:
  - id: start
    type: trigger
  - id: retrieve
    type: vectorstore
    config:
      collection: kb
      top_k: 5
  - id: answer
    type: llm
    config:
      prompt: hello
      temperature: 1
`)

	def, err := LoadDefinitionFile(path)
	require.NoError(t, err)

	// YAML decodes whole numbers as int; numeric config must still be
	// readable by the nodes.
	topK, ok := nodes.ConfigFloat(def.Nodes[1].Config, "top_k")
	require.True(t, ok)
	assert.InEpsilon(t, 5.0, topK, 1e-9)

	temperature, ok := nodes.ConfigFloat(def.Nodes[2].Config, "temperature")
	require.True(t, ok)
	assert.InEpsilon(t, 1.0, temperature, 1e-9)
}

func TestLoadDefinitionFileFullWorkflowDocument(t *testing.T) {
	path := writeDefinitionFile(t, "wf.json", `{
		"name": "wrapped",
		"definition": {
			"nodes": [{"id": "start", "type": "trigger"}]
		}
	}`)

	def, err := LoadDefinitionFile(path)
	require.NoError(t, err)

	require.Len(t, def.Nodes, 1)
	assert.Equal(t, "start", def.Nodes[0].ID)
}

func TestLoadDefinitionFileEmptyNodes(t *testing.T) {
	path := writeDefinitionFile(t, "wf.json", `{"nodes": []}`)

	_, err := LoadDefinitionFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no nodes")
}

func TestLoadDefinitionFileMissing(t *testing.T) {
	_, err := LoadDefinitionFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
