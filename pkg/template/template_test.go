package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	data := map[string]any{
		"name":  "Ada",
		"count": float64(3),
		"ratio": 2.5,
		"ok":    true,
		"docs":  []any{"a", "b"},
	}

	assert.Equal(t, "Hello Ada", Render("Hello {name}", data))
	assert.Equal(t, "3 items", Render("{count} items", data))
	assert.Equal(t, "ratio is 2.5", Render("ratio is {ratio}", data))
	assert.Equal(t, "flag=true", Render("flag={ok}", data))
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	result := Render("Hello {name}, {missing}!", map[string]any{"name": "Ada"})

	assert.Equal(t, "Hello Ada, {missing}!", result)
}

func TestRenderSkipsNonScalarValues(t *testing.T) {
	data := map[string]any{
		"docs": []any{"a", "b"},
		"meta": map[string]any{"k": "v"},
	}

	result := Render("{docs} and {meta}", data)

	assert.Equal(t, "{docs} and {meta}", result)
}

func TestStringifyIntegralFloat(t *testing.T) {
	assert.Equal(t, "42", Stringify(float64(42)))
	assert.Equal(t, "42.5", Stringify(42.5))
	assert.Equal(t, "text", Stringify("text"))
}

func TestRenderSQLQuotesStrings(t *testing.T) {
	query, err := RenderSQL("SELECT * FROM users WHERE name = {name}", map[string]any{
		"name": "O'Brien",
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM users WHERE name = 'O''Brien'", query)
}

func TestRenderSQLNumbersAndBooleans(t *testing.T) {
	query, err := RenderSQL(
		"UPDATE t SET active = {active} WHERE id = {id} AND score > {score}",
		map[string]any{"active": true, "id": float64(7), "score": 0.25},
	)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE t SET active = TRUE WHERE id = 7 AND score > 0.25", query)
}

func TestRenderSQLSerializesComplexValues(t *testing.T) {
	query, err := RenderSQL("INSERT INTO t (meta) VALUES ({meta})", map[string]any{
		"meta": map[string]any{"k": "v"},
	})
	require.NoError(t, err)

	assert.Equal(t, `INSERT INTO t (meta) VALUES ('{"k":"v"}')`, query)
}

func TestRenderSQLLeavesAbsentFields(t *testing.T) {
	query, err := RenderSQL("SELECT {missing}", map[string]any{"present": 1})
	require.NoError(t, err)

	assert.Equal(t, "SELECT {missing}", query)
}
