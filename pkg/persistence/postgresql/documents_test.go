package postgresql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeVector(t *testing.T) {
	assert.Equal(t, "[0.1,0.25,1]", encodeVector([]float64{0.1, 0.25, 1}))
	assert.Equal(t, "[]", encodeVector(nil))
}

func TestDecodeVector(t *testing.T) {
	embedding, err := decodeVector("[0.1, 0.25, 1]")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.25, 1}, embedding)

	embedding, err = decodeVector("[]")
	require.NoError(t, err)
	assert.Empty(t, embedding)

	_, err = decodeVector("[0.1,abc]")
	require.Error(t, err)
}

func TestVectorRoundTrip(t *testing.T) {
	original := []float64{0.123456789, -0.5, 42}

	decoded, err := decodeVector(encodeVector(original))
	require.NoError(t, err)

	assert.Equal(t, original, decoded)
}
