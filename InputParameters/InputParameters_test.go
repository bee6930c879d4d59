package InputParameters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Periodic cube
Comment: "exported for the solver"
CompressionLevel: 9 # best
LogLevel: debug
Tolerance: 1.e-10
`)
	var input MeshParameters
	require.NoError(t, input.Parse(fileInput))
	require.NoError(t, input.Validate())
	assert.Equal(t, "Periodic cube", input.Title)
	assert.Equal(t, "exported for the solver", input.Comment)
	require.NotNil(t, input.CompressionLevel)
	assert.Equal(t, 9, *input.CompressionLevel)
	assert.Equal(t, "debug", input.LogLevel)
	assert.Equal(t, 1.e-10, input.Tolerance)
	assert.Len(t, input.WriteOptions(), 2)

	var buf bytes.Buffer
	input.Print(&buf)
	assert.Contains(t, buf.String(), "= Compression Level")
}

func TestParseEmpty(t *testing.T) {
	var input MeshParameters
	require.NoError(t, input.Parse([]byte("Title: nothing else\n")))
	assert.Nil(t, input.CompressionLevel)
	assert.Empty(t, input.WriteOptions())
	assert.NoError(t, input.Validate())
}

func TestValidate(t *testing.T) {
	var input MeshParameters
	require.NoError(t, input.Parse([]byte("CompressionLevel: 12\n")))
	assert.Error(t, input.Validate())

	input = MeshParameters{Tolerance: -1}
	assert.Error(t, input.Validate())
}
