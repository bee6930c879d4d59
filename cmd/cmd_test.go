package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gonetgen/mesh"
	"github.com/notargets/gonetgen/mesh/netgen"
)

// resetFlags undoes flag values left over from an earlier execution
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.LocalFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithLog(t, args...)
	return out, err
}

// executeWithLog also returns what the command logged
func executeWithLog(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestConvertAndInfo(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tet.vol")
	out := filepath.Join(dir, "tet.vol.gz")
	require.NoError(t, netgen.WriteFile(in, mesh.TetMesh()))

	_, err := execute(t, "convert", in, out, "--comment", "converted tets")
	require.NoError(t, err)

	back, err := netgen.ReadFile(out)
	require.NoError(t, err)
	assert.NoError(t, mesh.ApproxEqual(mesh.TetMesh(), back, 1e-13))

	text, err := execute(t, "info", out)
	require.NoError(t, err)
	var stats mesh.Stats
	require.NoError(t, yaml.Unmarshal([]byte(text), &stats))
	assert.Equal(t, 5, stats.Points)
	assert.Equal(t, 2, stats.Cells)
	assert.Equal(t, []mesh.BlockStats{{Type: "tetra", Cells: 2}}, stats.Blocks)
	assert.Equal(t, []float64{1, 1, 0.5}, stats.Max)
	assert.Contains(t, stats.Info, netgen.DimensionKey)
}

func TestRoundTripFixtures(t *testing.T) {
	for _, name := range []string{"periodic_1d.vol", "periodic_2d.vol", "periodic_3d.vol"} {
		t.Run(name, func(t *testing.T) {
			text, err := execute(t, "roundtrip", filepath.Join("..", "mesh", "netgen", "testdata", name))
			require.NoError(t, err)
			assert.Contains(t, text, "round trip ok")
		})
	}
}

func TestCompareMeshesReportsDifferences(t *testing.T) {
	a := mesh.TriMesh()
	b := mesh.TriMesh()
	b.FieldData["wall"] = []int{1, 2}
	err := compareMeshes(a, b, DefaultTolerance)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field data differs")

	b = mesh.TriMesh()
	b.Points[2][0] += 1e-6
	assert.Error(t, compareMeshes(a, b, DefaultTolerance))
	assert.NoError(t, compareMeshes(a, b, 1e-5))
}

func TestParamsFile(t *testing.T) {
	dir := t.TempDir()
	params := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(params, []byte("Comment: from params\nCompressionLevel: 1\nLogLevel: warn\n"), 0644))
	in := filepath.Join(dir, "tri.vol")
	out := filepath.Join(dir, "tri_out.vol")
	require.NoError(t, netgen.WriteFile(in, mesh.TriMesh()))

	_, err := execute(t, "convert", in, out, "--params", params)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("# from params\n")))

	// an explicit flag wins over the parameters file
	_, err = execute(t, "convert", in, out, "--params", params, "--comment", "from flag")
	require.NoError(t, err)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("# from flag\n")))
}

func TestParamsFileLogged(t *testing.T) {
	dir := t.TempDir()
	params := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(params, []byte("Title: Periodic cube\nLogLevel: debug\n"), 0644))
	in := filepath.Join(dir, "tri.vol")
	require.NoError(t, netgen.WriteFile(in, mesh.TriMesh()))

	_, logged, err := executeWithLog(t, "info", in, "--params", params)
	require.NoError(t, err)
	assert.Contains(t, logged, "Periodic cube")
	assert.Contains(t, logged, "= Title")

	// not at the default level
	_, logged, err = executeWithLog(t, "info", in, "--params", params, "--log-level", "info")
	require.NoError(t, err)
	assert.NotContains(t, logged, "= Title")
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "info", filepath.Join(t.TempDir(), "missing.vol"))
	var ioe *netgen.IOError
	assert.ErrorAs(t, err, &ioe)

	_, err = execute(t, "convert", "only-one.vol")
	assert.Error(t, err)

	_, err = execute(t, "info", "mesh.su2")
	assert.ErrorContains(t, err, "unsupported mesh format")
}
