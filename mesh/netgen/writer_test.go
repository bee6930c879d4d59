package netgen

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gonetgen/mesh"
)

func writeString(t *testing.T, m *mesh.Mesh, opts ...Option) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, opts...))
	return buf.String()
}

// sectionLines returns the lines following keyword, count line included,
// up to the next blank, comment or keyword line.
func sectionLines(t *testing.T, out, keyword string) []string {
	t.Helper()
	var lines []string
	found := false
	for _, l := range strings.Split(out, "\n") {
		if !found {
			found = l == keyword
			continue
		}
		if strings.TrimSpace(l) == "" || strings.HasPrefix(l, "#") || unicode.IsLetter(rune(l[0])) {
			break
		}
		lines = append(lines, l)
	}
	require.True(t, found, "section %s not written", keyword)
	return lines
}

func TestWriteStandardMeshesRoundTrip(t *testing.T) {
	for _, tm := range mesh.StandardTestMeshes() {
		for _, ext := range []string{".vol", ".vol.gz"} {
			t.Run(tm.Name+ext, func(t *testing.T) {
				path := filepath.Join(t.TempDir(), tm.Name+ext)
				require.NoError(t, WriteFile(path, tm.Mesh))

				back, err := ReadFile(path)
				require.NoError(t, err)
				require.NoError(t, mesh.ApproxEqual(tm.Mesh, back, 1e-13))
			})
		}
	}
}

func TestWriteTetRows(t *testing.T) {
	out := writeString(t, mesh.TetMesh())

	lines := sectionLines(t, out, "volumeelements")
	require.Len(t, lines, 3)
	assert.Equal(t, "2", lines[0])
	assert.Equal(t, fmt.Sprintf("%8d%8d%8d%8d%8d%8d", 1, 4, 1, 3, 2, 5), lines[1])
	assert.Equal(t, fmt.Sprintf("%8d%8d%8d%8d%8d%8d", 1, 4, 1, 4, 3, 5), lines[2])

	points := sectionLines(t, out, "points")
	require.Len(t, points, 6)
	assert.Equal(t, "5", points[0])
	assert.Equal(t, fmt.Sprintf(" %23.16f %23.16f %23.16f", 0.5, 0.5, 0.5), points[5])

	assert.True(t, strings.HasPrefix(out, "# "+DefaultComment+"\n"))
	assert.Equal(t, []string{"0"}, sectionLines(t, out, "surfaceelements"))
	assert.Equal(t, []string{"0"}, sectionLines(t, out, "edgesegmentsgi2"))
	assert.Equal(t, []string{"0"}, sectionLines(t, out, "identifications"))
	assert.Equal(t, []string{"3"}, sectionLines(t, out, "dimension"))
	assert.Contains(t, out, "\nendmesh\n")
	assert.NotContains(t, out, "face_colours")
	assert.NotContains(t, out, "bcnames")
}

func TestWriteTagDefaults(t *testing.T) {
	m := mesh.TriMesh()
	m.AddBlock(mesh.Line, [][]int{{0, 1}})
	m.AddBlock(mesh.Vertex, [][]int{{3}})

	out := writeString(t, m)

	surf := sectionLines(t, out, "surfaceelements")
	require.Len(t, surf, 3)
	assert.Equal(t, fmt.Sprintf("%8d%8d%8d%8d%8d%8d%8d%8d", 1, 1, 1, 0, 3, 1, 2, 3), surf[1])

	edges := sectionLines(t, out, "edgesegmentsgi2")
	require.Len(t, edges, 2)
	assert.Equal(t, []string{"1", "0", "1", "2", "-1", "-1", "0", "0", "1", "0", "1", "0"},
		strings.Fields(edges[1]))

	pels := sectionLines(t, out, "pointelements")
	require.Len(t, pels, 2)
	assert.Equal(t, []string{"4", "1"}, strings.Fields(pels[1]))
}

func TestWriteKeepsTags(t *testing.T) {
	m := mesh.TriMesh()
	m.CellData[IndexKey] = [][]int{{4, 5}}
	m.CellData[DomOutKey] = [][]int{{2, 3}}

	back, err := Read(strings.NewReader(writeString(t, m)))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{4, 5}}, back.CellData[IndexKey])
	// surface number follows the index when not given
	assert.Equal(t, [][]int{{4, 5}}, back.CellData[SurfNrKey])
	assert.Equal(t, [][]int{{1, 1}}, back.CellData[DomInKey])
	assert.Equal(t, [][]int{{2, 3}}, back.CellData[DomOutKey])
}

func TestWriteNames(t *testing.T) {
	m := mesh.TetMesh()
	m.FieldData["steel"] = []int{2, 3}
	m.FieldData["wall"] = []int{1, 2}
	m.FieldData["inlet"] = []int{3, 2}
	m.FieldData["corner"] = []int{1, 0}

	out := writeString(t, m)
	assert.Equal(t, []string{"2", "1", "2\tsteel"}, sectionLines(t, out, "materials"))
	assert.Equal(t, []string{"3", "1\twall", "2", "3\tinlet"}, sectionLines(t, out, "bcnames"))
	assert.Equal(t, []string{"1", "1\tcorner"}, sectionLines(t, out, "cd3names"))
	assert.NotContains(t, out, "cd2names")

	back, err := Read(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, m.FieldData, back.FieldData)
}

func TestWriteNamesWarnings(t *testing.T) {
	logger, hook := test.NewNullLogger()
	m := mesh.TetMesh()
	m.FieldData["a"] = []int{1, 2}
	m.FieldData["b"] = []int{1, 2}
	m.FieldData["c"] = []int{0, 2}

	out := writeString(t, m, WithLogger(logger))
	assert.Equal(t, []string{"1", "1\tb"}, sectionLines(t, out, "bcnames"))

	var msgs []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			msgs = append(msgs, e.Message)
		}
	}
	assert.ElementsMatch(t, []string{"several names share one id", "skipping name with id below 1"}, msgs)
}

func TestWriteInfoSections(t *testing.T) {
	m := mesh.TriMesh()
	m.Info[DimensionKey] = mesh.IntScalar(2)
	m.Info[GeomTypeKey] = mesh.IntScalar(0)
	m.Info[IdentificationsKey] = mesh.IntTable{{1, 2, 1}, {4, 3, 1}}
	m.Info[IdentificationTypesKey] = mesh.IntTable{{2}}
	m.Info[FaceColoursKey] = mesh.FloatTable{{1, 0, 1, 0}}
	m.Info[CSGSurfacesKey] = mesh.TextBlock{"csgsurfaces 1", "plane 6", "0 0 0 0 0 1"}

	out := writeString(t, m, WithComment("periodic square"))
	assert.True(t, strings.HasPrefix(out, "# periodic square\n"))
	assert.Equal(t, []string{"2"}, sectionLines(t, out, "dimension"))
	assert.True(t, strings.HasSuffix(out, "endmesh\n\ncsgsurfaces 1\nplane 6\n0 0 0 0 0 1\n"))

	back, err := Read(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, m.Info, back.Info)
}

func TestWriteRegroupsBlocks(t *testing.T) {
	m := mesh.TriQuadMesh()
	m.AddBlock(mesh.Triangle, [][]int{{1, 5, 4}})
	m.AddBlock(mesh.Tetra, [][]int{{0, 1, 3, 4}})

	back, err := Read(strings.NewReader(writeString(t, m)))
	require.NoError(t, err)
	// both triangle blocks become one, ahead of the quads; volumes follow surfaces
	require.Len(t, back.Cells, 3)
	assert.Equal(t, mesh.Triangle, back.Cells[0].Type)
	assert.Equal(t, [][]int{{0, 1, 4}, {0, 4, 3}, {1, 5, 4}}, back.Cells[0].Data)
	assert.Equal(t, mesh.Quad, back.Cells[1].Type)
	assert.Equal(t, mesh.Tetra, back.Cells[2].Type)
	assert.Equal(t, [][]int{{0, 1, 3, 4}}, back.Cells[2].Data)
}

func TestWriteUnsupportedTopology(t *testing.T) {
	cases := []struct {
		name string
		mesh *mesh.Mesh
	}{
		{"quad9", func() *mesh.Mesh {
			m := mesh.QuadMesh()
			m.AddBlock(mesh.Quad9, [][]int{{0, 1, 2, 3, 4, 5, 0, 1, 2}})
			return m
		}()},
		{"short triangle", func() *mesh.Mesh {
			m := mesh.TriMesh()
			m.Cells[0].Data = append(m.Cells[0].Data, []int{0, 1, 2, 3, 0})
			return m
		}()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, c.mesh)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedTopology))
			assert.Zero(t, buf.Len(), "nothing may be written")
		})
	}
}

func TestWriteFileCompression(t *testing.T) {
	dir := t.TempDir()
	m := mesh.Hex20Mesh()

	fast := filepath.Join(dir, "fast.vol.gz")
	best := filepath.Join(dir, "best.vol.gz")
	plain := filepath.Join(dir, "plain.vol")
	require.NoError(t, WriteFile(fast, m, WithCompressionLevel(gzip.BestSpeed)))
	require.NoError(t, WriteFile(best, m, WithCompressionLevel(gzip.BestCompression)))
	require.NoError(t, WriteFile(plain, m))

	raw, err := os.ReadFile(best)
	require.NoError(t, err)
	require.Greater(t, len(raw), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	text, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(text, []byte("# ")))
	assert.Less(t, len(raw), len(text))

	for _, p := range []string{fast, best} {
		back, err := ReadFile(p)
		require.NoError(t, err)
		assert.NoError(t, mesh.ApproxEqual(m, back, 1e-13))
	}
}

func TestWriteFileCreateError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.vol")
	err := WriteFile(path, mesh.TriMesh())
	var ioe *IOError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "create", ioe.Op)
	assert.Equal(t, path, ioe.Path)
}
