package mesh

// TestMesh pairs a name with a mesh, for table driven format tests
type TestMesh struct {
	Name string
	Mesh *Mesh
}

// StandardTestMeshes returns one small mesh per supported topology, plus
// a mixed triangle/quad mesh and the empty mesh. Each call builds fresh
// values so callers may modify them.
func StandardTestMeshes() []TestMesh {
	return []TestMesh{
		{"empty", EmptyMesh()},
		{"line", LineMesh()},
		{"triangle", TriMesh()},
		{"triangle6", Triangle6Mesh()},
		{"quad", QuadMesh()},
		{"quad8", Quad8Mesh()},
		{"tri_quad", TriQuadMesh()},
		{"tetra", TetMesh()},
		{"tetra10", Tet10Mesh()},
		{"hexahedron", HexMesh()},
		{"hexahedron20", Hex20Mesh()},
		{"pyramid", PyramidMesh()},
		{"pyramid13", Pyramid13Mesh()},
		{"wedge", WedgeMesh()},
		{"wedge15", Wedge15Mesh()},
	}
}

func build(points [][]float64, blocks ...CellBlock) *Mesh {
	m := NewMesh()
	m.Points = points
	m.Cells = blocks
	return m
}

// EmptyMesh has no points and no cells
func EmptyMesh() *Mesh {
	return build(nil)
}

func unitSquare() [][]float64 {
	return [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 0},
	}
}

// LineMesh is a set of segments on the unit square
func LineMesh() *Mesh {
	return build(unitSquare(),
		CellBlock{Type: Line, Data: [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {2, 3}}})
}

// TriMesh splits the unit square into two triangles
func TriMesh() *Mesh {
	return build(unitSquare(),
		CellBlock{Type: Triangle, Data: [][]int{{0, 1, 2}, {0, 2, 3}}})
}

// Triangle6Mesh is TriMesh with quadratic edge nodes
func Triangle6Mesh() *Mesh {
	points := append(unitSquare(),
		[]float64{0.5, 0, 0},
		[]float64{1, 0.5, 0},
		[]float64{0.5, 0.5, 0},
		[]float64{0.5, 1, 0},
		[]float64{0, 0.5, 0},
	)
	return build(points,
		CellBlock{Type: Triangle6, Data: [][]int{{0, 1, 2, 4, 5, 6}, {0, 2, 3, 6, 7, 8}}})
}

func twoQuadPoints() [][]float64 {
	return [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{2, 0, 0},
		{0, 1, 0},
		{1, 1, 0},
		{2, 1, 0},
	}
}

// QuadMesh is a strip of two quads
func QuadMesh() *Mesh {
	return build(twoQuadPoints(),
		CellBlock{Type: Quad, Data: [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}}})
}

// Quad8Mesh is two serendipity quads sharing an edge
func Quad8Mesh() *Mesh {
	points := [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 0},
		{0.5, 0, 0},
		{1, 0.5, 0},
		{0.5, 1, 0},
		{0, 0.5, 0},
		{2, 0, 0},
		{2, 1, 0},
		{1.5, 0, 0},
		{2, 0.5, 0},
		{1.5, 1, 0},
	}
	return build(points,
		CellBlock{Type: Quad8, Data: [][]int{
			{0, 1, 2, 3, 4, 5, 6, 7},
			{1, 8, 9, 2, 10, 11, 12, 5},
		}})
}

// TriQuadMesh mixes triangles and a quad
func TriQuadMesh() *Mesh {
	return build(twoQuadPoints(),
		CellBlock{Type: Triangle, Data: [][]int{{0, 1, 4}, {0, 4, 3}}},
		CellBlock{Type: Quad, Data: [][]int{{1, 2, 5, 4}}},
	)
}

// TetMesh is two tetrahedra sharing a face
func TetMesh() *Mesh {
	points := append(unitSquare(), []float64{0.5, 0.5, 0.5})
	return build(points,
		CellBlock{Type: Tetra, Data: [][]int{{0, 1, 2, 4}, {0, 2, 3, 4}}})
}

// Tet10Mesh is a single quadratic tetrahedron with irrational coordinates
func Tet10Mesh() *Mesh {
	third := 1.0 / 3.0
	points := [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0.5, 0, 0},
		{0.5, 0.5, 0},
		{0, 0.5, 0},
		{0, 0, 0.5},
		{0.5, 0, 0.5},
		{third, 0.5, 0.5 + 1e-3*third},
	}
	return build(points,
		CellBlock{Type: Tetra10, Data: [][]int{{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}}})
}

func unitCube() [][]float64 {
	return [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 1},
		{1, 1, 1},
		{0, 1, 1},
	}
}

// HexMesh is the unit cube
func HexMesh() *Mesh {
	return build(unitCube(),
		CellBlock{Type: Hexahedron, Data: [][]int{{0, 1, 2, 3, 4, 5, 6, 7}}})
}

// Hex20Mesh is the unit cube with edge midpoints
func Hex20Mesh() *Mesh {
	points := append(unitCube(),
		// bottom edges
		[]float64{0.5, 0, 0},
		[]float64{1, 0.5, 0},
		[]float64{0.5, 1, 0},
		[]float64{0, 0.5, 0},
		// top edges
		[]float64{0.5, 0, 1},
		[]float64{1, 0.5, 1},
		[]float64{0.5, 1, 1},
		[]float64{0, 0.5, 1},
		// vertical edges
		[]float64{0, 0, 0.5},
		[]float64{1, 0, 0.5},
		[]float64{1, 1, 0.5},
		[]float64{0, 1, 0.5},
	)
	cell := make([]int, 20)
	for i := range cell {
		cell[i] = i
	}
	return build(points, CellBlock{Type: Hexahedron20, Data: [][]int{cell}})
}

// PyramidMesh is two pyramids on either side of the unit square
func PyramidMesh() *Mesh {
	points := append(unitSquare(),
		[]float64{0.5, 0.5, 1},
		[]float64{0.5, 0.5, -1},
	)
	return build(points,
		CellBlock{Type: Pyramid, Data: [][]int{{0, 1, 2, 3, 4}, {0, 3, 2, 1, 5}}})
}

// withMidpoints appends the midpoint of each edge to points and returns the
// corner indices followed by the new midpoint indices.
func withMidpoints(points [][]float64, corners int, edges [][2]int) ([][]float64, []int) {
	cell := make([]int, 0, corners+len(edges))
	for i := 0; i < corners; i++ {
		cell = append(cell, i)
	}
	for _, e := range edges {
		p, q := points[e[0]], points[e[1]]
		points = append(points, []float64{(p[0] + q[0]) / 2, (p[1] + q[1]) / 2, (p[2] + q[2]) / 2})
		cell = append(cell, len(points)-1)
	}
	return points, cell
}

// Pyramid13Mesh is a quadratic pyramid over the unit square
func Pyramid13Mesh() *Mesh {
	points := append(unitSquare(), []float64{0.5, 0.5, 1})
	points, cell := withMidpoints(points, 5, [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{0, 4}, {1, 4}, {2, 4}, {3, 4},
	})
	return build(points, CellBlock{Type: Pyramid13, Data: [][]int{cell}})
}

// Wedge15Mesh is a quadratic triangular prism
func Wedge15Mesh() *Mesh {
	points, cell := withMidpoints(wedgePoints(), 6, [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
		{0, 3}, {1, 4}, {2, 5},
	})
	return build(points, CellBlock{Type: Wedge15, Data: [][]int{cell}})
}

func wedgePoints() [][]float64 {
	return [][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 1},
		{0, 1, 1},
	}
}

// WedgeMesh is a single triangular prism
func WedgeMesh() *Mesh {
	return build(wedgePoints(),
		CellBlock{Type: Wedge, Data: [][]int{{0, 1, 2, 3, 4, 5}}})
}
