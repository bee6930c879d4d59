package mesh

// CellType represents the topology of a cell block

type CellType int

const (
	Unknown CellType = iota
	// 0D cells
	Vertex
	// 1D cells
	Line
	Line3 // 3-node line (quadratic)
	// 2D cells
	Triangle
	Triangle6  // 6-node triangle (quadratic)
	Triangle9  // 9-node triangle
	Triangle10 // 10-node triangle
	Quad
	Quad8 // 8-node quad (quadratic)
	Quad9 // 9-node quad
	// 3D cells
	Tetra
	Tetra10 // 10-node tetrahedron (quadratic)
	Pyramid
	Pyramid13 // 13-node pyramid
	Pyramid14 // 14-node pyramid
	Wedge
	Wedge15 // 15-node prism (quadratic)
	Wedge18 // 18-node prism
	Hexahedron
	Hexahedron20 // 20-node hexahedron (quadratic)
	Hexahedron27 // 27-node hexahedron
)

var cellTypeNames = []string{
	"unknown",
	"vertex",
	"line", "line3",
	"triangle", "triangle6", "triangle9", "triangle10", "quad", "quad8", "quad9",
	"tetra", "tetra10", "pyramid", "pyramid13", "pyramid14",
	"wedge", "wedge15", "wedge18", "hexahedron", "hexahedron20", "hexahedron27",
}

// String returns the canonical cell type name, e.g. "tetra10"
func (c CellType) String() string {
	if c >= 0 && int(c) < len(cellTypeNames) {
		return cellTypeNames[c]
	}
	return "invalid"
}

// ParseCellType looks up a cell type by its canonical name
func ParseCellType(name string) (CellType, bool) {
	for i, n := range cellTypeNames {
		if i > 0 && n == name {
			return CellType(i), true
		}
	}
	return Unknown, false
}

// Dimension returns the topological dimension of the cell
func (c CellType) Dimension() int {
	switch c {
	case Vertex:
		return 0
	case Line, Line3:
		return 1
	case Triangle, Triangle6, Triangle9, Triangle10, Quad, Quad8, Quad9:
		return 2
	case Tetra, Tetra10, Pyramid, Pyramid13, Pyramid14, Wedge, Wedge15, Wedge18,
		Hexahedron, Hexahedron20, Hexahedron27:
		return 3
	default:
		return -1
	}
}

// NumNodes returns the number of points per cell
func (c CellType) NumNodes() int {
	switch c {
	case Vertex:
		return 1
	case Line:
		return 2
	case Line3:
		return 3
	case Triangle:
		return 3
	case Triangle6:
		return 6
	case Triangle9:
		return 9
	case Triangle10:
		return 10
	case Quad:
		return 4
	case Quad8:
		return 8
	case Quad9:
		return 9
	case Tetra:
		return 4
	case Tetra10:
		return 10
	case Pyramid:
		return 5
	case Pyramid13:
		return 13
	case Pyramid14:
		return 14
	case Wedge:
		return 6
	case Wedge15:
		return 15
	case Wedge18:
		return 18
	case Hexahedron:
		return 8
	case Hexahedron20:
		return 20
	case Hexahedron27:
		return 27
	default:
		return 0
	}
}
