package mesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// CellBlock is a homogeneous group of cells sharing one topology
type CellBlock struct {
	Type CellType
	Data [][]int // Cell to point connectivity, 0-based [ncells][nodes_per_cell]
}

// Len returns the number of cells in the block
func (b CellBlock) Len() int { return len(b.Data) }

// Mesh is a generic unstructured mesh with mixed cell types
type Mesh struct {
	// Geometry
	Points [][]float64 // Point coordinates [npoints][3]

	// Cells, in read order. Blocks of the same type may repeat.
	Cells []CellBlock

	// Per-cell tags keyed by name. Each entry holds one array per cell block,
	// parallel to Cells; an array may be nil for blocks the tag does not apply to.
	CellData      map[string][][]int
	CellFloatData map[string][][]float64

	// Named groups: name -> [id, dimension]
	FieldData map[string][]int

	// Format specific metadata that must survive a round trip
	Info map[string]InfoValue
}

// NewMesh creates an empty mesh with initialized maps
func NewMesh() *Mesh {
	return &Mesh{
		CellData:      make(map[string][][]int),
		CellFloatData: make(map[string][][]float64),
		FieldData:     make(map[string][]int),
		Info:          make(map[string]InfoValue),
	}
}

// NumPoints returns the number of points
func (m *Mesh) NumPoints() int { return len(m.Points) }

// NumCells returns the number of cells summed over all blocks
func (m *Mesh) NumCells() int {
	var n int
	for _, b := range m.Cells {
		n += b.Len()
	}
	return n
}

// AddBlock appends a cell block and returns its index
func (m *Mesh) AddBlock(t CellType, data [][]int) int {
	m.Cells = append(m.Cells, CellBlock{Type: t, Data: data})
	return len(m.Cells) - 1
}

// CellTag returns the integer tag of cell i in block b. The second result is
// false when the tag is not present for that block.
func (m *Mesh) CellTag(name string, b, i int) (int, bool) {
	arrays, ok := m.CellData[name]
	if !ok || b >= len(arrays) || i >= len(arrays[b]) {
		return 0, false
	}
	return arrays[b][i], true
}

// CellFloatTag is CellTag for floating point tags
func (m *Mesh) CellFloatTag(name string, b, i int) (float64, bool) {
	arrays, ok := m.CellFloatData[name]
	if !ok || b >= len(arrays) || i >= len(arrays[b]) {
		return 0, false
	}
	return arrays[b][i], true
}

// Check verifies the structural invariants of the mesh: every cell has the
// arity of its type, every point index is in range and every non-nil tag
// array matches its block length.
func (m *Mesh) Check() error {
	np := len(m.Points)
	for i, p := range m.Points {
		if len(p) != 3 {
			return fmt.Errorf("point %d has %d coordinates, expected 3", i, len(p))
		}
	}
	for b, blk := range m.Cells {
		nn := blk.Type.NumNodes()
		for i, cell := range blk.Data {
			if len(cell) != nn {
				return fmt.Errorf("block %d (%s) cell %d has %d nodes, expected %d",
					b, blk.Type, i, len(cell), nn)
			}
			for _, p := range cell {
				if p < 0 || p >= np {
					return fmt.Errorf("block %d (%s) cell %d: point index %d out of range [0,%d)",
						b, blk.Type, i, p, np)
				}
			}
		}
	}
	for name, arrays := range m.CellData {
		if err := checkTagLengths(name, m.Cells, len(arrays), func(b int) int { return len(arrays[b]) },
			func(b int) bool { return arrays[b] == nil }); err != nil {
			return err
		}
	}
	for name, arrays := range m.CellFloatData {
		if err := checkTagLengths(name, m.Cells, len(arrays), func(b int) int { return len(arrays[b]) },
			func(b int) bool { return arrays[b] == nil }); err != nil {
			return err
		}
	}
	for name, v := range m.FieldData {
		if len(v) != 2 {
			return fmt.Errorf("field data %q has %d values, expected [id dimension]", name, len(v))
		}
	}
	return nil
}

func checkTagLengths(name string, cells []CellBlock, n int, length func(int) int, isNil func(int) bool) error {
	if n != len(cells) {
		return fmt.Errorf("cell data %q has %d arrays for %d blocks", name, n, len(cells))
	}
	for b := range cells {
		if isNil(b) {
			continue
		}
		if length(b) != cells[b].Len() {
			return fmt.Errorf("cell data %q block %d has %d values for %d cells",
				name, b, length(b), cells[b].Len())
		}
	}
	return nil
}

// BlockStats summarizes one cell block
type BlockStats struct {
	Type  string `json:"type"`
	Cells int    `json:"cells"`
}

// Stats summarizes a mesh
type Stats struct {
	Points    int              `json:"points"`
	Cells     int              `json:"cells"`
	Blocks    []BlockStats     `json:"blocks"`
	CellTypes map[string]int   `json:"cellTypes"`
	Min       []float64        `json:"min,omitempty"`
	Max       []float64        `json:"max,omitempty"`
	FieldData map[string][]int `json:"fieldData,omitempty"`
	CellData  []string         `json:"cellData,omitempty"`
	Info      []string         `json:"info,omitempty"`
}

// Stats computes mesh statistics
func (m *Mesh) Stats() Stats {
	s := Stats{
		Points:    len(m.Points),
		Cells:     m.NumCells(),
		CellTypes: make(map[string]int),
		FieldData: m.FieldData,
	}
	for _, b := range m.Cells {
		s.Blocks = append(s.Blocks, BlockStats{Type: b.Type.String(), Cells: b.Len()})
		s.CellTypes[b.Type.String()] += b.Len()
	}
	s.Min, s.Max = m.Bounds()
	s.CellData = sortedKeys(m.CellData)
	for k := range m.CellFloatData {
		s.CellData = append(s.CellData, k)
	}
	sort.Strings(s.CellData)
	for k := range m.Info {
		s.Info = append(s.Info, k)
	}
	sort.Strings(s.Info)
	return s
}

// Bounds returns the coordinate-wise bounding box, nil for an empty mesh
func (m *Mesh) Bounds() (lo, hi []float64) {
	if len(m.Points) == 0 {
		return nil, nil
	}
	lo = make([]float64, 3)
	hi = make([]float64, 3)
	col := make([]float64, len(m.Points))
	for d := 0; d < 3; d++ {
		for i, p := range m.Points {
			col[i] = p[d]
		}
		lo[d] = floats.Min(col)
		hi[d] = floats.Max(col)
	}
	return lo, hi
}

func sortedKeys(m map[string][][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
