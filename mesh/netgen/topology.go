package netgen

import (
	"fmt"

	"github.com/notargets/gonetgen/mesh"
)

// SectionKind identifies the element sections of a .vol file
type SectionKind int

const (
	SurfaceSection SectionKind = iota
	VolumeSection
	EdgeSection
	PointSection
)

// String returns the section keyword used when writing
func (k SectionKind) String() string {
	switch k {
	case SurfaceSection:
		return "surfaceelements"
	case VolumeSection:
		return "volumeelements"
	case EdgeSection:
		return "edgesegmentsgi2"
	case PointSection:
		return "pointelements"
	default:
		return "unknown"
	}
}

// Topology binds a section kind and per-row point count to a cell type.
// Netgen orders the nodes of several cells differently from the canonical
// ordering used by mesh.CellType:
//
//	canonical[i] = file[ToCanonical[i]]
//	file[i]      = canonical[ToFile[i]]
type Topology struct {
	Kind        SectionKind
	Nodes       int
	Type        mesh.CellType
	ToCanonical []int
	ToFile      []int
}

var topologyTable = []Topology{
	{Kind: PointSection, Nodes: 1, Type: mesh.Vertex, ToCanonical: []int{0}},
	{Kind: EdgeSection, Nodes: 2, Type: mesh.Line, ToCanonical: []int{0, 1}},

	{Kind: SurfaceSection, Nodes: 3, Type: mesh.Triangle, ToCanonical: []int{0, 1, 2}},
	{Kind: SurfaceSection, Nodes: 6, Type: mesh.Triangle6, ToCanonical: []int{0, 1, 2, 5, 3, 4}},
	{Kind: SurfaceSection, Nodes: 4, Type: mesh.Quad, ToCanonical: []int{0, 1, 2, 3}},
	{Kind: SurfaceSection, Nodes: 8, Type: mesh.Quad8, ToCanonical: []int{0, 1, 2, 3, 4, 7, 5, 6}},

	{Kind: VolumeSection, Nodes: 4, Type: mesh.Tetra, ToCanonical: []int{0, 2, 1, 3}},
	{Kind: VolumeSection, Nodes: 5, Type: mesh.Pyramid, ToCanonical: []int{0, 3, 2, 1, 4}},
	{Kind: VolumeSection, Nodes: 6, Type: mesh.Wedge, ToCanonical: []int{0, 2, 1, 3, 5, 4}},
	{Kind: VolumeSection, Nodes: 8, Type: mesh.Hexahedron, ToCanonical: []int{0, 3, 2, 1, 4, 7, 6, 5}},
	{Kind: VolumeSection, Nodes: 10, Type: mesh.Tetra10,
		ToCanonical: []int{0, 2, 1, 3, 5, 7, 4, 6, 9, 8}},
	{Kind: VolumeSection, Nodes: 13, Type: mesh.Pyramid13,
		ToCanonical: []int{0, 3, 2, 1, 4, 7, 6, 5, 8, 9, 12, 11, 10}},
	{Kind: VolumeSection, Nodes: 15, Type: mesh.Wedge15,
		ToCanonical: []int{0, 2, 1, 3, 5, 4, 7, 8, 6, 13, 14, 12, 9, 11, 10}},
	{Kind: VolumeSection, Nodes: 20, Type: mesh.Hexahedron20,
		ToCanonical: []int{0, 3, 2, 1, 4, 7, 6, 5, 11, 10, 9, 8, 15, 14, 13, 12, 16, 19, 18, 17}},
}

type topologyKey struct {
	kind  SectionKind
	nodes int
}

var (
	topologyByFile = make(map[topologyKey]*Topology)
	topologyByType = make(map[mesh.CellType]*Topology)
)

func init() {
	for i := range topologyTable {
		t := &topologyTable[i]
		if len(t.ToCanonical) != t.Nodes || t.Type.NumNodes() != t.Nodes {
			panic(fmt.Sprintf("netgen: topology %s: permutation length %d, expected %d",
				t.Type, len(t.ToCanonical), t.Nodes))
		}
		t.ToFile = inversePermutation(t.ToCanonical)
		topologyByFile[topologyKey{t.Kind, t.Nodes}] = t
		topologyByType[t.Type] = t
	}
}

func inversePermutation(p []int) []int {
	inv := make([]int, len(p))
	for i, j := range p {
		inv[j] = i
	}
	return inv
}

// Lookup returns the topology of a row with the given point count
func Lookup(kind SectionKind, nodes int) (*Topology, error) {
	t, ok := topologyByFile[topologyKey{kind, nodes}]
	if !ok {
		return nil, &UnsupportedTopologyError{Section: kind.String(), Count: nodes}
	}
	return t, nil
}

// LookupType returns the topology used to write cells of type ct
func LookupType(ct mesh.CellType) (*Topology, error) {
	t, ok := topologyByType[ct]
	if !ok {
		return nil, &UnsupportedTopologyError{CellType: ct.String(), Count: ct.NumNodes()}
	}
	return t, nil
}

// Canonical reorders a row of point indices from file order
func (t *Topology) Canonical(file []int) []int {
	return permute(file, t.ToCanonical)
}

// FileOrder reorders a cell from canonical order to file order
func (t *Topology) FileOrder(cell []int) []int {
	return permute(cell, t.ToFile)
}

func permute(src, p []int) []int {
	dst := make([]int, len(p))
	for i, j := range p {
		dst[i] = src[j]
	}
	return dst
}
