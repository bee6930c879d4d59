package netgen

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/notargets/gonetgen/mesh"
)

var nameSectionOrder = []string{"materials", "bcnames", "cd2names", "cd3names"}

type writer struct {
	w     *bufio.Writer
	m     *mesh.Mesh
	log   logrus.FieldLogger
	dim   int
	topos []*Topology // one per cell block
}

// Write serializes m in the .vol format. Every cell block must have a
// topology known to this package, otherwise nothing is written and an
// *UnsupportedTopologyError is returned.
//
// Cells are written section by section (surface, volume, edge, point) and
// Read groups rows by topology, so block order and block boundaries are not
// preserved in general: blocks [tetra, triangle] read back as [triangle,
// tetra], and two triangle blocks read back as one.
func Write(w io.Writer, m *mesh.Mesh, opts ...Option) error {
	o := newOptions(opts)
	wr := &writer{
		w:   bufio.NewWriter(w),
		m:   m,
		log: o.logger,
		dim: m.IntInfo(DimensionKey, 3),
	}
	if err := wr.resolveTopologies(); err != nil {
		return err
	}

	wr.writeHeader(o.comment)
	wr.writeSurfaceElements()
	wr.writeVolumeElements()
	wr.writeEdgeSegments()
	wr.writePoints()
	wr.writePointElements()
	wr.writeIdentifications()
	wr.writeNames()
	wr.writeFaceColours()
	wr.printf("\nendmesh\n")
	wr.writeCSGSurfaces()

	if err := wr.w.Flush(); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	wr.log.WithFields(logrus.Fields{
		"points": m.NumPoints(),
		"cells":  m.NumCells(),
		"blocks": len(m.Cells),
	}).Debug("wrote netgen mesh")
	return nil
}

func (w *writer) resolveTopologies() error {
	w.topos = make([]*Topology, len(w.m.Cells))
	for b, blk := range w.m.Cells {
		t, err := LookupType(blk.Type)
		if err != nil {
			return err
		}
		for _, cell := range blk.Data {
			if len(cell) != t.Nodes {
				return &UnsupportedTopologyError{CellType: blk.Type.String(), Count: len(cell)}
			}
		}
		w.topos[b] = t
	}
	return nil
}

// Errors are held by the bufio.Writer and reported by Flush
func (w *writer) printf(format string, args ...interface{}) {
	fmt.Fprintf(w.w, format, args...)
}

func (w *writer) ints(vals ...int) {
	for _, v := range vals {
		fmt.Fprintf(w.w, "%8d", v)
	}
}

// pointNumbers writes 0-based point indices as 1-based point numbers
func (w *writer) pointNumbers(cell []int) {
	for _, p := range cell {
		fmt.Fprintf(w.w, "%8d", p+1)
	}
}

func (w *writer) float(v float64) {
	fmt.Fprintf(w.w, " %12s", strconv.FormatFloat(v, 'g', -1, 64))
}

func (w *writer) tag(key string, b, i, def int) int {
	if v, ok := w.m.CellTag(key, b, i); ok {
		return v
	}
	return def
}

func (w *writer) floatTag(key string, b, i int, def float64) float64 {
	if v, ok := w.m.CellFloatTag(key, b, i); ok {
		return v
	}
	return def
}

func (w *writer) count(kind SectionKind) int {
	var n int
	for b, t := range w.topos {
		if t.Kind == kind {
			n += w.m.Cells[b].Len()
		}
	}
	return n
}

// eachCell visits the cells of one section kind in block order, with the
// point indices already in file order.
func (w *writer) eachCell(kind SectionKind, fn func(b, i int, t *Topology, file []int)) {
	for b, t := range w.topos {
		if t.Kind != kind {
			continue
		}
		for i, cell := range w.m.Cells[b].Data {
			fn(b, i, t, t.FileOrder(cell))
		}
	}
}

func (w *writer) writeHeader(comment string) {
	w.printf("# %s\n\nmesh3d\ndimension\n%d\ngeomtype\n%d\n",
		comment, w.dim, w.m.IntInfo(GeomTypeKey, 0))
}

func (w *writer) writeSurfaceElements() {
	w.printf("\n# surfnr    bcnr   domin  domout      np      p1      p2      p3\n")
	w.printf("surfaceelements\n%d\n", w.count(SurfaceSection))
	w.eachCell(SurfaceSection, func(b, i int, t *Topology, file []int) {
		index := w.tag(IndexKey, b, i, 1)
		w.ints(w.tag(SurfNrKey, b, i, index), index,
			w.tag(DomInKey, b, i, 1), w.tag(DomOutKey, b, i, 0), t.Nodes)
		w.pointNumbers(file)
		w.printf("\n")
	})
}

func (w *writer) writeVolumeElements() {
	w.printf("\n#  matnr      np      p1      p2      p3      p4\n")
	w.printf("volumeelements\n%d\n", w.count(VolumeSection))
	w.eachCell(VolumeSection, func(b, i int, t *Topology, file []int) {
		w.ints(w.tag(IndexKey, b, i, 1), t.Nodes)
		w.pointNumbers(file)
		w.printf("\n")
	})
}

func (w *writer) writeEdgeSegments() {
	w.printf("\n# surfid  0   p1   p2   trignum1    trignum2   domin/surfnr1    domout/surfnr2   ednr1   dist1   ednr2   dist2\n")
	w.printf("edgesegmentsgi2\n%d\n", w.count(EdgeSection))
	w.eachCell(EdgeSection, func(b, i int, t *Topology, file []int) {
		w.ints(w.tag(IndexKey, b, i, 1), 0)
		w.pointNumbers(file)
		w.ints(w.tag(TrigNum1Key, b, i, -1), w.tag(TrigNum2Key, b, i, -1),
			w.tag(DomInKey, b, i, 0), w.tag(DomOutKey, b, i, 0),
			w.tag(EdNr1Key, b, i, 1))
		w.float(w.floatTag(Dist1Key, b, i, 0))
		w.ints(w.tag(EdNr2Key, b, i, 1))
		w.float(w.floatTag(Dist2Key, b, i, 0))
		w.printf("\n")
	})
}

func (w *writer) writePoints() {
	w.printf("\n#          X             Y             Z\npoints\n%d\n", w.m.NumPoints())
	for _, p := range w.m.Points {
		// planar points get z = 0
		var xyz [3]float64
		copy(xyz[:], p)
		w.printf(" %23.16f %23.16f %23.16f\n", xyz[0], xyz[1], xyz[2])
	}
}

func (w *writer) writePointElements() {
	w.printf("\n#          pnum             index\npointelements\n%d\n", w.count(PointSection))
	w.eachCell(PointSection, func(b, i int, t *Topology, file []int) {
		w.pointNumbers(file)
		w.printf(" %9d\n", w.tag(IndexKey, b, i, 1))
	})
}

func (w *writer) writeIdentifications() {
	ids, _ := w.m.IntTableInfo(IdentificationsKey)
	w.printf("\nidentifications\n%d\n", len(ids))
	for _, row := range ids {
		w.ints(row...)
		w.printf("\n")
	}

	types, _ := w.m.IntTableInfo(IdentificationTypesKey)
	w.printf("identificationtypes\n%d\n", types.Len())
	for _, row := range types {
		for _, v := range row {
			w.printf(" %d", v)
		}
		w.printf("\n")
	}
}

// writeNames emits one section per codimension that has names. Ids without
// a name are written as a bare number so that the ids keep their position.
func (w *writer) writeNames() {
	for _, section := range nameSectionOrder {
		target := w.dim - nameSections[section]
		if target < 0 {
			continue
		}

		names := make([]string, 0)
		for name, v := range w.m.FieldData {
			if len(v) == 2 && v[1] == target {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)

		byID := make(map[int]string)
		var maxID int
		for _, name := range names {
			id := w.m.FieldData[name][0]
			if id < 1 {
				w.log.WithFields(logrus.Fields{"name": name, "id": id}).Warn("skipping name with id below 1")
				continue
			}
			if prev, ok := byID[id]; ok {
				w.log.WithFields(logrus.Fields{"id": id, "kept": name, "dropped": prev}).
					Warn("several names share one id")
			}
			byID[id] = name
			if id > maxID {
				maxID = id
			}
		}
		if maxID == 0 {
			continue
		}

		w.printf("\n%s\n%d\n", section, maxID)
		for id := 1; id <= maxID; id++ {
			if name, ok := byID[id]; ok {
				w.printf("%d\t%s\n", id, name)
			} else {
				w.printf("%d\n", id)
			}
		}
	}
}

func (w *writer) writeFaceColours() {
	colours, ok := w.m.FloatTableInfo(FaceColoursKey)
	if !ok {
		return
	}
	w.printf("\n#   Surfnr     Red     Green     Blue\nface_colours\n%d\n", len(colours))
	for _, row := range colours {
		for j, v := range row {
			if j == 0 {
				w.printf("%8d", int(v))
			} else {
				w.printf(" %12.8f", v)
			}
		}
		w.printf("\n")
	}
}

func (w *writer) writeCSGSurfaces() {
	block, ok := w.m.TextInfo(CSGSurfacesKey)
	if !ok || len(block) == 0 {
		return
	}
	w.printf("\n")
	for _, line := range block {
		w.printf("%s\n", line)
	}
}
