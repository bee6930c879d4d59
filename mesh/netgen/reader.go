package netgen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/notargets/gonetgen/mesh"
)

// Codimension of the named group sections. A name read from one of these
// becomes the field datum [id, dimension-codim].
var nameSections = map[string]int{
	"materials": 0,
	"bcnames":   1,
	"cd2names":  2,
	"cd3names":  3,
}

// lineScanner yields the significant lines of a .vol stream: blank lines
// and lines starting with # are skipped.
type lineScanner struct {
	scanner *bufio.Scanner
	line    int
	text    string
	fields  []string
	pushed  bool
}

func newLineScanner(r io.Reader) *lineScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &lineScanner{scanner: s}
}

func (ls *lineScanner) next() ([]string, bool) {
	if ls.pushed {
		ls.pushed = false
		return ls.fields, true
	}
	for ls.scanner.Scan() {
		ls.line++
		text := strings.TrimSpace(ls.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		ls.text = text
		ls.fields = strings.Fields(text)
		return ls.fields, true
	}
	return nil, false
}

// unread pushes the last line back; only one line of lookahead is kept
func (ls *lineScanner) unread() { ls.pushed = true }

func (ls *lineScanner) err() error { return ls.scanner.Err() }

type reader struct {
	ls      *lineScanner
	log     logrus.FieldLogger
	m       *mesh.Mesh
	section string
	dim     int
	ended   bool
	blocks  map[mesh.CellType]int
}

// Read parses a .vol stream. The stream is not closed.
func Read(r io.Reader, opts ...Option) (*mesh.Mesh, error) {
	o := newOptions(opts)
	rd := &reader{
		ls:     newLineScanner(r),
		log:    o.logger,
		m:      mesh.NewMesh(),
		dim:    3,
		blocks: make(map[mesh.CellType]int),
	}

	if err := rd.readSections(); err != nil {
		return nil, err
	}
	rd.padCellData()
	rd.setDefaults()
	if err := rd.validate(); err != nil {
		return nil, err
	}

	rd.log.WithFields(logrus.Fields{
		"points": rd.m.NumPoints(),
		"cells":  rd.m.NumCells(),
		"blocks": len(rd.m.Cells),
	}).Debug("read netgen mesh")
	return rd.m, nil
}

func (r *reader) readSections() error {
	for {
		fields, ok := r.ls.next()
		if !ok {
			break
		}
		keyword := fields[0]
		// Only CSG definitions are expected after the mesh body
		if r.ended && keyword != "csgsurfaces" {
			continue
		}
		r.section = keyword

		var err error
		switch keyword {
		case "mesh3d":
		case "endmesh":
			r.ended = true
		case "dimension":
			if r.dim, err = r.scalar(fields); err == nil {
				r.m.Info[DimensionKey] = mesh.IntScalar(r.dim)
			}
		case "geomtype":
			var g int
			if g, err = r.scalar(fields); err == nil {
				r.m.Info[GeomTypeKey] = mesh.IntScalar(g)
			}
		case "surfaceelements", "surfaceelementsgi", "surfaceelementsuv":
			err = r.readRows(fields, r.surfaceRow)
		case "volumeelements":
			err = r.readRows(fields, r.volumeRow)
		case "edgesegmentsgi2":
			err = r.readRows(fields, r.edgeRowGI2)
		case "edgesegments":
			err = r.readRows(fields, r.edgeRow)
		case "points":
			err = r.readRows(fields, r.pointRow)
		case "pointelements":
			err = r.readRows(fields, r.pointElementRow)
		case "identifications":
			err = r.readIdentifications(fields)
		case "identificationtypes":
			err = r.readIdentificationTypes(fields)
		case "materials", "bcnames", "cd2names", "cd3names":
			codim := nameSections[keyword]
			err = r.readRows(fields, func(f []string) error {
				return r.nameRow(f, codim)
			})
		case "face_colours", "face_colors":
			err = r.readFaceColours(fields)
		case "csgsurfaces":
			err = r.readCSGSurfaces(fields)
		default:
			r.skipUnknown(fields)
		}
		if err != nil {
			return err
		}
	}

	if err := r.ls.err(); err != nil {
		return &IOError{Op: "read", Err: err}
	}
	return nil
}

func (r *reader) errorf(format string, args ...interface{}) error {
	return &ParseError{Line: r.ls.line, Section: r.section, Msg: fmt.Sprintf(format, args...)}
}

func (r *reader) atoi(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Line: r.ls.line, Section: r.section,
			Msg: fmt.Sprintf("invalid integer %q", s), Err: err}
	}
	return v, nil
}

func (r *reader) atof(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Line: r.ls.line, Section: r.section,
			Msg: fmt.Sprintf("invalid number %q", s), Err: err}
	}
	return v, nil
}

func (r *reader) ints(fields []string) ([]int, error) {
	vals := make([]int, len(fields))
	for i, s := range fields {
		v, err := r.atoi(s)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (r *reader) floats(fields []string) ([]float64, error) {
	vals := make([]float64, len(fields))
	for i, s := range fields {
		v, err := r.atof(s)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// scalar reads the integer following a keyword, either on the keyword line
// itself ("csgsurfaces 8") or alone on the next line.
func (r *reader) scalar(fields []string) (int, error) {
	if len(fields) > 1 {
		return r.atoi(fields[1])
	}
	next, ok := r.ls.next()
	if !ok {
		return 0, r.errorf("unexpected end of file, expected a value")
	}
	if len(next) != 1 {
		return 0, r.errorf("expected a single integer, got %q", r.ls.text)
	}
	return r.atoi(next[0])
}

func (r *reader) count(fields []string) (int, error) {
	n, err := r.scalar(fields)
	if err == nil && n < 0 {
		err = r.errorf("negative record count %d", n)
	}
	return n, err
}

// readRows reads the record count and hands each of the records to row
func (r *reader) readRows(fields []string, row func([]string) error) error {
	n, err := r.count(fields)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		f, ok := r.ls.next()
		if !ok {
			return r.errorf("unexpected end of file after %d of %d records", i, n)
		}
		if err := row(f); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) skipUnknown(fields []string) {
	n := -1
	if len(fields) == 2 {
		if v, err := strconv.Atoi(fields[1]); err == nil {
			n = v
		}
	}
	if n < 0 {
		if next, ok := r.ls.next(); ok {
			if v, err := strconv.Atoi(next[0]); err == nil && len(next) == 1 {
				n = v
			} else {
				r.ls.unread()
			}
		}
	}

	r.log.WithFields(logrus.Fields{
		"section": fields[0],
		"line":    r.ls.line,
		"records": n,
	}).Debug("skipping unknown section")

	for i := 0; i < n; i++ {
		if _, ok := r.ls.next(); !ok {
			return
		}
	}
}

func (r *reader) lookup(kind SectionKind, nodes int) (*Topology, error) {
	t, err := Lookup(kind, nodes)
	if err != nil {
		if ute, ok := err.(*UnsupportedTopologyError); ok {
			ute.Section = r.section
			ute.Line = r.ls.line
		}
		return nil, err
	}
	return t, nil
}

// cell parses t.Nodes 1-based point numbers and returns them 0-based, in
// canonical order.
func (r *reader) cell(t *Topology, f []string) ([]int, error) {
	if len(f) < t.Nodes {
		return nil, r.errorf("%s needs %d point numbers, got %d", t.Type, t.Nodes, len(f))
	}
	file := make([]int, t.Nodes)
	for i := range file {
		p, err := r.atoi(f[i])
		if err != nil {
			return nil, err
		}
		file[i] = p - 1
	}
	return t.Canonical(file), nil
}

func (r *reader) addCell(t *Topology, cell []int) int {
	b, ok := r.blocks[t.Type]
	if !ok {
		b = r.m.AddBlock(t.Type, nil)
		r.blocks[t.Type] = b
	}
	r.m.Cells[b].Data = append(r.m.Cells[b].Data, cell)
	return b
}

func (r *reader) tag(key string, b, v int) {
	arrays := r.m.CellData[key]
	for len(arrays) <= b {
		arrays = append(arrays, nil)
	}
	arrays[b] = append(arrays[b], v)
	r.m.CellData[key] = arrays
}

func (r *reader) floatTag(key string, b int, v float64) {
	arrays := r.m.CellFloatData[key]
	for len(arrays) <= b {
		arrays = append(arrays, nil)
	}
	arrays[b] = append(arrays[b], v)
	r.m.CellFloatData[key] = arrays
}

// surfnr bcnr domin domout np p1 ... p(np)
func (r *reader) surfaceRow(f []string) error {
	if len(f) < 5 {
		return r.errorf("surface element needs at least 5 fields, got %d", len(f))
	}
	head, err := r.ints(f[:5])
	if err != nil {
		return err
	}
	t, err := r.lookup(SurfaceSection, head[4])
	if err != nil {
		return err
	}
	cell, err := r.cell(t, f[5:])
	if err != nil {
		return err
	}
	b := r.addCell(t, cell)
	r.tag(SurfNrKey, b, head[0])
	r.tag(IndexKey, b, head[1])
	r.tag(DomInKey, b, head[2])
	r.tag(DomOutKey, b, head[3])
	return nil
}

// matnr np p1 ... p(np)
func (r *reader) volumeRow(f []string) error {
	if len(f) < 2 {
		return r.errorf("volume element needs at least 2 fields, got %d", len(f))
	}
	head, err := r.ints(f[:2])
	if err != nil {
		return err
	}
	t, err := r.lookup(VolumeSection, head[1])
	if err != nil {
		return err
	}
	cell, err := r.cell(t, f[2:])
	if err != nil {
		return err
	}
	b := r.addCell(t, cell)
	r.tag(IndexKey, b, head[0])
	return nil
}

// surfnr 0 p1 p2 trignum1 trignum2 domin domout ednr1 dist1 ednr2 dist2
func (r *reader) edgeRowGI2(f []string) error {
	if len(f) < 12 {
		return r.errorf("edge segment needs 12 fields, got %d", len(f))
	}
	head, err := r.ints(f[:9])
	if err != nil {
		return err
	}
	ednr2, err := r.atoi(f[10])
	if err != nil {
		return err
	}
	dist1, err := r.atof(f[9])
	if err != nil {
		return err
	}
	dist2, err := r.atof(f[11])
	if err != nil {
		return err
	}
	t, err := r.lookup(EdgeSection, 2)
	if err != nil {
		return err
	}
	cell, err := r.cell(t, f[2:4])
	if err != nil {
		return err
	}
	b := r.addCell(t, cell)
	r.tag(IndexKey, b, head[0])
	r.tag(TrigNum1Key, b, head[4])
	r.tag(TrigNum2Key, b, head[5])
	r.tag(DomInKey, b, head[6])
	r.tag(DomOutKey, b, head[7])
	r.tag(EdNr1Key, b, head[8])
	r.tag(EdNr2Key, b, ednr2)
	r.floatTag(Dist1Key, b, dist1)
	r.floatTag(Dist2Key, b, dist2)
	return nil
}

// surfnr 0 p1 p2 [...]; the columns an edgesegmentsgi2 row would carry get
// the values the writer uses when they are missing.
func (r *reader) edgeRow(f []string) error {
	if len(f) < 4 {
		return r.errorf("edge segment needs at least 4 fields, got %d", len(f))
	}
	surfnr, err := r.atoi(f[0])
	if err != nil {
		return err
	}
	t, err := r.lookup(EdgeSection, 2)
	if err != nil {
		return err
	}
	cell, err := r.cell(t, f[2:4])
	if err != nil {
		return err
	}
	b := r.addCell(t, cell)
	r.tag(IndexKey, b, surfnr)
	r.tag(TrigNum1Key, b, -1)
	r.tag(TrigNum2Key, b, -1)
	r.tag(DomInKey, b, 0)
	r.tag(DomOutKey, b, 0)
	r.tag(EdNr1Key, b, 1)
	r.tag(EdNr2Key, b, 1)
	r.floatTag(Dist1Key, b, 0)
	r.floatTag(Dist2Key, b, 0)
	return nil
}

// x y z
func (r *reader) pointRow(f []string) error {
	if len(f) < 3 {
		return r.errorf("point needs 3 coordinates, got %d", len(f))
	}
	xyz, err := r.floats(f[:3])
	if err != nil {
		return err
	}
	r.m.Points = append(r.m.Points, xyz)
	return nil
}

// pnum index
func (r *reader) pointElementRow(f []string) error {
	if len(f) < 2 {
		return r.errorf("point element needs 2 fields, got %d", len(f))
	}
	vals, err := r.ints(f[:2])
	if err != nil {
		return err
	}
	t, err := r.lookup(PointSection, 1)
	if err != nil {
		return err
	}
	r.tag(IndexKey, r.addCell(t, []int{vals[0] - 1}), vals[1])
	return nil
}

// p1 p2 identnr, kept 1-based
func (r *reader) readIdentifications(fields []string) error {
	ids := mesh.IntTable{}
	err := r.readRows(fields, func(f []string) error {
		if len(f) < 3 {
			return r.errorf("identification needs 3 fields, got %d", len(f))
		}
		row, err := r.ints(f[:3])
		if err != nil {
			return err
		}
		ids = append(ids, row)
		return nil
	})
	if err != nil {
		return err
	}
	r.m.Info[IdentificationsKey] = ids
	return nil
}

// The N type codes may be spread over any number of lines; they are kept
// as a single row.
func (r *reader) readIdentificationTypes(fields []string) error {
	n, err := r.count(fields)
	if err != nil {
		return err
	}
	vals := make([]int, 0, n)
	for len(vals) < n {
		f, ok := r.ls.next()
		if !ok {
			return r.errorf("unexpected end of file after %d of %d identification types", len(vals), n)
		}
		if len(vals)+len(f) > n {
			return r.errorf("found more than %d identification types", n)
		}
		row, err := r.ints(f)
		if err != nil {
			return err
		}
		vals = append(vals, row...)
	}
	types := mesh.IntTable{}
	if n > 0 {
		types = append(types, vals)
	}
	r.m.Info[IdentificationTypesKey] = types
	return nil
}

// id [name]; rows without a name are ignored and a repeated name keeps
// the last id.
func (r *reader) nameRow(f []string, codim int) error {
	id, err := r.atoi(f[0])
	if err != nil {
		return err
	}
	if len(f) < 2 {
		return nil
	}
	r.m.FieldData[strings.Join(f[1:], " ")] = []int{id, r.dim - codim}
	return nil
}

// surfnr red green blue
func (r *reader) readFaceColours(fields []string) error {
	colours := mesh.FloatTable{}
	err := r.readRows(fields, func(f []string) error {
		if len(f) < 4 {
			return r.errorf("face colour needs 4 fields, got %d", len(f))
		}
		row, err := r.floats(f[:4])
		if err != nil {
			return err
		}
		colours = append(colours, row)
		return nil
	})
	if err != nil {
		return err
	}
	r.m.Info[FaceColoursKey] = colours
	return nil
}

// Each surface is "name nparams" followed by nparams values, which may
// continue over several lines. The block is not interpreted.
func (r *reader) readCSGSurfaces(fields []string) error {
	block := mesh.TextBlock{r.ls.text}
	var n int
	if len(fields) > 1 {
		v, err := r.atoi(fields[1])
		if err != nil {
			return err
		}
		n = v
	} else {
		f, ok := r.ls.next()
		if !ok {
			return r.errorf("unexpected end of file, expected a value")
		}
		v, err := r.atoi(f[0])
		if err != nil {
			return err
		}
		block = append(block, r.ls.text)
		n = v
	}

	for i := 0; i < n; i++ {
		f, ok := r.ls.next()
		if !ok {
			return r.errorf("unexpected end of file after %d of %d surfaces", i, n)
		}
		if len(f) < 2 {
			return r.errorf("surface needs a primitive name and a parameter count")
		}
		nparams, err := r.atoi(f[1])
		if err != nil {
			return err
		}
		block = append(block, r.ls.text)
		for got := len(f) - 2; got < nparams; {
			p, ok := r.ls.next()
			if !ok {
				return r.errorf("unexpected end of file in parameters of %s", f[0])
			}
			if _, err := r.floats(p); err != nil {
				return err
			}
			block = append(block, r.ls.text)
			got += len(p)
		}
	}
	r.m.Info[CSGSurfacesKey] = block
	return nil
}

// setDefaults records the header values and identification tables that are
// always written, so that reading a written file gives the same info bag.
func (r *reader) setDefaults() {
	defaults := map[string]mesh.InfoValue{
		DimensionKey:           mesh.IntScalar(r.dim),
		GeomTypeKey:            mesh.IntScalar(0),
		IdentificationsKey:     mesh.IntTable{},
		IdentificationTypesKey: mesh.IntTable{},
	}
	for k, v := range defaults {
		if _, ok := r.m.Info[k]; !ok {
			r.m.Info[k] = v
		}
	}
}

// padCellData extends every tag to one array per block
func (r *reader) padCellData() {
	nb := len(r.m.Cells)
	for k, arrays := range r.m.CellData {
		for len(arrays) < nb {
			arrays = append(arrays, nil)
		}
		r.m.CellData[k] = arrays
	}
	for k, arrays := range r.m.CellFloatData {
		for len(arrays) < nb {
			arrays = append(arrays, nil)
		}
		r.m.CellFloatData[k] = arrays
	}
}

func (r *reader) validate() error {
	if err := r.m.Check(); err != nil {
		return &ParseError{Msg: err.Error()}
	}
	np := r.m.NumPoints()
	ids, _ := r.m.IntTableInfo(IdentificationsKey)
	for i, row := range ids {
		if row[0] < 1 || row[0] > np || row[1] < 1 || row[1] > np {
			return &ParseError{Section: "identifications",
				Msg: fmt.Sprintf("identification %d references points %d, %d outside [1,%d]", i+1, row[0], row[1], np)}
		}
	}
	if len(ids) > 0 {
		types, _ := r.m.IntTableInfo(IdentificationTypesKey)
		for _, row := range ids {
			if row[2] < 1 || row[2] > types.Len() {
				r.log.WithField("identnr", row[2]).Warn("identification type has no entry in identificationtypes")
				break
			}
		}
	}
	return nil
}
