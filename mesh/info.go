package mesh

// InfoValue is a format specific payload kept in Mesh.Info. Readers store what
// they cannot express in points, cells or tags here, and the matching writer
// emits it again unchanged. The concrete types are IntTable, FloatTable,
// TextBlock and IntScalar.
type InfoValue interface {
	infoValue()
}

// IntTable is a row-major table of integers
type IntTable [][]int

// FloatTable is a row-major table of floats
type FloatTable [][]float64

// TextBlock holds lines kept verbatim
type TextBlock []string

// IntScalar is a single integer value
type IntScalar int

func (IntTable) infoValue()   {}
func (FloatTable) infoValue() {}
func (TextBlock) infoValue()  {}
func (IntScalar) infoValue()  {}

// Len returns the total number of values in the table
func (t IntTable) Len() int {
	var n int
	for _, row := range t {
		n += len(row)
	}
	return n
}

// IntTableInfo returns the IntTable stored under key, if any
func (m *Mesh) IntTableInfo(key string) (IntTable, bool) {
	v, ok := m.Info[key].(IntTable)
	return v, ok
}

// FloatTableInfo returns the FloatTable stored under key, if any
func (m *Mesh) FloatTableInfo(key string) (FloatTable, bool) {
	v, ok := m.Info[key].(FloatTable)
	return v, ok
}

// TextInfo returns the TextBlock stored under key, if any
func (m *Mesh) TextInfo(key string) (TextBlock, bool) {
	v, ok := m.Info[key].(TextBlock)
	return v, ok
}

// IntInfo returns the scalar stored under key, or def when absent
func (m *Mesh) IntInfo(key string, def int) int {
	if v, ok := m.Info[key].(IntScalar); ok {
		return int(v)
	}
	return def
}
