package netgen

import (
	"errors"
	"fmt"
)

// ErrUnsupportedTopology matches every *UnsupportedTopologyError with errors.Is
var ErrUnsupportedTopology = errors.New("unsupported topology")

// ParseError reports malformed input. Line is 1-based, 0 when the problem is
// only detected after the pass.
type ParseError struct {
	Line    int
	Section string
	Msg     string
	Err     error
}

func (e *ParseError) Error() string {
	s := "netgen: parse error"
	if e.Line > 0 {
		s += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Section != "" {
		s += fmt.Sprintf(" in section %s", e.Section)
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedTopologyError reports a point count, or a cell type, that has no
// entry in the topology table.
type UnsupportedTopologyError struct {
	Section  string
	Count    int
	CellType string // empty when raised while reading
	Line     int
}

func (e *UnsupportedTopologyError) Error() string {
	if e.CellType != "" {
		return fmt.Sprintf("netgen: unsupported topology: cell type %s with %d points cannot be written",
			e.CellType, e.Count)
	}
	s := fmt.Sprintf("netgen: unsupported topology in section %s: %d points", e.Section, e.Count)
	if e.Line > 0 {
		s += fmt.Sprintf(" (line %d)", e.Line)
	}
	return s
}

func (e *UnsupportedTopologyError) Is(target error) bool {
	return target == ErrUnsupportedTopology
}

// IOError wraps a failure of the underlying stream
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("netgen: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("netgen: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
