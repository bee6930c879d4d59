package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/gonetgen/mesh"
	"github.com/notargets/gonetgen/mesh/netgen"
)

// Format names a mesh file format
type Format string

const (
	FormatUnknown Format = ""
	FormatNetgen  Format = "netgen"
)

// DetectFormat picks the format from the file extension, looking through
// a trailing .gz
func DetectFormat(filename string) Format {
	name := strings.ToLower(filename)
	if netgen.IsGzip(name) {
		name = strings.TrimSuffix(name, ".gz")
	}
	switch filepath.Ext(name) {
	case ".vol":
		return FormatNetgen
	default:
		return FormatUnknown
	}
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string, opts ...netgen.Option) (*mesh.Mesh, error) {
	switch DetectFormat(filename) {
	case FormatNetgen:
		return netgen.ReadFile(filename, opts...)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", filename)
	}
}

// WriteMeshFile writes m in the format given by the file extension
func WriteMeshFile(filename string, m *mesh.Mesh, opts ...netgen.Option) error {
	switch DetectFormat(filename) {
	case FormatNetgen:
		return netgen.WriteFile(filename, m, opts...)
	default:
		return fmt.Errorf("unsupported mesh format: %s", filename)
	}
}
