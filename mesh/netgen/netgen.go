// Package netgen reads and writes Netgen .vol mesh files, optionally gzip
// compressed (.vol.gz).
//
// A .vol file is a sequence of sections, each a keyword line followed by a
// record count and that many whitespace separated rows. Points are numbered
// from 1 in the file and from 0 in a mesh.Mesh; the translation happens when
// a row is parsed and when it is formatted, nowhere else.
//
// Element rows are grouped by topology into mesh.CellBlocks in the order the
// topologies first appear. The material, boundary or surface number of each
// row is kept in Mesh.CellData[IndexKey]. Sections with no generic mesh
// equivalent (identifications, CSG surfaces, face colours) are kept in
// Mesh.Info so that a read followed by a write reproduces them.
package netgen

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/notargets/gonetgen/mesh"
)

// Cell data keys. IndexKey is set for every block read from a file.
const (
	IndexKey    = "netgen:index"
	SurfNrKey   = "netgen:surfnr"
	DomInKey    = "netgen:domin"
	DomOutKey   = "netgen:domout"
	TrigNum1Key = "netgen:trignum1"
	TrigNum2Key = "netgen:trignum2"
	EdNr1Key    = "netgen:ednr1"
	EdNr2Key    = "netgen:ednr2"
	Dist1Key    = "netgen:dist1"
	Dist2Key    = "netgen:dist2"
)

// Info keys
const (
	IdentificationsKey     = "netgen:identifications"     // mesh.IntTable, rows p1 p2 identnr, 1-based as in the file
	IdentificationTypesKey = "netgen:identificationtypes" // mesh.IntTable, one row of type codes
	DimensionKey           = "netgen:dimension"           // mesh.IntScalar
	GeomTypeKey            = "netgen:geomtype"            // mesh.IntScalar
	FaceColoursKey         = "netgen:face_colours"        // mesh.FloatTable, rows surfnr r g b
	CSGSurfacesKey         = "netgen:csgsurfaces"         // mesh.TextBlock, verbatim including the keyword line
)

// IsGzip reports whether path names a gzip compressed file
func IsGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// ReadFile reads a .vol or .vol.gz file
func ReadFile(path string, opts ...Option) (*mesh.Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	var r io.Reader = file
	if IsGzip(path) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, &IOError{Op: "decompress", Path: path, Err: err}
		}
		defer gz.Close()
		r = gz
	}

	m, err := Read(r, opts...)
	if ioErr, ok := err.(*IOError); ok && ioErr.Path == "" {
		ioErr.Path = path
	}
	return m, err
}

// WriteFile writes m to path, gzip compressed when path ends in .gz. On
// error the file is left in an undefined, partially written state.
func WriteFile(path string, m *mesh.Mesh, opts ...Option) (err error) {
	o := newOptions(opts)

	file, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	var w io.Writer = file
	if IsGzip(path) {
		gz, gerr := gzip.NewWriterLevel(file, o.compressionLevel)
		if gerr != nil {
			return &IOError{Op: "compress", Path: path, Err: gerr}
		}
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = &IOError{Op: "compress", Path: path, Err: cerr}
			}
		}()
		w = gz
	}

	if err = Write(w, m, opts...); err != nil {
		if ioErr, ok := err.(*IOError); ok && ioErr.Path == "" {
			ioErr.Path = path
		}
	}
	return err
}
