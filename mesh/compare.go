package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"
)

// ApproxEqual compares the geometry and connectivity of two meshes. Point
// coordinates must agree within the absolute tolerance tol, cell blocks must
// have identical types and connectivity in the same order. Tags and metadata
// are not compared.
func ApproxEqual(a, b *Mesh, tol float64) error {
	if len(a.Points) != len(b.Points) {
		return fmt.Errorf("point count mismatch: %d != %d", len(a.Points), len(b.Points))
	}
	for i := range a.Points {
		if !pointsWithin(a.Points[i], b.Points[i], tol) {
			return fmt.Errorf("point %d differs: %v != %v", i, a.Points[i], b.Points[i])
		}
	}
	if len(a.Cells) != len(b.Cells) {
		return fmt.Errorf("cell block count mismatch: %d != %d", len(a.Cells), len(b.Cells))
	}
	for k := range a.Cells {
		ba, bb := a.Cells[k], b.Cells[k]
		if ba.Type != bb.Type {
			return fmt.Errorf("block %d type mismatch: %s != %s", k, ba.Type, bb.Type)
		}
		if ba.Len() != bb.Len() {
			return fmt.Errorf("block %d (%s) cell count mismatch: %d != %d", k, ba.Type, ba.Len(), bb.Len())
		}
		for i := range ba.Data {
			if len(ba.Data[i]) != len(bb.Data[i]) {
				return fmt.Errorf("block %d (%s) cell %d arity mismatch", k, ba.Type, i)
			}
			for j := range ba.Data[i] {
				if ba.Data[i][j] != bb.Data[i][j] {
					return fmt.Errorf("block %d (%s) cell %d differs: %v != %v",
						k, ba.Type, i, ba.Data[i], bb.Data[i])
				}
			}
		}
	}
	return nil
}

func pointsWithin(p, q []float64, tol float64) bool {
	if len(p) != len(q) {
		return false
	}
	for d := range p {
		if !scalar.EqualWithinAbs(p[d], q[d], tol) {
			return false
		}
	}
	return true
}
