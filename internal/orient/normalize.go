// Package orient repairs 3x3 orientation matrices stored as nine row-major floats.
package orient

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NormalizeRows rescales each row of m to unit length. Rows with a zero norm are
// left as they are. The direction of every row is preserved.
//
// Norms are computed in float64 and the result narrowed back to float32.
func NormalizeRows(m [9]float32) [9]float32 {
	out := m
	for r := range 3 {
		v := row(m, r)
		n := r3.Norm(v)
		if n == 0 {
			continue
		}
		u := r3.Scale(1/n, v)
		out[3*r] = float32(u.X)
		out[3*r+1] = float32(u.Y)
		out[3*r+2] = float32(u.Z)
	}
	return out
}

// RowNorms returns the Euclidean norm of each row.
func RowNorms(m [9]float32) [3]float64 {
	var norms [3]float64
	for r := range 3 {
		norms[r] = r3.Norm(row(m, r))
	}
	return norms
}

// IsNormalized reports whether every row has unit norm within tol.
// Zero rows count as normalized since NormalizeRows leaves them alone.
func IsNormalized(m [9]float32, tol float64) bool {
	for _, n := range RowNorms(m) {
		if n == 0 {
			continue
		}
		if math.IsNaN(n) || math.Abs(n-1) > tol {
			return false
		}
	}
	return true
}

func row(m [9]float32, r int) r3.Vec {
	return r3.Vec{X: float64(m[3*r]), Y: float64(m[3*r+1]), Z: float64(m[3*r+2])}
}
