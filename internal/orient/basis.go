package orient

import "github.com/go-gl/mathgl/mgl32"

// Mat3 converts a row-major orientation matrix to mgl32's column-major Mat3.
func Mat3(m [9]float32) mgl32.Mat3 {
	return mgl32.Mat3FromRows(
		mgl32.Vec3{m[0], m[1], m[2]},
		mgl32.Vec3{m[3], m[4], m[5]},
		mgl32.Vec3{m[6], m[7], m[8]},
	)
}

// Det returns the determinant of m. A proper rotation has determinant 1,
// a mirrored one -1.
func Det(m [9]float32) float32 {
	return Mat3(m).Det()
}

// IsOrthonormal reports whether m times its transpose is the identity within tol,
// that is whether the rows are unit length and mutually perpendicular.
// Row normalization alone does not guarantee this.
func IsOrthonormal(m [9]float32, tol float32) bool {
	a := Mat3(m)
	return a.Mul3(a.Transpose()).ApproxEqualThreshold(mgl32.Ident3(), tol)
}
