package utils

import (
	"github.com/go-gl/mathgl/mgl32"
)

// QuatFromData builds a quaternion from track data stored in (x,y,z,w) order.
func QuatFromData(data []float32) mgl32.Quat {
	var q mgl32.Quat
	q.V[0] = FloatOrZero(data, 0)
	q.V[1] = FloatOrZero(data, 1)
	q.V[2] = FloatOrZero(data, 2)
	q.W = FloatOrZero(data, 3)
	return q
}

// QuatToMat3 converts a quaternion to a rotation matrix. The input is
// normalized first; track data is not guaranteed unit length.
func QuatToMat3(q mgl32.Quat) mgl32.Mat3 {
	q = q.Normalize()
	x, y, z, w := q.X(), q.Y(), q.Z(), q.W

	x2 := x + x
	y2 := y + y
	z2 := z + z

	xx := x * x2
	xy := x * y2
	xz := x * z2
	yy := y * y2
	yz := y * z2
	zz := z * z2
	wx := w * x2
	wy := w * y2
	wz := w * z2

	return mgl32.Mat3{
		1.0 - (yy + zz), xy + wz, xz - wy,
		xy - wz, 1.0 - (xx + zz), yz + wx,
		xz + wy, yz - wx, 1.0 - (xx + yy),
	}
}

// ScaleMat3Columns multiplies every column of m by the matching component
// of s, so rotation and non-uniform scale end up baked into one matrix.
func ScaleMat3Columns(m mgl32.Mat3, s mgl32.Vec3) mgl32.Mat3 {
	return mgl32.Mat3{
		m[0] * s[0], m[1] * s[0], m[2] * s[0],
		m[3] * s[1], m[4] * s[1], m[5] * s[1],
		m[6] * s[2], m[7] * s[2], m[8] * s[2],
	}
}

// FloatOrZero reads s[i], or 0 when i is out of range. Tracks may store
// fewer components than the channel expects.
func FloatOrZero(s []float32, i int) float32 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func FloatArray32to64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
