// Package geometry provides basic 3D geometric types used throughout the application.
package geometry

import (
	"math"

	"github.com/golang/geo/r3"
)

// RigidTransform represents a rigid body transform: a 3x3 rotation followed by
// a translation. It is the compact form of a 4x4 homogeneous transform whose
// bottom row is (0 0 0 1). A valid transform has an orthonormal rotation with
// determinant +1.
type RigidTransform struct {
	R [3][3]float64 `json:"r"`
	T r3.Vector     `json:"t"`
}

// Identity returns the identity transform.
func Identity() RigidTransform {
	return RigidTransform{
		R: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
}

// IdentityPose returns n identity transforms, one per joint.
func IdentityPose(n int) []RigidTransform {
	pose := make([]RigidTransform, n)
	for i := range pose {
		pose[i] = Identity()
	}
	return pose
}

// Apply transforms a point: R*v + T.
func (t RigidTransform) Apply(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: t.R[0][0]*v.X + t.R[0][1]*v.Y + t.R[0][2]*v.Z + t.T.X,
		Y: t.R[1][0]*v.X + t.R[1][1]*v.Y + t.R[1][2]*v.Z + t.T.Y,
		Z: t.R[2][0]*v.X + t.R[2][1]*v.Y + t.R[2][2]*v.Z + t.T.Z,
	}
}

// Rotate applies only the rotation part of the transform.
func (t RigidTransform) Rotate(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: t.R[0][0]*v.X + t.R[0][1]*v.Y + t.R[0][2]*v.Z,
		Y: t.R[1][0]*v.X + t.R[1][1]*v.Y + t.R[1][2]*v.Z,
		Z: t.R[2][0]*v.X + t.R[2][1]*v.Y + t.R[2][2]*v.Z,
	}
}

// Compose returns the transform equivalent to applying other first, then t.
func (t RigidTransform) Compose(other RigidTransform) RigidTransform {
	var out RigidTransform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += t.R[i][k] * other.R[k][j]
			}
			out.R[i][j] = s
		}
	}
	out.T = t.Rotate(other.T).Add(t.T)
	return out
}

// Inverse returns the inverse transform. Assumes the rotation is orthonormal,
// so the inverse rotation is the transpose.
func (t RigidTransform) Inverse() RigidTransform {
	var inv RigidTransform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv.R[i][j] = t.R[j][i]
		}
	}
	inv.T = inv.Rotate(t.T).Mul(-1)
	return inv
}

// Det returns the determinant of the rotation part.
func (t RigidTransform) Det() float64 {
	return t.R[0][0]*(t.R[1][1]*t.R[2][2]-t.R[1][2]*t.R[2][1]) -
		t.R[0][1]*(t.R[1][0]*t.R[2][2]-t.R[1][2]*t.R[2][0]) +
		t.R[0][2]*(t.R[1][0]*t.R[2][1]-t.R[1][1]*t.R[2][0])
}

// IsRigid reports whether the rotation part is orthonormal with determinant +1,
// within tol.
func (t RigidTransform) IsRigid(tol float64) bool {
	// R^T R must be the identity.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += t.R[k][i] * t.R[k][j]
			}
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(s-want) > tol {
				return false
			}
		}
	}
	return math.Abs(t.Det()-1) <= tol
}

// IsFinite reports whether every entry of the transform is finite.
func (t RigidTransform) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(t.R[i][j]) || math.IsInf(t.R[i][j], 0) {
				return false
			}
		}
	}
	return isFiniteVec(t.T)
}

// Mat4 returns the 4x4 homogeneous matrix form, row-major.
func (t RigidTransform) Mat4() [4][4]float64 {
	return [4][4]float64{
		{t.R[0][0], t.R[0][1], t.R[0][2], t.T.X},
		{t.R[1][0], t.R[1][1], t.R[1][2], t.T.Y},
		{t.R[2][0], t.R[2][1], t.R[2][2], t.T.Z},
		{0, 0, 0, 1},
	}
}

// Translation returns a pure translation transform.
func Translation(v r3.Vector) RigidTransform {
	t := Identity()
	t.T = v
	return t
}

// AxisAngle returns a pure rotation of angle radians about the given axis
// (Rodrigues' formula). A zero axis yields the identity.
func AxisAngle(axis r3.Vector, angle float64) RigidTransform {
	n := axis.Norm()
	if n == 0 {
		return Identity()
	}
	u := axis.Mul(1 / n)
	c := math.Cos(angle)
	s := math.Sin(angle)
	ic := 1 - c
	return RigidTransform{R: [3][3]float64{
		{c + u.X*u.X*ic, u.X*u.Y*ic - u.Z*s, u.X*u.Z*ic + u.Y*s},
		{u.Y*u.X*ic + u.Z*s, c + u.Y*u.Y*ic, u.Y*u.Z*ic - u.X*s},
		{u.Z*u.X*ic - u.Y*s, u.Z*u.Y*ic + u.X*s, c + u.Z*u.Z*ic},
	}}
}

func isFiniteVec(v r3.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
