package geometry

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestAxisAngleIsRigid(t *testing.T) {
	axes := []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 2, Z: -0.5}}
	for _, axis := range axes {
		for _, angle := range []float64{0, 0.3, math.Pi / 2, 2.1, -1.7} {
			rot := AxisAngle(axis, angle)
			if !rot.IsRigid(1e-12) {
				t.Errorf("AxisAngle(%v, %.2f) is not rigid, det=%.12f", axis, angle, rot.Det())
			}
		}
	}
}

func TestComposeMatchesSequentialApply(t *testing.T) {
	a := AxisAngle(r3.Vector{Z: 1}, 0.7).Compose(Translation(r3.Vector{X: 1, Y: -2, Z: 0.5}))
	b := AxisAngle(r3.Vector{X: 1, Y: 1}, -1.2).Compose(Translation(r3.Vector{Z: 3}))

	v := r3.Vector{X: 0.3, Y: -1.1, Z: 2.2}
	got := a.Compose(b).Apply(v)
	want := a.Apply(b.Apply(v))
	if got.Sub(want).Norm() > 1e-12 {
		t.Errorf("compose mismatch: got %v, want %v", got, want)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	tr := AxisAngle(r3.Vector{X: 0.2, Y: 1, Z: -0.4}, 1.9).Compose(Translation(r3.Vector{X: -4, Y: 2, Z: 1}))
	v := r3.Vector{X: 1, Y: 2, Z: 3}

	back := tr.Inverse().Apply(tr.Apply(v))
	if back.Sub(v).Norm() > 1e-12 {
		t.Errorf("inverse round trip moved point: got %v, want %v", back, v)
	}

	id := tr.Compose(tr.Inverse())
	if !id.IsRigid(1e-12) || id.T.Norm() > 1e-12 {
		t.Errorf("t * t^-1 is not the identity: %v", id)
	}
}

func TestIsRigidRejectsReflection(t *testing.T) {
	refl := Identity()
	refl.R[2][2] = -1
	if refl.IsRigid(1e-9) {
		t.Error("reflection accepted as rigid")
	}

	scaled := Identity()
	scaled.R[0][0] = 1.01
	if scaled.IsRigid(1e-9) {
		t.Error("scaled transform accepted as rigid")
	}
}

func TestMat4BottomRow(t *testing.T) {
	m := AxisAngle(r3.Vector{Y: 1}, 0.4).Compose(Translation(r3.Vector{X: 5})).Mat4()
	want := [4]float64{0, 0, 0, 1}
	if m[3] != want {
		t.Errorf("bottom row = %v, want %v", m[3], want)
	}
}

func TestWeightedCentroid(t *testing.T) {
	points := []r3.Vector{{X: 0}, {X: 2}}

	c, ok := WeightedCentroid(points, []float64{1, 3})
	if !ok {
		t.Fatal("weighted centroid reported degenerate")
	}
	if math.Abs(c.X-1.5) > 1e-12 {
		t.Errorf("weighted centroid X = %.6f, want 1.5", c.X)
	}

	if _, ok := WeightedCentroid(points, []float64{0, 0}); ok {
		t.Error("zero total weight not reported as degenerate")
	}
}
