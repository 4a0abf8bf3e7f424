// Package registration implements closed-form rigid alignment of point sets:
// per-joint weighted Procrustes registration and whole-mesh global alignment.
package registration

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/jjohare/Anny-body-fitter/pkg/geometry"
)

// minTotalWeight is the weight mass below which a patch is considered
// degenerate and registration returns the identity.
const minTotalWeight = 1e-9

// RegisterPatch computes the weighted rigid transform (R, t) minimizing
// sum w * ||R*ref + t - tar||^2 over corresponding points.
//
// The rotation comes from the SVD of the weighted cross-covariance, with the
// sign of the smallest singular direction corrected so the result is a proper
// rotation (determinant +1), never a reflection. A nil weight slice means
// uniform weights. Degenerate patches (too few points, vanishing total
// weight, non-finite input) yield the identity transform.
func RegisterPatch(ref, tar []r3.Vector, weights []float64) geometry.RigidTransform {
	if len(ref) != len(tar) || len(ref) < 3 {
		return geometry.Identity()
	}

	// Drop non-finite correspondences rather than letting them poison the
	// covariance.
	var total float64
	use := make([]float64, len(ref))
	for i := range ref {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		if w <= 0 || !finiteVec(ref[i]) || !finiteVec(tar[i]) {
			continue
		}
		use[i] = w
		total += w
	}
	if total < minTotalWeight {
		return geometry.Identity()
	}

	var cr, ct r3.Vector
	for i := range ref {
		if use[i] == 0 {
			continue
		}
		cr = cr.Add(ref[i].Mul(use[i]))
		ct = ct.Add(tar[i].Mul(use[i]))
	}
	cr = cr.Mul(1 / total)
	ct = ct.Mul(1 / total)

	// Weighted cross-covariance H = sum w * (ref-cr)(tar-ct)^T.
	h := mat.NewDense(3, 3, nil)
	for i := range ref {
		if use[i] == 0 {
			continue
		}
		a := ref[i].Sub(cr)
		b := tar[i].Sub(ct)
		ax := [3]float64{a.X, a.Y, a.Z}
		bx := [3]float64{b.X, b.Y, b.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h.Set(r, c, h.At(r, c)+use[i]*ax[r]*bx[c])
			}
		}
	}

	var svd mat.SVD
	if !svd.Factorize(h, mat.SVDFull) {
		return geometry.Identity()
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// R = V * diag(1, 1, det(V U^T)) * U^T.
	var vut mat.Dense
	vut.Mul(&v, u.T())
	sign := 1.0
	if mat.Det(&vut) < 0 {
		sign = -1.0
	}

	var out geometry.RigidTransform
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			s := v.At(r, 0)*u.At(c, 0) + v.At(r, 1)*u.At(c, 1) + sign*v.At(r, 2)*u.At(c, 2)
			out.R[r][c] = s
		}
	}
	out.T = ct.Sub(out.Rotate(cr))

	if !out.IsFinite() {
		return geometry.Identity()
	}
	return out
}

// AlignGlobal computes one rigid alignment of the whole current
// reconstruction to the target with uniform weights. The caller applies the
// result to the root joint only, correcting global drift without disturbing
// per-joint registration.
func AlignGlobal(ref, tar []r3.Vector) geometry.RigidTransform {
	return RegisterPatch(ref, tar, nil)
}

func finiteVec(v r3.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
