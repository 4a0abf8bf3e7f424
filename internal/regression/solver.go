package regression

import (
	"gonum.org/v1/gonum/mat"
)

// solveUpdate solves the damped normal equations (J^T J + Lambda) * delta =
// J^T b for the phenotype update. Lambda is the per-column diagonal damping.
//
// The system is symmetric positive definite whenever every damping entry is
// positive, so Cholesky is the primary path; a dense solve covers the rare
// numerically borderline factorization failure, and a zero update is the
// final fallback (a skipped update keeps the bounded loop well defined).
func solveUpdate(jac *mat.Dense, residual, lambda []float64) []float64 {
	_, cols := jac.Dims()
	delta := make([]float64, cols)
	if cols == 0 {
		return delta
	}

	b := mat.NewVecDense(len(residual), residual)
	var jtb mat.VecDense
	jtb.MulVec(jac.T(), b)

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)
	sym := mat.NewSymDense(cols, nil)
	for i := 0; i < cols; i++ {
		for j := i; j < cols; j++ {
			v := jtj.At(i, j)
			if i == j {
				v += lambda[i]
			}
			sym.SetSym(i, j, v)
		}
	}

	var sol mat.VecDense
	var chol mat.Cholesky
	if chol.Factorize(sym) {
		if err := chol.SolveVecTo(&sol, &jtb); err == nil {
			copy(delta, sol.RawVector().Data)
			return delta
		}
	}
	if err := sol.SolveVec(sym, &jtb); err == nil {
		copy(delta, sol.RawVector().Data)
	}
	return delta
}
