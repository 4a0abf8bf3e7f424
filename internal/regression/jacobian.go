package regression

import (
	"math"
	"sync"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/jjohare/Anny-body-fitter/internal/body"
	"github.com/jjohare/Anny-body-fitter/pkg/geometry"
)

// estimateJacobian computes forward-difference sensitivities of the sampled
// vertices to each phenotype column: one extra model evaluation per column,
// column = (perturbed - baseline) / eps.
//
// The columns are independent, so they are distributed over a bounded set of
// workers. Non-finite entries are replaced with zero ("no local sensitivity")
// so a single bad evaluation cannot poison the solve. The result is a
// (3*len(sample)) x phenotypeCount matrix, rebuilt fresh every outer
// iteration and never cached.
func estimateJacobian(model body.Model, pose []geometry.RigidTransform, phen body.PhenotypeVector, local body.LocalChangeVector, sample []int, baseline []r3.Vector, eps float64, workers int) *mat.Dense {
	rows := 3 * len(sample)
	cols := phen.Len()
	jac := mat.NewDense(rows, cols, nil)
	if cols == 0 || rows == 0 {
		return jac
	}

	if workers > cols {
		workers = cols
	}
	if workers < 1 {
		workers = 1
	}

	work := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for col := range work {
				perturbed, _ := model.Forward(pose, phen.Perturbed(col, eps), local)
				for i, v := range sample {
					d := perturbed[v].Sub(baseline[v])
					jac.Set(3*i, col, sanitize(d.X/eps))
					jac.Set(3*i+1, col, sanitize(d.Y/eps))
					jac.Set(3*i+2, col, sanitize(d.Z/eps))
				}
			}
		}()
	}
	for col := 0; col < cols; col++ {
		work <- col
	}
	close(work)
	wg.Wait()
	return jac
}

// sampleResidual flattens (target - reference) over the sampled vertices,
// with non-finite entries zeroed.
func sampleResidual(reference, target []r3.Vector, sample []int) []float64 {
	out := make([]float64, 3*len(sample))
	for i, v := range sample {
		d := target[v].Sub(reference[v])
		out[3*i] = sanitize(d.X)
		out[3*i+1] = sanitize(d.Y)
		out[3*i+2] = sanitize(d.Z)
	}
	return out
}

func sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
