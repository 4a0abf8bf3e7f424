package fitting

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"
)

// ErrorMetrics summarizes how well a reconstruction matches its target, in
// millimeters.
type ErrorMetrics struct {
	MeanMM float64 `json:"pve_mm"`
	MaxMM  float64 `json:"max_error_mm"`
	RMSMM  float64 `json:"rms_error_mm"`
}

// FittingError computes per-vertex error statistics between a reconstruction
// and its target. Mismatched or empty inputs yield zero metrics.
func FittingError(predicted, target []r3.Vector) ErrorMetrics {
	if len(predicted) == 0 || len(predicted) != len(target) {
		return ErrorMetrics{}
	}

	distances := make([]float64, len(predicted))
	var maxDist, sumSq float64
	for i := range predicted {
		d := predicted[i].Sub(target[i])
		distances[i] = d.Norm()
		if distances[i] > maxDist {
			maxDist = distances[i]
		}
		sumSq += d.X*d.X + d.Y*d.Y + d.Z*d.Z
	}

	return ErrorMetrics{
		MeanMM: 1000 * stat.Mean(distances, nil),
		MaxMM:  1000 * maxDist,
		RMSMM:  1000 * math.Sqrt(sumSq/float64(3*len(predicted))),
	}
}
