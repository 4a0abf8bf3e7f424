// Package fitting wraps the regression core with the strategies the
// surrounding measurement pipeline uses: confidence-gated parameter
// exclusion, staged optimization, age-anchor search, fitting-error metrics,
// multi-view measurement fusion, and mapping of extracted measurements into
// phenotype space.
package fitting

import (
	"github.com/golang/geo/r3"

	"github.com/jjohare/Anny-body-fitter/internal/regression"
)

// DefaultConfidenceThreshold is the minimum per-parameter confidence for a
// parameter to take part in optimization.
const DefaultConfidenceThreshold = 0.5

// Optimizer drives the Regressor with initial estimates and per-parameter
// confidences, excluding low-confidence parameters from the solve so they
// keep their initial values.
type Optimizer struct {
	Regressor           *regression.Regressor
	ConfidenceThreshold float64
}

// NewOptimizer wraps a regressor with the default confidence threshold.
func NewOptimizer(reg *regression.Regressor) *Optimizer {
	return &Optimizer{Regressor: reg, ConfidenceThreshold: DefaultConfidenceThreshold}
}

// Optimize fits one target. Parameters whose confidence falls below the
// threshold are pinned to their initial estimate.
func (o *Optimizer) Optimize(target []r3.Vector, initial, confidences map[string]float64, optimizePhenotypes bool, maxIterations int) (regression.Result, error) {
	opts := regression.Options{
		InitialPhenotypes:  initial,
		ExcludedPhenotypes: o.lowConfidence(confidences),
		OptimizePhenotypes: optimizePhenotypes,
		MaxIterations:      maxIterations,
	}
	return o.Regressor.FitOne(target, opts)
}

// OptimizeStaged runs two passes: a short fit with only high-confidence
// parameters free, then a full refinement from the stage-one phenotype with
// every parameter free.
func (o *Optimizer) OptimizeStaged(target []r3.Vector, initial, confidences map[string]float64) (regression.Result, error) {
	stage1, err := o.Optimize(target, initial, confidences, true, 3)
	if err != nil {
		return regression.Result{}, err
	}
	return o.Optimize(target, stage1.Phenotype.Map(), nil, true, 5)
}

// OptimizeWithAgeSearch fits one target with the age-anchor multi-start
// strategy.
func (o *Optimizer) OptimizeWithAgeSearch(target []r3.Vector, initial map[string]float64) (regression.Result, error) {
	opts := regression.Options{
		InitialPhenotypes:  initial,
		OptimizePhenotypes: true,
	}
	results, err := o.Regressor.FitWithAgeAnchorSearch([][]r3.Vector{target}, opts)
	if err != nil {
		return regression.Result{}, err
	}
	return results[0], nil
}

func (o *Optimizer) lowConfidence(confidences map[string]float64) []string {
	var excluded []string
	for name, conf := range confidences {
		if conf < o.ConfidenceThreshold {
			excluded = append(excluded, name)
		}
	}
	return excluded
}
