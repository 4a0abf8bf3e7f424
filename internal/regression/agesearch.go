package regression

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// FitWithAgeAnchorSearch runs the full fitting loop once per age anchor with
// age pinned, keeps the lowest-error anchor, then refines from that result
// with age free. Age is strongly coupled to the other shape axes and the
// local finite-difference search can be multimodal over it, so a coarse
// multi-start precedes local refinement.
//
// The refined result is returned unless it is worse than the best anchor, in
// which case the anchor result stands.
func (r *Regressor) FitWithAgeAnchorSearch(targets [][]r3.Vector, opts Options) ([]Result, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	if _, ok := r.layout.Index(r.cfg.AgeLabel); !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoAgeParameter, r.cfg.AgeLabel)
	}

	results := make([]Result, len(targets))
	for i, target := range targets {
		res, err := r.fitOneWithAgeSearch(target, opts)
		if err != nil {
			return nil, fmt.Errorf("target %d: %w", i, err)
		}
		results[i] = res
	}
	return results, nil
}

func (r *Regressor) fitOneWithAgeSearch(target []r3.Vector, opts Options) (Result, error) {
	var best Result
	bestErr := math.Inf(1)

	for _, anchor := range r.cfg.AgeAnchors {
		anchored := opts
		anchored.OptimizePhenotypes = true
		anchored.InitialPhenotypes = cloneWith(opts.InitialPhenotypes, r.cfg.AgeLabel, anchor)
		anchored.ExcludedPhenotypes = appendUnique(opts.ExcludedPhenotypes, r.cfg.AgeLabel)

		res, err := r.FitOne(target, anchored)
		if err != nil {
			return Result{}, err
		}
		if e := r.SampleError(res.Vertices, target); e < bestErr {
			bestErr = e
			best = res
		}
	}

	// Refine from the winning anchor with age unpinned.
	refineOpts := opts
	refineOpts.OptimizePhenotypes = true
	refineOpts.InitialPhenotypes = best.Phenotype.Map()

	refined, err := r.FitOne(target, refineOpts)
	if err != nil {
		return Result{}, err
	}
	if r.SampleError(refined.Vertices, target) <= bestErr {
		return refined, nil
	}
	return best, nil
}

func cloneWith(m map[string]float64, key string, value float64) map[string]float64 {
	out := make(map[string]float64, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}

func appendUnique(list []string, name string) []string {
	for _, s := range list {
		if s == name {
			return list
		}
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	return append(out, name)
}
