// Package regression implements the iterative fitting loop that registers a
// parametric body model's pose and solves for its phenotype parameters
// against an observed vertex cloud.
package regression

import "runtime"

// Config holds the tunable parameters of the fitting loop.
type Config struct {
	// MaxIterations is the fixed outer-loop budget. The loop always runs the
	// full budget; there is no convergence test.
	MaxIterations int
	// SampleSize is the number of vertex indices drawn once, with SampleSeed,
	// for registration and Jacobian estimation. Capped at the model's vertex
	// count.
	SampleSize int
	// SampleSeed seeds the subsample draw, making fits deterministic.
	SampleSeed int64
	// Epsilon is the forward-difference step for Jacobian columns.
	Epsilon float64
	// Regularization is the default diagonal entry of the damping matrix in
	// the phenotype solve. Larger values give more conservative updates.
	Regularization float64
	// RegularizationFor overrides the damping for individual parameters.
	RegularizationFor map[string]float64
	// Workers bounds the goroutines evaluating Jacobian columns; 0 means
	// GOMAXPROCS.
	Workers int
	// AgeLabel names the phenotype pinned during anchor search.
	AgeLabel string
	// AgeAnchors are the candidate values tried by FitWithAgeAnchorSearch.
	AgeAnchors []float64
}

// DefaultConfig returns the configuration used by the production fitter.
func DefaultConfig() Config {
	return Config{
		MaxIterations:  5,
		SampleSize:     5000,
		SampleSeed:     1,
		Epsilon:        0.1,
		Regularization: 1.0,
		Workers:        0,
		AgeLabel:       "age",
		AgeAnchors:     []float64{0.0, 0.33, 0.67, 1.0},
	}
}

func (c *Config) normalize() {
	if c.MaxIterations <= 0 {
		c.MaxIterations = 5
	}
	if c.SampleSize <= 0 {
		c.SampleSize = 5000
	}
	if c.Epsilon == 0 {
		c.Epsilon = 0.1
	}
	if c.Regularization <= 0 {
		c.Regularization = 1.0
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.AgeLabel == "" {
		c.AgeLabel = "age"
	}
	if len(c.AgeAnchors) == 0 {
		c.AgeAnchors = []float64{0.0, 0.33, 0.67, 1.0}
	}
}
