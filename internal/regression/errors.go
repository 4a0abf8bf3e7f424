package regression

import "errors"

var (
	// ErrNoTargets is returned when a fit is requested over an empty batch.
	ErrNoTargets = errors.New("no target vertex sets")

	// ErrVertexCountMismatch is returned when a target's vertex count does
	// not match the model's declared vertex count.
	ErrVertexCountMismatch = errors.New("target vertex count does not match model")

	// ErrNoAgeParameter is returned when anchor search is requested against
	// a model that does not declare the age phenotype.
	ErrNoAgeParameter = errors.New("model does not declare an age phenotype")
)
