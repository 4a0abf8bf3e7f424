package body

import (
	"math"
)

// Phenotype scalars are kept strictly inside the open unit interval so the
// blendshape extrapolation never degenerates at the extremes.
const (
	MinPhenotype     = 0.01
	MaxPhenotype     = 0.99
	DefaultPhenotype = 0.5
)

// PhenotypeVector holds one scalar per phenotype label in the layout's column
// order. Values are clamped to [MinPhenotype, MaxPhenotype] on every write.
type PhenotypeVector struct {
	layout *Layout
	values []float64
}

// NewPhenotypeVector returns a vector with every label at DefaultPhenotype.
func NewPhenotypeVector(layout *Layout) PhenotypeVector {
	values := make([]float64, layout.Len())
	for i := range values {
		values[i] = DefaultPhenotype
	}
	return PhenotypeVector{layout: layout, values: values}
}

// Clone returns an independent copy.
func (p PhenotypeVector) Clone() PhenotypeVector {
	return PhenotypeVector{layout: p.layout, values: append([]float64(nil), p.values...)}
}

// Layout returns the vector's layout.
func (p PhenotypeVector) Layout() *Layout { return p.layout }

// Len returns the number of phenotype scalars.
func (p PhenotypeVector) Len() int { return len(p.values) }

// At returns the value at column i.
func (p PhenotypeVector) At(i int) float64 { return p.values[i] }

// SetAt stores a value at column i, clamped to the valid range. Non-finite
// values are replaced with DefaultPhenotype.
func (p PhenotypeVector) SetAt(i int, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = DefaultPhenotype
	}
	p.values[i] = math.Min(MaxPhenotype, math.Max(MinPhenotype, v))
}

// Get returns the value for a label.
func (p PhenotypeVector) Get(name string) (float64, error) {
	i, err := p.layout.Resolve(name)
	if err != nil {
		return 0, err
	}
	return p.values[i], nil
}

// Set stores a clamped value for a label.
func (p PhenotypeVector) Set(name string, v float64) error {
	i, err := p.layout.Resolve(name)
	if err != nil {
		return err
	}
	p.SetAt(i, v)
	return nil
}

// Perturbed returns a copy with column i offset by eps, without clamping.
// Used for finite-difference sensitivity probes, where the step must be
// applied exactly even near the clamp boundary.
func (p PhenotypeVector) Perturbed(i int, eps float64) PhenotypeVector {
	out := p.Clone()
	out.values[i] += eps
	return out
}

// Values returns the underlying column vector. The returned slice must not be
// modified.
func (p PhenotypeVector) Values() []float64 { return p.values }

// Map returns a name-keyed copy of the values.
func (p PhenotypeVector) Map() map[string]float64 {
	m := make(map[string]float64, len(p.values))
	for i, name := range p.layout.Names() {
		m[name] = p.values[i]
	}
	return m
}

// LocalChangeVector holds one scalar per local detail-shape label, default
// 0.0. The fitter holds these fixed; they are carried through the forward
// evaluation unchanged.
type LocalChangeVector struct {
	layout *Layout
	values []float64
}

// NewLocalChangeVector returns a zero vector over the given layout.
func NewLocalChangeVector(layout *Layout) LocalChangeVector {
	return LocalChangeVector{layout: layout, values: make([]float64, layout.Len())}
}

// Clone returns an independent copy.
func (c LocalChangeVector) Clone() LocalChangeVector {
	return LocalChangeVector{layout: c.layout, values: append([]float64(nil), c.values...)}
}

// Len returns the number of local-change scalars.
func (c LocalChangeVector) Len() int { return len(c.values) }

// At returns the value at column i.
func (c LocalChangeVector) At(i int) float64 { return c.values[i] }

// Set stores a value for a label.
func (c LocalChangeVector) Set(name string, v float64) error {
	i, err := c.layout.Resolve(name)
	if err != nil {
		return err
	}
	c.values[i] = v
	return nil
}
