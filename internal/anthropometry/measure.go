// Package anthropometry derives scalar body measurements from a reconstructed
// vertex set: height, waist circumference, enclosed volume, mass, and BMI.
package anthropometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/jjohare/Anny-body-fitter/internal/body"
)

// Density is the whole-body density used to derive mass from volume, in
// kg/m^3.
const Density = 980.0

var (
	// ErrWaistRingIndex is returned at construction when the model's waist
	// ring references a vertex outside its vertex set. The ring is a model
	// topology constant, so this is a model/fitter compatibility failure.
	ErrWaistRingIndex = errors.New("waist ring index outside model vertex set")

	// ErrFaceIndex is returned at construction when a face references a
	// vertex outside the model's vertex set.
	ErrFaceIndex = errors.New("face index outside model vertex set")

	// ErrVertexCount is returned when a measured vertex set does not match
	// the vertex count the measurer was built for.
	ErrVertexCount = errors.New("vertex count does not match model")
)

// Measurements holds the derived scalars for one vertex set. All values are
// finite. Units: meters for lengths, cubic meters for volume, kilograms for
// mass, kg/m^2 for BMI.
type Measurements struct {
	Height             float64 `json:"height"`
	WaistCircumference float64 `json:"waist_circumference"`
	Volume             float64 `json:"volume"`
	Mass               float64 `json:"mass"`
	BMI                float64 `json:"bmi"`
}

// Measurer computes measurements against a fixed model topology. The face
// list and waist ring are validated once at construction; Measure itself
// never fails on geometry.
type Measurer struct {
	vertexCount int
	faces       [][3]int
	waistRing   []int
}

// NewMeasurer validates the model's waist ring and face list against its
// vertex count.
func NewMeasurer(spec *body.Spec) (*Measurer, error) {
	for _, v := range spec.WaistRing {
		if v < 0 || v >= spec.VertexCount {
			return nil, fmt.Errorf("%w: index %d, %d vertices", ErrWaistRingIndex, v, spec.VertexCount)
		}
	}
	for _, f := range spec.Faces {
		for _, v := range f {
			if v < 0 || v >= spec.VertexCount {
				return nil, fmt.Errorf("%w: index %d, %d vertices", ErrFaceIndex, v, spec.VertexCount)
			}
		}
	}
	return &Measurer{
		vertexCount: spec.VertexCount,
		faces:       spec.Faces,
		waistRing:   spec.WaistRing,
	}, nil
}

// Measure derives all measurements from one vertex set.
func (m *Measurer) Measure(verts []r3.Vector) (Measurements, error) {
	if len(verts) != m.vertexCount {
		return Measurements{}, fmt.Errorf("%w: got %d, want %d", ErrVertexCount, len(verts), m.vertexCount)
	}

	height := Height(verts)
	volume := m.Volume(verts)
	mass := volume * Density

	bmi := 0.0
	if height > 0 {
		bmi = mass / (height * height)
	}

	return Measurements{
		Height:             height,
		WaistCircumference: m.WaistCircumference(verts),
		Volume:             volume,
		Mass:               mass,
		BMI:                bmi,
	}, nil
}

// MeasureBatch measures every vertex set in a batch.
func (m *Measurer) MeasureBatch(batch [][]r3.Vector) ([]Measurements, error) {
	out := make([]Measurements, len(batch))
	for i, verts := range batch {
		ms, err := m.Measure(verts)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		out[i] = ms
	}
	return out, nil
}

// Height is the vertical extent of the vertex set: max(z) - min(z).
func Height(verts []r3.Vector) float64 {
	if len(verts) == 0 {
		return 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range verts {
		if v.Z < lo {
			lo = v.Z
		}
		if v.Z > hi {
			hi = v.Z
		}
	}
	return hi - lo
}

// WaistCircumference sums the edge lengths around the closed waist ring.
func (m *Measurer) WaistCircumference(verts []r3.Vector) float64 {
	n := len(m.waistRing)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		a := verts[m.waistRing[i]]
		b := verts[m.waistRing[(i+1)%n]]
		total += b.Sub(a).Norm()
	}
	return total
}

// Volume computes the enclosed volume of the triangulated mesh via the
// divergence theorem: the sum of signed tetrahedron volumes against the
// origin. The absolute value of the total is returned because the face
// winding is not guaranteed canonical.
func (m *Measurer) Volume(verts []r3.Vector) float64 {
	var total float64
	for _, f := range m.faces {
		a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
		total += a.Dot(b.Cross(c)) / 6
	}
	return math.Abs(total)
}
