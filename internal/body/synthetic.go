package body

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/jjohare/Anny-body-fitter/pkg/geometry"
)

// SyntheticConfig describes the synthetic body model used by tests and
// developer tools.
type SyntheticConfig struct {
	JointCount int     // Joints of the spine chain, root at the floor
	Rings      int     // Interior vertex rings between the two poles
	RingSize   int     // Vertices per ring
	BaseHeight float64 // Rest height in meters at all-default phenotypes
}

// DefaultSyntheticConfig returns the configuration used across the test
// suite.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		JointCount: 5,
		Rings:      16,
		RingSize:   16,
		BaseHeight: 1.7,
	}
}

// SyntheticModel is a deterministic parametric stand-in for the real body
// model: a closed capsule-like mesh around a vertical spine, deformed by
// linear blendshapes per phenotype label and skinned to the spine joints with
// two influences per vertex. Because every blendshape is linear in its
// parameter, finite-difference Jacobians over this model are exact, which
// makes fitting behavior easy to reason about in tests.
type SyntheticModel struct {
	cfg  SyntheticConfig
	spec *Spec

	rest      []r3.Vector // rest-pose vertices before blendshapes
	jointRest []r3.Vector // rest joint positions

	phenotypeCols map[string]int
	localCols     map[string]int
}

// NewSyntheticModel builds the synthetic model. The mesh is Rings*RingSize
// ring vertices plus two pole vertices closing the bottom and top.
func NewSyntheticModel(cfg SyntheticConfig) *SyntheticModel {
	m := &SyntheticModel{cfg: cfg}

	vertexCount := cfg.Rings*cfg.RingSize + 2
	m.rest = make([]r3.Vector, 0, vertexCount)

	// Interior rings, strictly between the poles.
	for r := 0; r < cfg.Rings; r++ {
		u := float64(r+1) / float64(cfg.Rings+1)
		z := cfg.BaseHeight * u
		radius := 0.05 + 0.13*math.Sin(math.Pi*u)
		for k := 0; k < cfg.RingSize; k++ {
			a := 2 * math.Pi * float64(k) / float64(cfg.RingSize)
			m.rest = append(m.rest, r3.Vector{
				X: radius * math.Cos(a),
				Y: radius * math.Sin(a),
				Z: z,
			})
		}
	}
	bottomPole := len(m.rest)
	m.rest = append(m.rest, r3.Vector{})
	topPole := len(m.rest)
	m.rest = append(m.rest, r3.Vector{Z: cfg.BaseHeight})

	// Spine joints, root at the floor.
	m.jointRest = make([]r3.Vector, cfg.JointCount)
	parents := make([]int, cfg.JointCount)
	for j := 0; j < cfg.JointCount; j++ {
		m.jointRest[j] = r3.Vector{Z: cfg.BaseHeight * float64(j) / float64(cfg.JointCount-1)}
		parents[j] = j - 1
	}

	// Two-influence linear blend skinning along the spine.
	joints := make([][4]int, vertexCount)
	weights := make([][4]float64, vertexCount)
	for v, p := range m.rest {
		t := p.Z / cfg.BaseHeight * float64(cfg.JointCount-1)
		j0 := int(math.Floor(t))
		if j0 < 0 {
			j0 = 0
		}
		if j0 > cfg.JointCount-2 {
			j0 = cfg.JointCount - 2
		}
		w1 := t - float64(j0)
		joints[v] = [4]int{j0, j0 + 1, 0, 0}
		weights[v] = [4]float64{1 - w1, w1, 0, 0}
	}

	faces := buildCapsuleFaces(cfg.Rings, cfg.RingSize, bottomPole, topPole)

	// The waist ring is the interior ring nearest 45% of the body height.
	waistRow := int(math.Round(0.45*float64(cfg.Rings+1))) - 1
	if waistRow < 0 {
		waistRow = 0
	}
	waist := make([]int, cfg.RingSize)
	for k := 0; k < cfg.RingSize; k++ {
		waist[k] = waistRow*cfg.RingSize + k
	}

	labels := []string{"gender", "age", "muscle", "weight", "height", "proportions"}
	localLabels := []string{"belly", "chest"}
	m.spec = &Spec{
		PhenotypeLabels:   labels,
		LocalChangeLabels: localLabels,
		JointCount:        cfg.JointCount,
		JointParents:      parents,
		VertexCount:       vertexCount,
		VertexJoints:      joints,
		VertexWeights:     weights,
		Faces:             faces,
		WaistRing:         waist,
	}
	m.phenotypeCols = make(map[string]int, len(labels))
	for i, name := range labels {
		m.phenotypeCols[name] = i
	}
	m.localCols = make(map[string]int, len(localLabels))
	for i, name := range localLabels {
		m.localCols[name] = i
	}
	return m
}

// Spec returns the model's static data.
func (m *SyntheticModel) Spec() *Spec { return m.spec }

// Forward evaluates the synthetic model for one sample.
func (m *SyntheticModel) Forward(pose []geometry.RigidTransform, phenotype PhenotypeVector, local LocalChangeVector) ([]r3.Vector, []geometry.RigidTransform) {
	shaped := make([]r3.Vector, len(m.rest))
	for v, p := range m.rest {
		shaped[v] = p.Add(m.shapeOffset(p, phenotype, local))
	}

	// Linear blend skinning against the (possibly partial) pose.
	out := make([]r3.Vector, len(shaped))
	for v, p := range shaped {
		var blended r3.Vector
		for slot := 0; slot < 4; slot++ {
			w := m.spec.VertexWeights[v][slot]
			if w == 0 {
				continue
			}
			j := m.spec.VertexJoints[v][slot]
			if j < len(pose) {
				blended = blended.Add(pose[j].Apply(p).Mul(w))
			} else {
				blended = blended.Add(p.Mul(w))
			}
		}
		out[v] = blended
	}

	bones := make([]geometry.RigidTransform, m.spec.JointCount)
	for j := range bones {
		rest := m.jointRest[j].Add(m.shapeOffset(m.jointRest[j], phenotype, local))
		world := geometry.Translation(rest)
		if j < len(pose) {
			world = pose[j].Compose(world)
		}
		bones[j] = world
	}
	return out, bones
}

// shapeOffset is the total blendshape displacement at a rest point. Each term
// is linear in its parameter.
func (m *SyntheticModel) shapeOffset(p r3.Vector, phenotype PhenotypeVector, local LocalChangeVector) r3.Vector {
	h := m.cfg.BaseHeight
	u := p.Z / h
	radial := r3.Vector{X: p.X, Y: p.Y}

	get := func(name string) float64 {
		if i, ok := m.phenotypeCols[name]; ok && i < phenotype.Len() {
			return phenotype.At(i) - DefaultPhenotype
		}
		return 0
	}

	var off r3.Vector
	// Height stretches around the mid-height plane; age scales from the floor
	// so the two axes are deliberately correlated.
	off.Z += get("height") * 0.8 * (p.Z - h/2)
	off.Z += get("age") * 0.3 * p.Z
	off.Z += get("proportions") * 0.05 * h * math.Sin(2*math.Pi*u)
	off = off.Add(radial.Mul(get("weight") * 0.5))
	off = off.Add(radial.Mul(get("muscle") * 0.25 * u))
	off = off.Add(radial.Mul(get("gender") * 0.25 * (1 - u)))

	for name, center := range map[string]float64{"belly": 0.45, "chest": 0.65} {
		i, ok := m.localCols[name]
		if !ok || i >= local.Len() {
			continue
		}
		c := local.At(i)
		if c == 0 {
			continue
		}
		falloff := math.Exp(-((u - center) * (u - center)) / 0.01)
		off = off.Add(radial.Mul(c * 0.2 * falloff))
	}
	return off
}

// buildCapsuleFaces triangulates the ring lattice and closes it with pole
// fans.
func buildCapsuleFaces(rings, ringSize, bottomPole, topPole int) [][3]int {
	var faces [][3]int
	at := func(r, k int) int { return r*ringSize + k%ringSize }

	for r := 0; r < rings-1; r++ {
		for k := 0; k < ringSize; k++ {
			a, b := at(r, k), at(r, k+1)
			c, d := at(r+1, k+1), at(r+1, k)
			faces = append(faces, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
	for k := 0; k < ringSize; k++ {
		faces = append(faces, [3]int{bottomPole, at(0, k+1), at(0, k)})
		faces = append(faces, [3]int{topPole, at(rings-1, k), at(rings-1, k+1)})
	}
	return faces
}
