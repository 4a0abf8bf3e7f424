package body

// MinSkinWeight is the skinning-weight threshold below which a joint's
// influence on a vertex is ignored when building the partition.
const MinSkinWeight = 0.01

// Partition records, per joint, the vertices the joint significantly
// influences and their skinning weights. It is derived once from the model's
// static skinning data and is immutable afterwards, so it can be shared
// across concurrent fits.
type Partition struct {
	indices [][]int
	weights [][]float64
}

// NewPartition builds the per-joint vertex lists from the spec's skinning
// table, keeping only influences with weight >= MinSkinWeight. A joint that
// influences no vertices gets an empty list, which downstream registration
// treats as a degenerate patch.
func NewPartition(spec *Spec) *Partition {
	p := &Partition{
		indices: make([][]int, spec.JointCount),
		weights: make([][]float64, spec.JointCount),
	}
	for v := 0; v < spec.VertexCount; v++ {
		for slot := 0; slot < 4; slot++ {
			w := spec.VertexWeights[v][slot]
			if w < MinSkinWeight {
				continue
			}
			j := spec.VertexJoints[v][slot]
			if j < 0 || j >= spec.JointCount {
				continue
			}
			p.indices[j] = append(p.indices[j], v)
			p.weights[j] = append(p.weights[j], w)
		}
	}
	return p
}

// JointCount returns the number of joints in the partition.
func (p *Partition) JointCount() int { return len(p.indices) }

// Joint returns the vertex indices and weights for joint j. The returned
// slices must not be modified.
func (p *Partition) Joint(j int) (indices []int, weights []float64) {
	return p.indices[j], p.weights[j]
}
