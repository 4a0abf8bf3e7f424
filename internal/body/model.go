package body

import (
	"github.com/golang/geo/r3"

	"github.com/jjohare/Anny-body-fitter/pkg/geometry"
)

// Spec is the static data a body model exposes once, at load time. It is
// immutable after construction and safe to share across concurrent fits.
type Spec struct {
	// PhenotypeLabels declares the global shape parameters in column order.
	PhenotypeLabels []string
	// LocalChangeLabels declares the localized detail-shape parameters.
	LocalChangeLabels []string

	// JointCount is the number of skeletal joints.
	JointCount int
	// JointParents holds the parent joint index per joint, -1 for the root.
	JointParents []int

	// VertexCount is the number of mesh vertices.
	VertexCount int
	// VertexJoints and VertexWeights describe linear blend skinning with up
	// to four joint influences per vertex. Unused slots carry weight 0.
	VertexJoints  [][4]int
	VertexWeights [][4]float64

	// Faces is the triangulated face list.
	Faces [][3]int
	// WaistRing is an ordered closed loop of vertex indices around the waist,
	// a fixed property of the model topology.
	WaistRing []int
}

// RootJoint returns the index of the root joint (the first joint without a
// parent, or joint 0 when no hierarchy is declared).
func (s *Spec) RootJoint() int {
	for j, parent := range s.JointParents {
		if parent < 0 {
			return j
		}
	}
	return 0
}

// PhenotypeLayout builds the fixed name-to-column table for the phenotype
// labels.
func (s *Spec) PhenotypeLayout() *Layout { return NewLayout(s.PhenotypeLabels) }

// LocalChangeLayout builds the fixed name-to-column table for the
// local-change labels.
func (s *Spec) LocalChangeLayout() *Layout { return NewLayout(s.LocalChangeLabels) }

// Model is the forward-evaluation contract of the parametric body model. The
// fitter treats it as an external collaborator: it only reads the static Spec
// and evaluates Forward.
//
// Forward evaluates one sample and returns the posed mesh vertices along with
// the world transform of every joint. Implementations must be pure: identical
// inputs yield identical outputs, with no shared mutable state, so a single
// Model value can serve concurrent fits.
type Model interface {
	Spec() *Spec
	Forward(pose []geometry.RigidTransform, phenotype PhenotypeVector, local LocalChangeVector) (vertices []r3.Vector, bonePoses []geometry.RigidTransform)
}
