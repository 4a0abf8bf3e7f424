package body

import (
	"testing"
)

func TestPartitionFiltersLightWeights(t *testing.T) {
	spec := &Spec{
		JointCount:  3,
		VertexCount: 4,
		VertexJoints: [][4]int{
			{0, 1, 0, 0},
			{0, 2, 0, 0},
			{1, 2, 0, 0},
			{2, 0, 0, 0},
		},
		VertexWeights: [][4]float64{
			{0.9, 0.1, 0, 0},
			{0.995, 0.005, 0, 0}, // joint 2 influence below threshold
			{0.5, 0.5, 0, 0},
			{1.0, 0, 0, 0},
		},
	}
	p := NewPartition(spec)

	idx0, w0 := p.Joint(0)
	if len(idx0) != 2 || idx0[0] != 0 || idx0[1] != 1 {
		t.Errorf("joint 0 indices = %v, want [0 1]", idx0)
	}
	if len(w0) != 2 || w0[0] != 0.9 || w0[1] != 0.995 {
		t.Errorf("joint 0 weights = %v", w0)
	}

	idx2, _ := p.Joint(2)
	if len(idx2) != 2 {
		t.Errorf("joint 2 indices = %v, want the two heavy influences only", idx2)
	}
	for _, v := range idx2 {
		if v == 1 {
			t.Error("joint 2 kept a sub-threshold influence on vertex 1")
		}
	}
}

func TestPartitionEmptyJointIsValid(t *testing.T) {
	spec := &Spec{
		JointCount:    2,
		VertexCount:   1,
		VertexJoints:  [][4]int{{0, 0, 0, 0}},
		VertexWeights: [][4]float64{{1, 0, 0, 0}},
	}
	p := NewPartition(spec)
	if idx, _ := p.Joint(1); len(idx) != 0 {
		t.Errorf("joint 1 should be empty, got %v", idx)
	}
}
