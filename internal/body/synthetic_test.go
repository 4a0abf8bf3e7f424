package body

import (
	"math"
	"testing"

	"github.com/jjohare/Anny-body-fitter/pkg/geometry"
)

func TestSyntheticModelRestPose(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	m := NewSyntheticModel(cfg)
	spec := m.Spec()

	if spec.VertexCount != cfg.Rings*cfg.RingSize+2 {
		t.Fatalf("vertex count = %d, want %d", spec.VertexCount, cfg.Rings*cfg.RingSize+2)
	}
	if got := spec.RootJoint(); got != 0 {
		t.Errorf("root joint = %d, want 0", got)
	}

	verts, bones := m.Forward(
		geometry.IdentityPose(spec.JointCount),
		NewPhenotypeVector(spec.PhenotypeLayout()),
		NewLocalChangeVector(spec.LocalChangeLayout()),
	)
	if len(verts) != spec.VertexCount {
		t.Fatalf("Forward returned %d vertices, want %d", len(verts), spec.VertexCount)
	}
	if len(bones) != spec.JointCount {
		t.Fatalf("Forward returned %d bones, want %d", len(bones), spec.JointCount)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range verts {
		lo = math.Min(lo, v.Z)
		hi = math.Max(hi, v.Z)
	}
	if math.Abs((hi-lo)-cfg.BaseHeight) > 1e-9 {
		t.Errorf("rest height = %.6f, want %.6f", hi-lo, cfg.BaseHeight)
	}
}

func TestSyntheticModelHeightPhenotypeIsMonotonic(t *testing.T) {
	m := NewSyntheticModel(DefaultSyntheticConfig())
	spec := m.Spec()
	pose := geometry.IdentityPose(spec.JointCount)
	local := NewLocalChangeVector(spec.LocalChangeLayout())

	height := func(p float64) float64 {
		phen := NewPhenotypeVector(spec.PhenotypeLayout())
		if err := phen.Set("height", p); err != nil {
			t.Fatal(err)
		}
		verts, _ := m.Forward(pose, phen, local)
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range verts {
			lo = math.Min(lo, v.Z)
			hi = math.Max(hi, v.Z)
		}
		return hi - lo
	}

	short, mid, tall := height(0.1), height(0.5), height(0.9)
	if !(short < mid && mid < tall) {
		t.Errorf("height not monotonic in phenotype: %.4f, %.4f, %.4f", short, mid, tall)
	}
}

func TestSyntheticModelForwardIsDeterministic(t *testing.T) {
	m := NewSyntheticModel(DefaultSyntheticConfig())
	spec := m.Spec()
	pose := geometry.IdentityPose(spec.JointCount)
	phen := NewPhenotypeVector(spec.PhenotypeLayout())
	local := NewLocalChangeVector(spec.LocalChangeLayout())

	a, _ := m.Forward(pose, phen, local)
	b, _ := m.Forward(pose, phen, local)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vertex %d differs between identical evaluations", i)
		}
	}
}

func TestSyntheticModelWaistRingInRange(t *testing.T) {
	spec := NewSyntheticModel(DefaultSyntheticConfig()).Spec()
	if len(spec.WaistRing) == 0 {
		t.Fatal("no waist ring declared")
	}
	for _, v := range spec.WaistRing {
		if v < 0 || v >= spec.VertexCount {
			t.Errorf("waist ring index %d outside [0,%d)", v, spec.VertexCount)
		}
	}
}
