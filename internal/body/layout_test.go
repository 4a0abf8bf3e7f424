package body

import (
	"errors"
	"testing"
)

func TestLayoutStableColumnOrder(t *testing.T) {
	labels := []string{"gender", "age", "muscle", "weight", "height", "proportions"}
	l := NewLayout(labels)

	if l.Len() != len(labels) {
		t.Fatalf("Len = %d, want %d", l.Len(), len(labels))
	}
	for i, name := range labels {
		col, ok := l.Index(name)
		if !ok || col != i {
			t.Errorf("Index(%q) = %d,%v, want %d,true", name, col, ok, i)
		}
		if l.Name(i) != name {
			t.Errorf("Name(%d) = %q, want %q", i, l.Name(i), name)
		}
	}
}

func TestLayoutResolveUnknown(t *testing.T) {
	l := NewLayout([]string{"age"})
	if _, err := l.Resolve("wingspan"); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Resolve unknown = %v, want ErrUnknownParameter", err)
	}
}

func TestPhenotypeVectorDefaultsAndClamp(t *testing.T) {
	l := NewLayout([]string{"a", "b"})
	p := NewPhenotypeVector(l)

	for i := 0; i < p.Len(); i++ {
		if p.At(i) != DefaultPhenotype {
			t.Errorf("default value at %d = %v, want %v", i, p.At(i), DefaultPhenotype)
		}
	}

	p.SetAt(0, 3.0)
	if p.At(0) != MaxPhenotype {
		t.Errorf("over-range clamp = %v, want %v", p.At(0), MaxPhenotype)
	}
	p.SetAt(0, -1.0)
	if p.At(0) != MinPhenotype {
		t.Errorf("under-range clamp = %v, want %v", p.At(0), MinPhenotype)
	}

	if err := p.Set("missing", 0.5); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Set unknown = %v, want ErrUnknownParameter", err)
	}
}

func TestPhenotypePerturbedSkipsClamp(t *testing.T) {
	l := NewLayout([]string{"a"})
	p := NewPhenotypeVector(l)
	p.SetAt(0, MaxPhenotype)

	q := p.Perturbed(0, 0.1)
	if q.At(0) != MaxPhenotype+0.1 {
		t.Errorf("Perturbed = %v, want %v", q.At(0), MaxPhenotype+0.1)
	}
	if p.At(0) != MaxPhenotype {
		t.Errorf("Perturbed mutated the receiver: %v", p.At(0))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := NewLayout([]string{"a"})
	p := NewPhenotypeVector(l)
	q := p.Clone()
	q.SetAt(0, 0.9)
	if p.At(0) != DefaultPhenotype {
		t.Errorf("clone shares storage: original = %v", p.At(0))
	}
}
