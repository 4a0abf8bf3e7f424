package geometry

import (
	"github.com/golang/geo/r3"
)

// Centroid returns the mean of a point set, or the zero vector for an empty set.
func Centroid(points []r3.Vector) r3.Vector {
	if len(points) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

// WeightedCentroid returns the weighted mean of a point set. A nil weight
// slice means uniform weights. Returns the zero vector and false when the
// total weight is not positive.
func WeightedCentroid(points []r3.Vector, weights []float64) (r3.Vector, bool) {
	if weights == nil {
		if len(points) == 0 {
			return r3.Vector{}, false
		}
		return Centroid(points), true
	}
	var sum r3.Vector
	var total float64
	for i, p := range points {
		sum = sum.Add(p.Mul(weights[i]))
		total += weights[i]
	}
	if total <= 0 {
		return r3.Vector{}, false
	}
	return sum.Mul(1 / total), true
}

// MeanDistance returns the mean Euclidean distance between corresponding
// points of two equally sized sets.
func MeanDistance(a, b []r3.Vector) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var total float64
	for i := range a {
		total += a[i].Sub(b[i]).Norm()
	}
	return total / float64(len(a))
}
