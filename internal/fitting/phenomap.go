package fitting

import (
	"math"
	"strings"
)

// Human height range assumed when normalizing measured height into the
// phenotype's unit interval.
const (
	MinHeightMeters = 1.20
	MaxHeightMeters = 2.20
)

// Ideal body proportion ratios (each relative to height) against which
// deviation is scored.
const (
	idealShoulderRatio = 0.28
	idealHipRatio      = 0.20
	idealLegRatio      = 0.52
	idealTorsoRatio    = 0.48
)

// VisionMeasurements carries the scalar attributes extracted upstream from
// images. Ratio fields set to NaN are treated as unavailable.
type VisionMeasurements struct {
	HeightMeters    float64
	Gender          string // "male" or "female"; empty means unknown
	AgeYears        float64
	HasAge          bool
	ShoulderRatio   float64
	HipRatio        float64
	LegRatio        float64
	TorsoRatio      float64
	MuscleIndicator float64
	WeightIndicator float64
	HasComposition  bool
	Confidence      float64
}

// NewVisionMeasurements returns a measurement set with every attribute
// marked unavailable (ratios NaN, zero confidence).
func NewVisionMeasurements() VisionMeasurements {
	return VisionMeasurements{
		ShoulderRatio: math.NaN(),
		HipRatio:      math.NaN(),
		LegRatio:      math.NaN(),
		TorsoRatio:    math.NaN(),
	}
}

// MapHeight normalizes a measured height in meters into [0, 1] over the
// assumed human range.
func MapHeight(meters float64) float64 {
	clamped := math.Min(MaxHeightMeters, math.Max(MinHeightMeters, meters))
	return (clamped - MinHeightMeters) / (MaxHeightMeters - MinHeightMeters)
}

// MapGender maps an estimated gender to the gender phenotype: 0 male, 1
// female, pulled toward the neutral 0.5 as confidence drops.
func MapGender(gender string, confidence float64) float64 {
	base := 1.0
	if strings.EqualFold(gender, "male") {
		base = 0.0
	}
	if confidence < 1.0 {
		base = base*confidence + 0.5*(1-confidence)
	}
	return base
}

// MapAgeYears maps an age in years to the age phenotype by a piecewise-linear
// schedule over the newborn/baby/child/young/old stages.
func MapAgeYears(years float64) float64 {
	switch {
	case years < 1:
		return 0.0
	case years < 3:
		return 0.2
	case years < 12:
		return 0.4
	case years < 40:
		return 0.4 + 0.3*(years-12)/(40-12)
	default:
		return 0.7 + 0.3*math.Min((years-40)/60, 1.0)
	}
}

// MapProportions scores how far the available proportion ratios deviate from
// ideal values: 0 means ideal, 1 uncommon. NaN ratios are skipped; with no
// ratios available the neutral 0.5 is returned.
func MapProportions(shoulder, hip, leg, torso float64) float64 {
	var deviations []float64
	add := func(ratio, ideal float64) {
		if !math.IsNaN(ratio) {
			deviations = append(deviations, math.Abs(ratio-ideal)/ideal)
		}
	}
	add(shoulder, idealShoulderRatio)
	add(hip, idealHipRatio)
	add(leg, idealLegRatio)
	add(torso, idealTorsoRatio)

	if len(deviations) == 0 {
		return 0.5
	}
	var sum float64
	for _, d := range deviations {
		sum += d
	}
	avg := sum / float64(len(deviations))
	return math.Min(1, math.Max(0, avg*2))
}

// MapBodyComposition clamps the muscle and weight indicators into [0, 1].
func MapBodyComposition(muscle, weight float64) (float64, float64) {
	clamp := func(v float64) float64 { return math.Min(1, math.Max(0, v)) }
	return clamp(muscle), clamp(weight)
}

// MapMeasurements converts a full measurement set into initial phenotype
// estimates. Missing attributes fall back to the neutral 0.5.
func MapMeasurements(vm VisionMeasurements) map[string]float64 {
	out := map[string]float64{
		"height":      0.5,
		"gender":      0.5,
		"age":         0.5,
		"muscle":      0.5,
		"weight":      0.5,
		"proportions": MapProportions(vm.ShoulderRatio, vm.HipRatio, vm.LegRatio, vm.TorsoRatio),
	}
	if vm.HeightMeters > 0 {
		out["height"] = MapHeight(vm.HeightMeters)
	}
	if vm.Gender != "" {
		out["gender"] = MapGender(vm.Gender, vm.Confidence)
	}
	if vm.HasAge {
		out["age"] = MapAgeYears(vm.AgeYears)
	}
	if vm.HasComposition {
		muscle, weight := MapBodyComposition(vm.MuscleIndicator, vm.WeightIndicator)
		out["muscle"] = muscle
		out["weight"] = weight
	}
	return out
}
