package fitting

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FusionMethod selects how per-view measurements are combined.
type FusionMethod int

const (
	// FuseWeightedAverage averages values weighted by view confidence.
	FuseWeightedAverage FusionMethod = iota
	// FuseMedian takes the median value, robust to outliers.
	FuseMedian
	// FuseMaxConfidence keeps the value from the most confident view.
	FuseMaxConfidence
	// FuseAdaptive uses the median when the views disagree strongly and the
	// weighted average otherwise.
	FuseAdaptive
)

func (m FusionMethod) String() string {
	switch m {
	case FuseWeightedAverage:
		return "weighted_average"
	case FuseMedian:
		return "median"
	case FuseMaxConfidence:
		return "max_confidence"
	case FuseAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownFusionMethod is returned for an unrecognized method value.
	ErrUnknownFusionMethod = errors.New("unknown fusion method")

	// ErrTooFewViews is returned when fewer views than MinViews are given.
	ErrTooFewViews = errors.New("too few views for fusion")
)

// ViewMeasurements holds the scalar measurements extracted from one view and
// the view's overall confidence.
type ViewMeasurements struct {
	Values     map[string]float64
	Confidence float64
}

// FusionConfig controls multi-view fusion.
type FusionConfig struct {
	Method           FusionMethod
	OutlierRejection bool
	// OutlierThreshold is the modified z-score cutoff for rejection.
	OutlierThreshold float64
	MinViews         int
}

// DefaultFusionConfig returns confidence-weighted averaging with MAD-based
// outlier rejection.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		Method:           FuseWeightedAverage,
		OutlierRejection: true,
		OutlierThreshold: 2.0,
		MinViews:         1,
	}
}

// FusedMeasurements is the result of combining several views.
type FusedMeasurements struct {
	Values     map[string]float64
	Variance   map[string]float64
	Confidence float64
	Views      int
}

// Fuse combines measurements from multiple views into a single estimate with
// per-key variance. Keys missing from some views are fused over the views
// that carry them.
func Fuse(views []ViewMeasurements, cfg FusionConfig) (FusedMeasurements, error) {
	if cfg.Method < FuseWeightedAverage || cfg.Method > FuseAdaptive {
		return FusedMeasurements{}, fmt.Errorf("%w: %d", ErrUnknownFusionMethod, cfg.Method)
	}
	minViews := cfg.MinViews
	if minViews < 1 {
		minViews = 1
	}
	if len(views) < minViews {
		return FusedMeasurements{}, fmt.Errorf("%w: got %d, want at least %d", ErrTooFewViews, len(views), minViews)
	}

	keys := map[string]struct{}{}
	var confSum float64
	for _, v := range views {
		confSum += v.Confidence
		for k := range v.Values {
			keys[k] = struct{}{}
		}
	}

	fused := FusedMeasurements{
		Values:     make(map[string]float64, len(keys)),
		Variance:   make(map[string]float64, len(keys)),
		Confidence: confSum / float64(len(views)),
		Views:      len(views),
	}

	for key := range keys {
		var values, confidences []float64
		for _, v := range views {
			val, ok := v.Values[key]
			if !ok || math.IsNaN(val) {
				continue
			}
			values = append(values, val)
			confidences = append(confidences, math.Max(v.Confidence, 0))
		}
		if len(values) == 0 {
			continue
		}
		if cfg.OutlierRejection {
			values, confidences = rejectOutliers(values, confidences, cfg.OutlierThreshold)
		}
		fused.Values[key] = fuseValues(values, confidences, cfg.Method)
		fused.Variance[key] = stat.Variance(values, nil)
		if len(values) < 2 {
			fused.Variance[key] = 0
		}
	}
	return fused, nil
}

func fuseValues(values, confidences []float64, method FusionMethod) float64 {
	switch method {
	case FuseMedian:
		return median(values)
	case FuseMaxConfidence:
		best := 0
		for i, c := range confidences {
			if c > confidences[best] {
				best = i
			}
		}
		return values[best]
	case FuseAdaptive:
		m := median(values)
		if len(values) > 2 {
			sd := stat.StdDev(values, nil)
			if m != 0 && sd/math.Abs(m) > 0.25 {
				return m
			}
		}
		return weightedAverage(values, confidences)
	default:
		return weightedAverage(values, confidences)
	}
}

func weightedAverage(values, confidences []float64) float64 {
	var total float64
	for _, c := range confidences {
		total += c
	}
	if total <= 0 {
		return stat.Mean(values, nil)
	}
	return stat.Mean(values, confidences)
}

// rejectOutliers filters values by modified z-score against the median
// absolute deviation. With fewer than three values there is no basis for
// rejection.
func rejectOutliers(values, confidences []float64, threshold float64) ([]float64, []float64) {
	if len(values) < 3 {
		return values, confidences
	}
	m := median(values)
	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - m)
	}
	mad := median(deviations)
	if mad == 0 {
		return values, confidences
	}

	outValues := make([]float64, 0, len(values))
	outConf := make([]float64, 0, len(confidences))
	for i, v := range values {
		z := 0.6745 * (v - m) / mad
		if math.Abs(z) <= threshold {
			outValues = append(outValues, v)
			outConf = append(outConf, confidences[i])
		}
	}
	if len(outValues) == 0 {
		return values, confidences
	}
	return outValues, outConf
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
