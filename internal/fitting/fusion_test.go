package fitting

import (
	"errors"
	"math"
	"testing"
)

func view(conf float64, kv map[string]float64) ViewMeasurements {
	return ViewMeasurements{Values: kv, Confidence: conf}
}

func TestFuseWeightedAverage(t *testing.T) {
	views := []ViewMeasurements{
		view(1, map[string]float64{"height": 1.0}),
		view(3, map[string]float64{"height": 3.0}),
	}
	cfg := DefaultFusionConfig()
	cfg.OutlierRejection = false

	fused, err := Fuse(views, cfg)
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	if math.Abs(fused.Values["height"]-2.5) > 1e-12 {
		t.Errorf("weighted average = %.6f, want 2.5", fused.Values["height"])
	}
	if fused.Views != 2 {
		t.Errorf("views = %d, want 2", fused.Views)
	}
	if math.Abs(fused.Confidence-2) > 1e-12 {
		t.Errorf("confidence = %.6f, want 2", fused.Confidence)
	}
}

func TestFuseOutlierRejection(t *testing.T) {
	views := []ViewMeasurements{
		view(1, map[string]float64{"waist": 0.9}),
		view(1, map[string]float64{"waist": 1.0}),
		view(1, map[string]float64{"waist": 1.1}),
		view(1, map[string]float64{"waist": 100}),
	}

	fused, err := Fuse(views, DefaultFusionConfig())
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	if fused.Values["waist"] > 2 {
		t.Errorf("outlier survived fusion: %.3f", fused.Values["waist"])
	}
}

func TestFuseMedian(t *testing.T) {
	views := []ViewMeasurements{
		view(1, map[string]float64{"x": 1}),
		view(1, map[string]float64{"x": 2}),
		view(1, map[string]float64{"x": 50}),
	}
	cfg := DefaultFusionConfig()
	cfg.Method = FuseMedian
	cfg.OutlierRejection = false

	fused, err := Fuse(views, cfg)
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	if fused.Values["x"] != 2 {
		t.Errorf("median = %.3f, want 2", fused.Values["x"])
	}
}

func TestFuseMaxConfidence(t *testing.T) {
	views := []ViewMeasurements{
		view(0.2, map[string]float64{"x": 10}),
		view(0.9, map[string]float64{"x": 20}),
		view(0.5, map[string]float64{"x": 30}),
	}
	cfg := DefaultFusionConfig()
	cfg.Method = FuseMaxConfidence
	cfg.OutlierRejection = false

	fused, err := Fuse(views, cfg)
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	if fused.Values["x"] != 20 {
		t.Errorf("max-confidence value = %.3f, want 20", fused.Values["x"])
	}
}

func TestFuseMissingKeysAndNaN(t *testing.T) {
	views := []ViewMeasurements{
		view(1, map[string]float64{"a": 1, "b": math.NaN()}),
		view(1, map[string]float64{"a": 3, "b": 7}),
	}
	cfg := DefaultFusionConfig()
	cfg.OutlierRejection = false

	fused, err := Fuse(views, cfg)
	if err != nil {
		t.Fatalf("Fuse failed: %v", err)
	}
	if math.Abs(fused.Values["a"]-2) > 1e-12 {
		t.Errorf("a = %.3f, want 2", fused.Values["a"])
	}
	if fused.Values["b"] != 7 {
		t.Errorf("b = %.3f, want the single finite sample 7", fused.Values["b"])
	}
}

func TestFuseErrors(t *testing.T) {
	cfg := DefaultFusionConfig()
	cfg.MinViews = 2
	if _, err := Fuse([]ViewMeasurements{view(1, nil)}, cfg); !errors.Is(err, ErrTooFewViews) {
		t.Errorf("got %v, want ErrTooFewViews", err)
	}

	bad := DefaultFusionConfig()
	bad.Method = FusionMethod(99)
	if _, err := Fuse([]ViewMeasurements{view(1, nil)}, bad); !errors.Is(err, ErrUnknownFusionMethod) {
		t.Errorf("got %v, want ErrUnknownFusionMethod", err)
	}
}
