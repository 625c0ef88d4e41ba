package scoring

import (
	"math"
	"testing"
)

func TestNormalizedDefaults(t *testing.T) {
	var w AspectWeights // nil: caller supplied nothing

	got, err := w.Normalized()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sum float64
	for _, name := range aspectOrder {
		sum += got[name]
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("normalized weights sum = %v, want 1.0", sum)
	}

	// defaults are 2.0/1.5/1.0/0.8/0.7, total 6.0
	if math.Abs(got[AspectSkills]-2.0/6.0) > 1e-9 {
		t.Errorf("skills weight = %v, want %v", got[AspectSkills], 2.0/6.0)
	}
	if math.Abs(got[AspectCulturalFit]-0.7/6.0) > 1e-9 {
		t.Errorf("culturalFit weight = %v, want %v", got[AspectCulturalFit], 0.7/6.0)
	}
}

func TestNormalizedPreservesProportions(t *testing.T) {
	w := AspectWeights{
		AspectSkills:     4.0,
		AspectExperience: 2.0,
	}
	got, err := w.Normalized()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ratio := got[AspectSkills] / got[AspectExperience]; math.Abs(ratio-2.0) > 1e-9 {
		t.Errorf("skills/experience ratio = %v, want 2.0", ratio)
	}

	var sum float64
	for _, v := range got {
		sum += v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("normalized weights sum = %v, want 1.0", sum)
	}
}

func TestNormalizedFillsMissingFromDefaults(t *testing.T) {
	w := AspectWeights{AspectSkills: 3.0}
	got, err := w.Normalized()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// experience keeps its default 1.5 relative to skills 3.0
	if ratio := got[AspectSkills] / got[AspectExperience]; math.Abs(ratio-2.0) > 1e-9 {
		t.Errorf("skills/experience ratio = %v, want 2.0", ratio)
	}
}

func TestNormalizedRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		w    AspectWeights
	}{
		{"nan", AspectWeights{AspectSkills: math.NaN()}},
		{"positive inf", AspectWeights{AspectSkills: math.Inf(1)}},
		{"negative inf", AspectWeights{AspectSkills: math.Inf(-1)}},
		{"negative", AspectWeights{AspectExperience: -1.0}},
		{"all zero", AspectWeights{
			AspectSkills:       0,
			AspectExperience:   0,
			AspectAchievements: 0,
			AspectEducation:    0,
			AspectCulturalFit:  0,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.w.Normalized(); err == nil {
				t.Errorf("Normalized() accepted malformed weights %v", tt.w)
			}
		})
	}
}

func TestNormalizedIgnoresUnknownAspects(t *testing.T) {
	w := AspectWeights{"charisma": 10.0}
	got, err := w.Normalized()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["charisma"]; ok {
		t.Errorf("unknown aspect survived normalization")
	}
	if len(got) != len(aspectOrder) {
		t.Errorf("normalized set has %d aspects, want %d", len(got), len(aspectOrder))
	}
}
