package scoring

import (
	"fmt"
	"math"
)

// Fixed aspect set. The scorer may return extra aspect names; weights only
// ever cover these five.
const (
	AspectSkills       = "skills"
	AspectExperience   = "experience"
	AspectAchievements = "achievements"
	AspectEducation    = "education"
	AspectCulturalFit  = "culturalFit"
)

// aspectOrder is the canonical priority order used everywhere weights or
// aspect scores are walked, so output stays deterministic.
var aspectOrder = []string{
	AspectSkills,
	AspectExperience,
	AspectAchievements,
	AspectEducation,
	AspectCulturalFit,
}

// AspectWeights maps aspect name to its relative weight.
type AspectWeights map[string]float64

// DefaultWeights returns the stock weight set used when the caller does not
// supply one.
func DefaultWeights() AspectWeights {
	return AspectWeights{
		AspectSkills:       2.0,
		AspectExperience:   1.5,
		AspectAchievements: 1.0,
		AspectEducation:    0.8,
		AspectCulturalFit:  0.7,
	}
}

// Validate rejects weight sets containing NaN, Inf, or negative values.
// A malformed weight fails outright rather than being silently replaced.
func (w AspectWeights) Validate() error {
	for name, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight for %q is not a finite number", name)
		}
		if v < 0 {
			return fmt.Errorf("weight for %q is negative", name)
		}
	}
	return nil
}

// Normalized fills missing aspects from the default set, validates, and
// rescales so the five weights sum to 1.0. A nil receiver yields the
// normalized defaults. Relative proportions of the input are preserved.
func (w AspectWeights) Normalized() (AspectWeights, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	merged := DefaultWeights()
	for _, name := range aspectOrder {
		if v, ok := w[name]; ok {
			merged[name] = v
		}
	}

	var sum float64
	for _, name := range aspectOrder {
		sum += merged[name]
	}
	if sum == 0 {
		return nil, fmt.Errorf("weights sum to zero")
	}

	out := make(AspectWeights, len(aspectOrder))
	for _, name := range aspectOrder {
		out[name] = merged[name] / sum
	}
	return out, nil
}
