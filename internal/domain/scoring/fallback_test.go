package scoring

import (
	"reflect"
	"strings"
	"testing"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
)

func TestQualificationForScoreBoundaries(t *testing.T) {
	tests := []struct {
		score      float64
		wantStatus domain.QualificationStatus
		wantRating int
	}{
		{85, domain.StatusQualified, 5},
		{84.9, domain.StatusQualified, 4},
		{70, domain.StatusQualified, 4},
		{69.9, domain.StatusPartiallyQualified, 3},
		{60, domain.StatusPartiallyQualified, 3},
		{59.9, domain.StatusPartiallyQualified, 2},
		{50, domain.StatusPartiallyQualified, 2},
		{49.9, domain.StatusNotQualified, 1},
		{0, domain.StatusNotQualified, 1},
		{100, domain.StatusQualified, 5},
	}
	for _, tt := range tests {
		status, rating := qualificationForScore(tt.score)
		if status != tt.wantStatus || rating != tt.wantRating {
			t.Errorf("qualificationForScore(%v) = (%s, %d), want (%s, %d)",
				tt.score, status, rating, tt.wantStatus, tt.wantRating)
		}
	}
}

func TestFallbackRecommendations(t *testing.T) {
	t.Run("top three missing keywords", func(t *testing.T) {
		recs := FallbackRecommendations([]string{"go", "sql", "docker", "kubernetes"}, nil)
		if len(recs) < 1 {
			t.Fatal("no recommendations returned")
		}
		if !strings.Contains(recs[0], "go, sql, docker") {
			t.Errorf("first recommendation = %q, want top 3 keywords", recs[0])
		}
		if strings.Contains(recs[0], "kubernetes") {
			t.Errorf("more than 3 keywords surfaced: %q", recs[0])
		}
	})

	t.Run("weak aspects in fixed order", func(t *testing.T) {
		scores := map[string]float64{
			AspectExperience: 30,
			AspectSkills:     40,
			AspectEducation:  45,
		}
		recs := FallbackRecommendations(nil, scores)
		if len(recs) != 3 {
			t.Fatalf("got %d recommendations, want 3: %v", len(recs), recs)
		}
		// skills before experience before education, regardless of map order
		if recs[0] != aspectAdvice[AspectSkills] || recs[1] != aspectAdvice[AspectExperience] || recs[2] != aspectAdvice[AspectEducation] {
			t.Errorf("aspect advice out of order: %v", recs)
		}
	})

	t.Run("capped at four", func(t *testing.T) {
		scores := map[string]float64{
			AspectSkills:       10,
			AspectExperience:   10,
			AspectAchievements: 10,
			AspectEducation:    10,
		}
		recs := FallbackRecommendations([]string{"go"}, scores)
		if len(recs) != 4 {
			t.Errorf("got %d recommendations, want cap of 4: %v", len(recs), recs)
		}
	})

	t.Run("generics appended when sparse", func(t *testing.T) {
		recs := FallbackRecommendations(nil, map[string]float64{AspectSkills: 90})
		if len(recs) != len(genericRecommendations) {
			t.Fatalf("got %d recommendations, want %d generics", len(recs), len(genericRecommendations))
		}
		if !reflect.DeepEqual(recs, genericRecommendations) {
			t.Errorf("recommendations = %v, want generics", recs)
		}
	})
}

func TestFallbackAssessment(t *testing.T) {
	scores := map[string]float64{
		AspectSkills:     85,
		AspectExperience: 40,
	}
	a := FallbackAssessment(72, scores)

	if a.Status != domain.StatusQualified || a.Rating != 4 {
		t.Errorf("assessment = (%s, %d), want (qualified, 4)", a.Status, a.Rating)
	}
	if len(a.Strengths) != 1 || !strings.Contains(a.Strengths[0], "technical skills") {
		t.Errorf("strengths = %v, want one skills strength", a.Strengths)
	}
	if len(a.Weaknesses) != 1 || !strings.Contains(a.Weaknesses[0], "work experience") {
		t.Errorf("weaknesses = %v, want one experience weakness", a.Weaknesses)
	}
}

func TestFallbackAssessmentGenericFills(t *testing.T) {
	// No aspect >= 80 and no aspect < 50: generic strength kicks in at
	// score >= 60, generic weakness below 70.
	scores := map[string]float64{AspectSkills: 65}
	a := FallbackAssessment(65, scores)
	if len(a.Strengths) != 1 {
		t.Errorf("strengths = %v, want one generic strength", a.Strengths)
	}
	if len(a.Weaknesses) != 1 {
		t.Errorf("weaknesses = %v, want one generic weakness", a.Weaknesses)
	}

	// High score: no generic weakness.
	a = FallbackAssessment(75, scores)
	if len(a.Weaknesses) != 0 {
		t.Errorf("weaknesses = %v, want none at score 75", a.Weaknesses)
	}
}

func TestFallbackDeterminism(t *testing.T) {
	scores := map[string]float64{
		AspectSkills:      30,
		AspectExperience:  45,
		AspectEducation:   85,
		AspectCulturalFit: 90,
		"extraAspect":     20,
		"anotherExtra":    95,
	}
	first := FallbackAssessment(55, scores)
	for i := 0; i < 20; i++ {
		if got := FallbackAssessment(55, scores); !reflect.DeepEqual(got, first) {
			t.Fatalf("assessment not deterministic: run %d differs", i)
		}
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Run("fills empty sections", func(t *testing.T) {
		o := Outcome{
			Score:           72,
			MissingKeywords: []string{"go"},
			AspectScores:    map[string]float64{AspectSkills: 75},
		}
		ApplyFallbacks(&o)
		if len(o.Recommendations) == 0 {
			t.Error("recommendations not synthesized")
		}
		if o.HRData == nil || o.HRData.Analysis.Empty() || o.HRData.Assessment.Empty() || len(o.HRData.Recommendations) == 0 {
			t.Errorf("hr data not fully synthesized: %+v", o.HRData)
		}
	})

	t.Run("never invents candidate info", func(t *testing.T) {
		o := Outcome{Score: 72}
		ApplyFallbacks(&o)
		if o.CandidateInfo != nil {
			t.Errorf("candidate info was synthesized: %+v", o.CandidateInfo)
		}
	})

	t.Run("keeps scorer content", func(t *testing.T) {
		o := Outcome{
			Score:           72,
			Recommendations: []string{"from the scorer"},
			HRData: &domain.HRData{
				Analysis: domain.HRAnalysis{Overall: "scorer overall"},
			},
		}
		ApplyFallbacks(&o)
		if o.Recommendations[0] != "from the scorer" {
			t.Errorf("scorer recommendations overwritten: %v", o.Recommendations)
		}
		if o.HRData.Analysis.Overall != "scorer overall" {
			t.Errorf("scorer analysis overwritten: %+v", o.HRData.Analysis)
		}
		// empty sections still get filled
		if o.HRData.Assessment.Empty() {
			t.Error("empty assessment not filled")
		}
	})

	t.Run("skips failed outcomes", func(t *testing.T) {
		o := Failure("cv.pdf", CodeScoringFailed, "boom")
		ApplyFallbacks(&o)
		if o.HRData != nil {
			t.Errorf("failed outcome got hr data: %+v", o.HRData)
		}
		if len(o.Recommendations) != 1 || o.Recommendations[0] != "boom" {
			t.Errorf("failed outcome recommendations changed: %v", o.Recommendations)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		o := Outcome{Score: 55, AspectScores: map[string]float64{AspectSkills: 40}}
		ApplyFallbacks(&o)
		snapshot := o
		ApplyFallbacks(&o)
		if !reflect.DeepEqual(o, snapshot) {
			t.Error("second ApplyFallbacks changed the outcome")
		}
	})
}

func TestFailure(t *testing.T) {
	o := Failure("cv.pdf", CodeAPIUnavailable, "service down")
	if !o.Failed() {
		t.Fatal("Failure() outcome does not report Failed()")
	}
	if o.Score != 0 {
		t.Errorf("score = %v, want 0", o.Score)
	}
	if o.MatchedKeywords == nil || o.MissingKeywords == nil {
		t.Error("keyword slices should be empty, not nil")
	}
	if len(o.Recommendations) != 1 || o.Recommendations[0] != "service down" {
		t.Errorf("recommendations = %v, want the error message only", o.Recommendations)
	}
	if o.Error.Code != CodeAPIUnavailable {
		t.Errorf("code = %q, want %q", o.Error.Code, CodeAPIUnavailable)
	}
}
