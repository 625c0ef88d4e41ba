package scoring

import (
	"fmt"
	"sort"
	"strings"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
)

// Deterministic synthesis for responses the remote scorer left partially
// empty. Same inputs always produce the same output; no randomness, no
// time-dependence. Candidate info is deliberately absent here: it is never
// synthesized.

var aspectLabels = map[string]string{
	AspectSkills:       "technical skills",
	AspectExperience:   "work experience",
	AspectAchievements: "achievements",
	AspectEducation:    "education",
	AspectCulturalFit:  "cultural fit",
}

var aspectAdvice = map[string]string{
	AspectSkills:       "Focus on adding more relevant technical skills that match the job requirements.",
	AspectExperience:   "Elaborate on your relevant work experience with more specific details.",
	AspectAchievements: "Add quantifiable achievements with metrics to demonstrate measurable impact.",
	AspectEducation:    "Include education details relevant to the position.",
}

var genericRecommendations = []string{
	"Mirror the terminology of the job description where it genuinely applies to you.",
	"Lead each section with the qualifications most relevant to this position.",
}

// FallbackRecommendations derives up to four recommendations from the top
// missing keywords and from any aspect scoring below 50, in the fixed order
// skills, experience, achievements, education. When fewer than two result,
// two generic recommendations are appended.
func FallbackRecommendations(missingKeywords []string, aspectScores map[string]float64) []string {
	var recs []string

	if len(missingKeywords) > 0 {
		top := missingKeywords
		if len(top) > 3 {
			top = top[:3]
		}
		recs = append(recs, fmt.Sprintf("Add these missing keywords to your resume: %s.", strings.Join(top, ", ")))
	}

	for _, name := range []string{AspectSkills, AspectExperience, AspectAchievements, AspectEducation} {
		if score, ok := aspectScores[name]; ok && score < 50 {
			recs = append(recs, aspectAdvice[name])
		}
	}

	if len(recs) > 4 {
		recs = recs[:4]
	}
	if len(recs) < 2 {
		recs = append(recs, genericRecommendations...)
	}
	return recs
}

// qualificationForScore maps an overall score to status and rating using the
// fixed thresholds 85/70/60/50.
func qualificationForScore(score float64) (domain.QualificationStatus, int) {
	switch {
	case score >= 85:
		return domain.StatusQualified, 5
	case score >= 70:
		return domain.StatusQualified, 4
	case score >= 60:
		return domain.StatusPartiallyQualified, 3
	case score >= 50:
		return domain.StatusPartiallyQualified, 2
	default:
		return domain.StatusNotQualified, 1
	}
}

// orderedAspects walks the canonical five aspects first, then any extra
// aspect names the scorer returned, sorted, so derivation is stable.
func orderedAspects(aspectScores map[string]float64) []string {
	seen := make(map[string]bool, len(aspectOrder))
	names := make([]string, 0, len(aspectScores))
	for _, name := range aspectOrder {
		if _, ok := aspectScores[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var extra []string
	for name := range aspectScores {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

func aspectLabel(name string) string {
	if label, ok := aspectLabels[name]; ok {
		return label
	}
	return name
}

// FallbackAssessment derives status, rating, and per-aspect strength and
// weakness bullets from the overall score and the aspect scores.
func FallbackAssessment(score float64, aspectScores map[string]float64) domain.HRAssessment {
	status, rating := qualificationForScore(score)

	var strengths, weaknesses []string
	for _, name := range orderedAspects(aspectScores) {
		v := aspectScores[name]
		if v >= 80 {
			strengths = append(strengths, fmt.Sprintf("Strong %s relative to the job requirements.", aspectLabel(name)))
		}
		if v < 50 {
			weaknesses = append(weaknesses, fmt.Sprintf("Limited %s for this role.", aspectLabel(name)))
		}
	}
	if len(strengths) == 0 && score >= 60 {
		strengths = append(strengths, "Overall profile aligns with the core requirements of the position.")
	}
	if len(weaknesses) == 0 && score < 70 {
		weaknesses = append(weaknesses, "Several job requirements are not clearly evidenced in the resume.")
	}

	return domain.HRAssessment{
		Status:     status,
		Rating:     rating,
		Strengths:  strengths,
		Weaknesses: weaknesses,
	}
}

// FallbackAnalysis derives the narrative commentary from score and aspects.
func FallbackAnalysis(score float64, aspectScores map[string]float64) domain.HRAnalysis {
	status, _ := qualificationForScore(score)

	var overall string
	switch status {
	case domain.StatusQualified:
		overall = fmt.Sprintf("The resume shows a strong match for this position with an overall score of %.0f%%. The candidate has most of the key qualifications.", score)
	case domain.StatusPartiallyQualified:
		overall = fmt.Sprintf("The resume shows a moderate match with an overall score of %.0f%%. Several relevant qualifications are present, with gaps worth exploring in an interview.", score)
	default:
		overall = fmt.Sprintf("The resume shows limited alignment with this position, scoring %.0f%%. Key qualifications appear to be missing.", score)
	}

	technical := "Technical alignment could not be assessed from the resume."
	if v, ok := aspectScores[AspectSkills]; ok {
		if v >= 70 {
			technical = "Technical skills align well with the requirements of the role."
		} else if v >= 50 {
			technical = "Technical skills partially cover the requirements; verify depth during the interview."
		} else {
			technical = "Technical skills show significant gaps against the requirements."
		}
	}

	cultural := "Cultural fit should be assessed during the interview process."
	if v, ok := aspectScores[AspectCulturalFit]; ok && v >= 70 {
		cultural = "Indicators of cultural fit are positive; confirm team alignment during the interview."
	}

	experience := "Relevant experience could not be assessed from the resume."
	if v, ok := aspectScores[AspectExperience]; ok {
		if v >= 70 {
			experience = "Work history is closely relevant to the role."
		} else if v >= 50 {
			experience = "Work history is partially relevant; probe for transferable experience."
		} else {
			experience = "Limited relevant experience for this role."
		}
	}

	return domain.HRAnalysis{
		Overall:    overall,
		Technical:  technical,
		Cultural:   cultural,
		Experience: experience,
	}
}

// FallbackHRRecommendations derives interviewer-facing recommendations.
func FallbackHRRecommendations(score float64, aspectScores map[string]float64) []string {
	status, _ := qualificationForScore(score)

	var recs []string
	switch status {
	case domain.StatusQualified:
		recs = append(recs, "Proceed to the interview stage to evaluate the candidate further.")
	case domain.StatusPartiallyQualified:
		recs = append(recs, "Screen the candidate to clarify the gaps before committing to a full interview loop.")
	default:
		recs = append(recs, "Consider other candidates unless the missing qualifications can be trained quickly.")
	}

	if v, ok := aspectScores[AspectSkills]; ok && v < 70 {
		recs = append(recs, "Verify proficiency in the missing technical skills during the interview.")
	}
	if v, ok := aspectScores[AspectExperience]; ok && v < 60 {
		recs = append(recs, "Discuss relevant work experience in detail, as the resume shows limited alignment.")
	}
	recs = append(recs, "Assess team fit and alignment with company values during the interview.")
	return recs
}

// ApplyFallbacks fills any empty recommendation or HR section of a
// successful outcome in place. It never touches candidate info and never
// overwrites content the scorer actually returned. Safe to call more than
// once along different code paths.
func ApplyFallbacks(o *Outcome) {
	if o == nil || o.Failed() {
		return
	}

	if len(o.Recommendations) == 0 {
		o.Recommendations = FallbackRecommendations(o.MissingKeywords, o.AspectScores)
	}

	if o.HRData == nil {
		o.HRData = &domain.HRData{}
	}
	if o.HRData.Analysis.Empty() {
		o.HRData.Analysis = FallbackAnalysis(o.Score, o.AspectScores)
	}
	if o.HRData.Assessment.Empty() {
		o.HRData.Assessment = FallbackAssessment(o.Score, o.AspectScores)
	}
	if len(o.HRData.Recommendations) == 0 {
		o.HRData.Recommendations = FallbackHRRecommendations(o.Score, o.AspectScores)
	}
}
