package httpclient

import (
	"encoding/json"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
)

// The scorer is inconsistent about field casing: depending on the code path
// it answers in camelCase or snake_case. Both are accepted here and
// normalized into one canonical shape; neither convention leaks past this
// package.

type wireHRAssessment struct {
	Status     string   `json:"status"`
	Rating     int      `json:"rating"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

type wireCandidateInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type wireResponse struct {
	Filename string `json:"filename"`

	Score *float64 `json:"score"`

	MatchedKeywords      []string `json:"matchedKeywords"`
	MatchedKeywordsSnake []string `json:"matched_keywords"`
	MissingKeywords      []string `json:"missingKeywords"`
	MissingKeywordsSnake []string `json:"missing_keywords"`

	Recommendations []string `json:"recommendations"`

	AspectScores      map[string]float64 `json:"aspectScores"`
	AspectScoresSnake map[string]float64 `json:"aspect_scores"`

	AchievementBonus      *float64 `json:"achievementBonus"`
	AchievementBonusSnake *float64 `json:"achievement_bonus"`

	HRAnalysis      *domain.HRAnalysis `json:"hrAnalysis"`
	HRAnalysisSnake *domain.HRAnalysis `json:"hr_analysis"`

	HRAssessment      *wireHRAssessment `json:"hrAssessment"`
	HRAssessmentSnake *wireHRAssessment `json:"hr_assessment"`

	HRRecommendations      []string `json:"hrRecommendations"`
	HRRecommendationsSnake []string `json:"hr_recommendations"`

	CandidateInfo      *wireCandidateInfo `json:"candidateInfo"`
	CandidateInfoSnake *wireCandidateInfo `json:"candidate_info"`

	Metadata map[string]any `json:"metadata"`
}

func firstSlice(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}

func decodeOutcome(raw []byte) (scoring.Outcome, error) {
	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return scoring.Outcome{}, err
	}

	out := scoring.Outcome{
		Filename:        wire.Filename,
		MatchedKeywords: firstSlice(wire.MatchedKeywords, wire.MatchedKeywordsSnake),
		MissingKeywords: firstSlice(wire.MissingKeywords, wire.MissingKeywordsSnake),
		Recommendations: wire.Recommendations,
		Metadata:        wire.Metadata,
	}
	if out.MatchedKeywords == nil {
		out.MatchedKeywords = []string{}
	}
	if out.MissingKeywords == nil {
		out.MissingKeywords = []string{}
	}
	if wire.Score != nil {
		out.Score = *wire.Score
	}

	out.AspectScores = wire.AspectScores
	if out.AspectScores == nil {
		out.AspectScores = wire.AspectScoresSnake
	}

	if wire.AchievementBonus != nil {
		out.AchievementBonus = *wire.AchievementBonus
	} else if wire.AchievementBonusSnake != nil {
		out.AchievementBonus = *wire.AchievementBonusSnake
	}

	out.HRData = decodeHRData(&wire)

	// Candidate info is passthrough only: whichever convention the scorer
	// used, keep what it sent and nothing more.
	ci := wire.CandidateInfo
	if ci == nil {
		ci = wire.CandidateInfoSnake
	}
	if ci != nil && (ci.Name != "" || ci.Email != "") {
		out.CandidateInfo = &domain.CandidateInfo{Name: ci.Name, Email: ci.Email}
	}

	return out, nil
}

func decodeHRData(wire *wireResponse) *domain.HRData {
	analysis := wire.HRAnalysis
	if analysis == nil {
		analysis = wire.HRAnalysisSnake
	}
	assessment := wire.HRAssessment
	if assessment == nil {
		assessment = wire.HRAssessmentSnake
	}
	recs := firstSlice(wire.HRRecommendations, wire.HRRecommendationsSnake)

	if analysis == nil && assessment == nil && len(recs) == 0 {
		return nil
	}

	hr := &domain.HRData{Recommendations: recs}
	if analysis != nil {
		hr.Analysis = *analysis
	}
	if assessment != nil {
		hr.Assessment = domain.HRAssessment{
			Status:     domain.QualificationStatus(assessment.Status),
			Rating:     assessment.Rating,
			Strengths:  assessment.Strengths,
			Weaknesses: assessment.Weaknesses,
		}
	}
	return hr
}
