package ats

import (
	"time"
)

// ID tipe untuk JobDescription
type JobDescriptionID string

// ID tipe untuk AnalysisResult
type ResultID string

// QualificationStatus enum
type QualificationStatus string

const (
	StatusQualified          QualificationStatus = "qualified"
	StatusPartiallyQualified QualificationStatus = "partially_qualified"
	StatusNotQualified       QualificationStatus = "not_qualified"
)

// JobDescription is the "current" job description of a folder.
// At most one row exists per (folder_id, user_id); a later store
// updates the existing row instead of appending.
type JobDescription struct {
	ID          JobDescriptionID `json:"id"`
	FolderID    string           `json:"folder_id"`
	UserID      string           `json:"user_id"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// HRAnalysis narrative commentary per dimension
type HRAnalysis struct {
	Overall    string `json:"overall,omitempty"`
	Technical  string `json:"technical,omitempty"`
	Cultural   string `json:"cultural,omitempty"`
	Experience string `json:"experience,omitempty"`
}

func (h HRAnalysis) Empty() bool {
	return h.Overall == "" && h.Technical == "" && h.Cultural == "" && h.Experience == ""
}

// HRAssessment value object
type HRAssessment struct {
	Status     QualificationStatus `json:"status,omitempty"`
	Rating     int                 `json:"rating,omitempty"` // 1-5
	Strengths  []string            `json:"strengths,omitempty"`
	Weaknesses []string            `json:"weaknesses,omitempty"`
}

func (h HRAssessment) Empty() bool {
	return h.Status == "" && h.Rating == 0 && len(h.Strengths) == 0 && len(h.Weaknesses) == 0
}

// HRData groups the HR-style commentary attached to a result.
type HRData struct {
	Analysis        HRAnalysis   `json:"hrAnalysis"`
	Assessment      HRAssessment `json:"hrAssessment"`
	Recommendations []string     `json:"hrRecommendations"`
}

func (h HRData) Empty() bool {
	return h.Analysis.Empty() && h.Assessment.Empty() && len(h.Recommendations) == 0
}

// CandidateInfo is only ever what the remote scorer extracted.
// It is never synthesized or filled with placeholders.
type CandidateInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (c CandidateInfo) Empty() bool { return c.Name == "" && c.Email == "" }

// Aggregate Root: AnalysisResult
// At most one row exists per (file_id, user_id); re-analysis updates in place.
type AnalysisResult struct {
	ID               ResultID           `json:"id"`
	FileID           string             `json:"file_id"`
	JobDescriptionID JobDescriptionID   `json:"job_description_id"`
	UserID           string             `json:"user_id"`
	Score            float64            `json:"match_score"`
	MatchedKeywords  []string           `json:"matched_keywords"`
	MissingKeywords  []string           `json:"missing_keywords"`
	AchievementBonus float64            `json:"achievement_bonus"`
	AspectScores     map[string]float64 `json:"aspect_scores"`
	HRData           *HRData            `json:"hr_data,omitempty"`
	CandidateInfo    *CandidateInfo     `json:"candidate_info,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
