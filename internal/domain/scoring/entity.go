package scoring

import (
	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
)

// Error codes carried inside a failed Outcome. Expected remote failures are
// values, not Go errors; callers branch on Code.
const (
	CodeAPIUnavailable     = "API_UNAVAILABLE"
	CodeScoringFailed      = "SCORING_FAILED"
	CodeStorageFailed      = "STORAGE_FAILED"
	CodeRetrievalExhausted = "RETRIEVAL_EXHAUSTED"
)

// Error marker embedded in a failed Outcome
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Outcome is the result of scoring one resume against one job description.
// Exactly one Outcome exists per input file of a batch, success or failure.
type Outcome struct {
	FileID           string                `json:"file_id,omitempty"`
	Filename         string                `json:"filename"`
	Score            float64               `json:"score"`
	MatchedKeywords  []string              `json:"matchedKeywords"`
	MissingKeywords  []string              `json:"missingKeywords"`
	Recommendations  []string              `json:"recommendations"`
	AspectScores     map[string]float64    `json:"aspectScores,omitempty"`
	AchievementBonus float64               `json:"achievementBonus,omitempty"`
	HRData           *domain.HRData        `json:"hrData,omitempty"`
	CandidateInfo    *domain.CandidateInfo `json:"candidateInfo,omitempty"`
	Metadata         map[string]any        `json:"metadata,omitempty"`
	Error            *Error                `json:"error,omitempty"`
}

// Failed reports whether the outcome carries an error marker.
func (o *Outcome) Failed() bool { return o.Error != nil }

// Failure builds the canonical failed Outcome: zero score, empty keyword
// sets, and the error message surfaced as the only recommendation.
func Failure(filename, code, message string) Outcome {
	return Outcome{
		Filename:        filename,
		Score:           0,
		MatchedKeywords: []string{},
		MissingKeywords: []string{},
		Recommendations: []string{message},
		Error:           &Error{Code: code, Message: message},
	}
}
