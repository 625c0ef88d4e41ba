package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior HR recruiter reviewing an automated resume screening result. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- status must be one of: qualified, partially_qualified, not_qualified.
- rating must be an integer from 1 to 5.
- strengths and weaknesses are arrays of short phrases grounded in the scores given.
- hrRecommendations is an array of at most 4 concrete, actionable suggestions for the candidate.
- Never invent facts about the candidate; only interpret the scores and keywords provided.

Schema (example with empty values):
{
  "hrAnalysis": {"overall": "<string>", "technical": "<string>", "cultural": "<string>", "experience": "<string>"},
  "hrAssessment": {"status": "<string>", "rating": 0, "strengths": ["<string>"], "weaknesses": ["<string>"]},
  "hrRecommendations": ["<string>"]
}`
}

// GetUserPrompt builds a compact user message around a scoring outcome.
func GetUserPrompt(o scoring.Outcome) string {
	aspects, _ := json.Marshal(o.AspectScores)
	matched, _ := json.Marshal(o.MatchedKeywords)
	missing, _ := json.Marshal(o.MissingKeywords)
	return fmt.Sprintf(
		"Review this screening result and respond with the JSON per schema. Overall score: %.1f. Aspect scores: %s. Matched keywords: %s. Missing keywords: %s.",
		o.Score, aspects, matched, missing,
	)
}
