package scoring

import (
	"context"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
)

// ScoreRequest for the Scorer port
type ScoreRequest struct {
	Filename       string
	Content        []byte
	JobDescription string
	FolderID       string
	UserID         string
	FileID         string // optional
	Weights        AspectWeights
	UseDistilBERT  bool
}

// Scorer port (interface ke scoring API eksternal).
// Score never returns a Go error for expected remote failures; it returns
// an Outcome whose Error field is set instead.
type Scorer interface {
	// Available probes the endpoint with a short timeout.
	Available(ctx context.Context) bool
	Score(ctx context.Context, req ScoreRequest) Outcome
}

// Enricher port for optional AI-generated HR commentary. Any failure is
// non-fatal; callers fall back to the deterministic synthesis rules.
type Enricher interface {
	HRCommentary(ctx context.Context, o Outcome) (*domain.HRData, error)
}
