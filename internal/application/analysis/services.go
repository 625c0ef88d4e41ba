package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/files"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
)

// Service implements use-cases untuk analisa resume.
// Batch processing is strictly sequential per file: the remote scorer does
// its own text extraction and is the bottleneck, so fan-out would only move
// load onto it. One file's failure never aborts the rest of the batch.
type Service struct {
	JobDescriptions domain.JobDescriptionRepository
	Results         domain.ResultRepository
	Files           files.Repository
	Blobs           files.BlobStore
	Scorer          scoring.Scorer
	Enricher        scoring.Enricher // optional, nil disables AI commentary
	Clock           Clock
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

//
// ==== USE CASES ====
//

// Command untuk batch analysis
type BatchCommand struct {
	UserID         string
	FolderID       string
	JobDescription string
	FileIDs        []string
	Weights        scoring.AspectWeights
	UseDistilBERT  bool
}

// AnalyzeBatch drives every file through score + store and returns exactly
// one outcome per input file, in input order. A returned error means the
// batch never started (bad input); per-file failures live in the outcomes.
func (s *Service) AnalyzeBatch(ctx context.Context, cmd BatchCommand) ([]scoring.Outcome, error) {
	if len(cmd.FileIDs) == 0 {
		return nil, fmt.Errorf("file_ids is required")
	}
	if cmd.JobDescription == "" {
		return nil, fmt.Errorf("job_description is required")
	}
	weights, err := cmd.Weights.Normalized()
	if err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}

	// Probe once up front; when the scorer is down, fail the whole batch
	// without a single upload.
	if !s.Scorer.Available(ctx) {
		outcomes := make([]scoring.Outcome, 0, len(cmd.FileIDs))
		for _, fileID := range cmd.FileIDs {
			out := scoring.Failure(fileID, scoring.CodeAPIUnavailable, "resume scoring service is not available")
			out.FileID = fileID
			outcomes = append(outcomes, out)
		}
		return outcomes, nil
	}

	// Simpan job description sekali untuk satu batch. Failure is tolerated:
	// per-file stores will fail too and are equally non-fatal.
	jobDescriptionID := s.storeJobDescription(ctx, cmd)

	outcomes := make([]scoring.Outcome, 0, len(cmd.FileIDs))
	for _, fileID := range cmd.FileIDs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		out := s.analyzeOne(ctx, cmd, fileID, jobDescriptionID, weights)
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// Command untuk single-file analysis
type AnalyzeCommand struct {
	UserID         string
	FolderID       string
	JobDescription string
	FileID         string
	Weights        scoring.AspectWeights
	UseDistilBERT  bool
}

// Analyze runs the same per-file path as a batch of one.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (scoring.Outcome, error) {
	outcomes, err := s.AnalyzeBatch(ctx, BatchCommand{
		UserID:         cmd.UserID,
		FolderID:       cmd.FolderID,
		JobDescription: cmd.JobDescription,
		FileIDs:        []string{cmd.FileID},
		Weights:        cmd.Weights,
		UseDistilBERT:  cmd.UseDistilBERT,
	})
	if err != nil {
		return scoring.Outcome{}, err
	}
	return outcomes[0], nil
}

// StoreJobDescription upserts the current job description of a folder and
// returns its id, or "" when persistence failed.
func (s *Service) StoreJobDescription(ctx context.Context, description, folderID, userID string) domain.JobDescriptionID {
	now := s.Clock.Now()
	id, err := s.JobDescriptions.Upsert(ctx, &domain.JobDescription{
		ID:          domain.JobDescriptionID(uuid.New().String()),
		FolderID:    folderID,
		UserID:      userID,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		log.Printf("storing job description failed: folder=%s user=%s err=%v", folderID, userID, err)
		return ""
	}
	return id
}

// LatestJobDescription returns the current job description for a folder,
// or nil when none exists.
func (s *Service) LatestJobDescription(ctx context.Context, folderID, userID string) (*domain.JobDescription, error) {
	return s.JobDescriptions.GetLatest(ctx, folderID, userID)
}

// ResultsForFolder lists stored analysis results of a folder.
func (s *Service) ResultsForFolder(ctx context.Context, folderID, userID string) ([]*domain.AnalysisResult, error) {
	return s.Results.ListByFolder(ctx, folderID, userID)
}

func (s *Service) storeJobDescription(ctx context.Context, cmd BatchCommand) domain.JobDescriptionID {
	return s.StoreJobDescription(ctx, cmd.JobDescription, cmd.FolderID, cmd.UserID)
}

// analyzeOne: fetch blob -> score -> fill gaps -> store. Storage failure is
// logged and does not taint the outcome the caller sees.
func (s *Service) analyzeOne(ctx context.Context, cmd BatchCommand, fileID string, jobDescriptionID domain.JobDescriptionID, weights scoring.AspectWeights) scoring.Outcome {
	file, err := s.Files.Get(ctx, cmd.UserID, fileID)
	if err != nil {
		out := scoring.Failure(fileID, scoring.CodeRetrievalExhausted, fmt.Sprintf("file not found: %v", err))
		out.FileID = fileID
		return out
	}

	blob, err := s.Blobs.Fetch(ctx, file.ObjectKey, file.Name)
	if err != nil {
		out := scoring.Failure(file.Name, scoring.CodeRetrievalExhausted, err.Error())
		out.FileID = fileID
		return out
	}

	out := s.Scorer.Score(ctx, scoring.ScoreRequest{
		Filename:       file.Name,
		Content:        blob.Data,
		JobDescription: cmd.JobDescription,
		FolderID:       cmd.FolderID,
		UserID:         cmd.UserID,
		FileID:         fileID,
		Weights:        weights,
		UseDistilBERT:  cmd.UseDistilBERT,
	})
	out.FileID = fileID
	if out.Failed() {
		return out
	}

	// The client already fills gaps, but results can reach this point via
	// other paths, so fill again before persisting.
	s.enrich(ctx, &out)
	scoring.ApplyFallbacks(&out)

	if err := s.storeResult(ctx, cmd.UserID, fileID, jobDescriptionID, &out); err != nil {
		log.Printf("storing analysis result failed: file=%s user=%s err=%v", fileID, cmd.UserID, err)
		// The scores are still good; flag the persistence gap without
		// tainting the outcome.
		if out.Metadata == nil {
			out.Metadata = map[string]any{}
		}
		out.Metadata["storageError"] = scoring.CodeStorageFailed
	}
	return out
}

// enrich asks the optional AI enricher for HR commentary when the scorer
// returned none. Errors only fall back to deterministic synthesis.
func (s *Service) enrich(ctx context.Context, out *scoring.Outcome) {
	if s.Enricher == nil || (out.HRData != nil && !out.HRData.Empty()) {
		return
	}
	hr, err := s.Enricher.HRCommentary(ctx, *out)
	if err != nil {
		log.Printf("hr enrichment failed, using deterministic fallback: file=%s err=%v", out.FileID, err)
		return
	}
	if hr != nil && !hr.Empty() {
		out.HRData = hr
	}
}

func (s *Service) storeResult(ctx context.Context, userID, fileID string, jobDescriptionID domain.JobDescriptionID, out *scoring.Outcome) error {
	now := s.Clock.Now()
	result := &domain.AnalysisResult{
		ID:               domain.ResultID(uuid.New().String()),
		FileID:           fileID,
		JobDescriptionID: jobDescriptionID,
		UserID:           userID,
		Score:            out.Score,
		MatchedKeywords:  out.MatchedKeywords,
		MissingKeywords:  out.MissingKeywords,
		AchievementBonus: out.AchievementBonus,
		AspectScores:     out.AspectScores,
		HRData:           out.HRData,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	// Candidate info is persisted only when the scorer actually supplied it.
	if out.CandidateInfo != nil && !out.CandidateInfo.Empty() {
		result.CandidateInfo = out.CandidateInfo
	}
	_, err := s.Results.Upsert(ctx, result)
	return err
}

// DeleteFileAnalysis removes the stored result of a file.
func (s *Service) DeleteFileAnalysis(ctx context.Context, fileID, userID string) error {
	return s.Results.DeleteByFile(ctx, fileID, userID)
}
