package ats

import "context"

// JobDescriptionRepository port (interface untuk persistence)
type JobDescriptionRepository interface {
	// Upsert stores the job description for (folder, user), updating the
	// existing row when one exists, and returns its id.
	Upsert(ctx context.Context, jd *JobDescription) (JobDescriptionID, error)
	// GetLatest returns the current job description for (folder, user),
	// or nil when none exists.
	GetLatest(ctx context.Context, folderID, userID string) (*JobDescription, error)
}

// ResultRepository port
type ResultRepository interface {
	// Upsert stores the analysis result for (file, user), updating the
	// existing row when one exists, and returns its id.
	Upsert(ctx context.Context, r *AnalysisResult) (ResultID, error)
	GetByFile(ctx context.Context, fileID, userID string) (*AnalysisResult, error)
	ListByFolder(ctx context.Context, folderID, userID string) ([]*AnalysisResult, error)
	// AnalyzedFileIDs returns the ids of files in the folder that have an
	// analysis row linked to them.
	AnalyzedFileIDs(ctx context.Context, folderID, userID string) ([]string, error)
	DeleteByFile(ctx context.Context, fileID, userID string) error
}
