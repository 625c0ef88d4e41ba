package reconcile

import (
	"context"
	"log"
	"sort"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
)

// SnapshotStore port: a disposable local mirror of recent batch results.
// Contents are never authoritative; dropping the store entirely only costs a
// remote round-trip.
type SnapshotStore interface {
	RecordBatch(ctx context.Context, userID, folderID string, outcomes []scoring.Outcome) error
	// AnalyzedFileIDs returns the snapshot set for the folder, or nil when
	// the snapshot belongs to a different folder.
	AnalyzedFileIDs(ctx context.Context, userID, folderID string) ([]string, error)
	RemoveFile(ctx context.Context, userID, folderID, fileID string) error
	LastBatch(ctx context.Context, userID string) ([]scoring.Outcome, error)
}

// Service reconciles "which files are analyzed" from the remote store and
// the local snapshot.
type Service struct {
	Results   domain.ResultRepository
	Snapshots SnapshotStore
}

// AnalyzedFileIDs returns the union of the remote query and the local
// snapshot for a folder. Neither source alone is authoritative: the remote
// query can lag a just-finished batch, the snapshot can be stale or gone.
// Source failures degrade to the other source rather than erroring.
func (s *Service) AnalyzedFileIDs(ctx context.Context, userID, folderID string) []string {
	set := make(map[string]bool)

	remote, err := s.Results.AnalyzedFileIDs(ctx, folderID, userID)
	if err != nil {
		log.Printf("remote analyzed-file query failed: folder=%s user=%s err=%v", folderID, userID, err)
	}
	for _, id := range remote {
		set[id] = true
	}

	local, err := s.Snapshots.AnalyzedFileIDs(ctx, userID, folderID)
	if err != nil {
		log.Printf("snapshot read failed: folder=%s user=%s err=%v", folderID, userID, err)
	}
	for _, id := range local {
		set[id] = true
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RecordBatch mirrors a finished batch into the snapshot store. Failures are
// logged only; the remote store already has the results.
func (s *Service) RecordBatch(ctx context.Context, userID, folderID string, outcomes []scoring.Outcome) {
	if err := s.Snapshots.RecordBatch(ctx, userID, folderID, outcomes); err != nil {
		log.Printf("snapshot write failed: folder=%s user=%s err=%v", folderID, userID, err)
	}
}

// ForgetFile drops a file from the snapshot after its analysis was deleted.
func (s *Service) ForgetFile(ctx context.Context, userID, folderID, fileID string) {
	if err := s.Snapshots.RemoveFile(ctx, userID, folderID, fileID); err != nil {
		log.Printf("snapshot remove failed: file=%s user=%s err=%v", fileID, userID, err)
	}
}

// LastBatch returns the most recent batch outcome list for the user, or nil.
func (s *Service) LastBatch(ctx context.Context, userID string) []scoring.Outcome {
	outcomes, err := s.Snapshots.LastBatch(ctx, userID)
	if err != nil {
		log.Printf("snapshot last-batch read failed: user=%s err=%v", userID, err)
		return nil
	}
	return outcomes
}
