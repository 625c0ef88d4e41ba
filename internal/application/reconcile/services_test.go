package reconcile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
)

type fakeResults struct {
	ids []string
	err error
}

func (r *fakeResults) Upsert(context.Context, *domain.AnalysisResult) (domain.ResultID, error) {
	return "", nil
}

func (r *fakeResults) GetByFile(context.Context, string, string) (*domain.AnalysisResult, error) {
	return nil, nil
}

func (r *fakeResults) ListByFolder(context.Context, string, string) ([]*domain.AnalysisResult, error) {
	return nil, nil
}

func (r *fakeResults) AnalyzedFileIDs(context.Context, string, string) ([]string, error) {
	return r.ids, r.err
}

func (r *fakeResults) DeleteByFile(context.Context, string, string) error { return nil }

type fakeSnapshots struct {
	ids      []string
	err      error
	recorded []scoring.Outcome
	removed  []string
}

func (s *fakeSnapshots) RecordBatch(_ context.Context, _, _ string, outcomes []scoring.Outcome) error {
	if s.err != nil {
		return s.err
	}
	s.recorded = outcomes
	return nil
}

func (s *fakeSnapshots) AnalyzedFileIDs(context.Context, string, string) ([]string, error) {
	return s.ids, s.err
}

func (s *fakeSnapshots) RemoveFile(_ context.Context, _, _, fileID string) error {
	s.removed = append(s.removed, fileID)
	return s.err
}

func (s *fakeSnapshots) LastBatch(context.Context, string) ([]scoring.Outcome, error) {
	return nil, s.err
}

func TestAnalyzedFileIDsUnion(t *testing.T) {
	tests := []struct {
		name   string
		remote []string
		local  []string
		want   []string
	}{
		{"overlapping", []string{"a", "b"}, []string{"b", "c"}, []string{"a", "b", "c"}},
		{"remote only", []string{"a"}, nil, []string{"a"}},
		{"local only", nil, []string{"z"}, []string{"z"}},
		{"both empty", nil, nil, []string{}},
		{"duplicates collapse", []string{"a", "a"}, []string{"a"}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{
				Results:   &fakeResults{ids: tt.remote},
				Snapshots: &fakeSnapshots{ids: tt.local},
			}
			got := svc.AnalyzedFileIDs(context.Background(), "user-1", "folder-1")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("union = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyzedFileIDsDegradesOnRemoteFailure(t *testing.T) {
	svc := &Service{
		Results:   &fakeResults{err: errors.New("db down")},
		Snapshots: &fakeSnapshots{ids: []string{"b", "a"}},
	}
	got := svc.AnalyzedFileIDs(context.Background(), "user-1", "folder-1")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %v, want snapshot ids sorted", got)
	}
}

func TestAnalyzedFileIDsDegradesOnSnapshotFailure(t *testing.T) {
	svc := &Service{
		Results:   &fakeResults{ids: []string{"a"}},
		Snapshots: &fakeSnapshots{err: errors.New("redis down")},
	}
	got := svc.AnalyzedFileIDs(context.Background(), "user-1", "folder-1")
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("got %v, want remote ids", got)
	}
}

func TestRecordBatchToleratesSnapshotFailure(t *testing.T) {
	svc := &Service{
		Results:   &fakeResults{},
		Snapshots: &fakeSnapshots{err: errors.New("redis down")},
	}
	// must not panic or error; results already live remotely
	svc.RecordBatch(context.Background(), "user-1", "folder-1", []scoring.Outcome{{FileID: "a"}})
}

func TestForgetFile(t *testing.T) {
	snaps := &fakeSnapshots{}
	svc := &Service{Results: &fakeResults{}, Snapshots: snaps}

	svc.ForgetFile(context.Background(), "user-1", "folder-1", "file-9")
	if !reflect.DeepEqual(snaps.removed, []string{"file-9"}) {
		t.Errorf("removed = %v, want [file-9]", snaps.removed)
	}
}
