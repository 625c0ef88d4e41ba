package documents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/files"
)

type fakeFiles struct {
	saveErr error
	saved   []*files.File
	deleted []string
}

func (r *fakeFiles) Save(_ context.Context, f *files.File) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, f)
	return nil
}

func (r *fakeFiles) Get(_ context.Context, _, id string) (*files.File, error) {
	return &files.File{ID: id, FolderID: "folder-1", ObjectKey: "u/f/" + id + ".pdf"}, nil
}

func (r *fakeFiles) ListByFolder(context.Context, string, string) ([]*files.File, error) {
	return nil, nil
}

func (r *fakeFiles) Delete(_ context.Context, _, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeBlobs struct {
	puts    []string
	removed []string
}

func (b *fakeBlobs) Put(_ context.Context, key string, _ []byte, _ string) error {
	b.puts = append(b.puts, key)
	return nil
}

func (b *fakeBlobs) Fetch(context.Context, string, string) (*files.Blob, error) { return nil, nil }

func (b *fakeBlobs) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "https://example.com/signed", nil
}

func (b *fakeBlobs) Remove(_ context.Context, key string) error {
	b.removed = append(b.removed, key)
	return nil
}

type fakeResults struct {
	deleted []string
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
	return nil, nil
}

func (r *fakeResults) DeleteByFile(_ context.Context, fileID, _ string) error {
	r.deleted = append(r.deleted, fileID)
	return nil
}

func TestUpload(t *testing.T) {
	blobs := &fakeBlobs{}
	repo := &fakeFiles{}
	svc := &Service{Files: repo, Blobs: blobs, Results: &fakeResults{}}

	f, err := svc.Upload(context.Background(), UploadCommand{
		UserID:      "user-1",
		FolderID:    "folder-1",
		Filename:    "cv.pdf",
		Content:     []byte("resume"),
		ContentType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(f.ObjectKey, "user-1/folder-1/") || !strings.HasSuffix(f.ObjectKey, ".pdf") {
		t.Errorf("object key = %q", f.ObjectKey)
	}
	if f.Size != 6 {
		t.Errorf("size = %d, want 6", f.Size)
	}
	if len(blobs.puts) != 1 || len(repo.saved) != 1 {
		t.Errorf("puts = %d saves = %d, want 1 each", len(blobs.puts), len(repo.saved))
	}
}

func TestUploadCleansUpBlobOnSaveFailure(t *testing.T) {
	blobs := &fakeBlobs{}
	repo := &fakeFiles{saveErr: errors.New("db down")}
	svc := &Service{Files: repo, Blobs: blobs, Results: &fakeResults{}}

	_, err := svc.Upload(context.Background(), UploadCommand{
		UserID:   "user-1",
		FolderID: "folder-1",
		Filename: "cv.pdf",
		Content:  []byte("resume"),
	})
	if err == nil {
		t.Fatal("save failure not surfaced")
	}
	if len(blobs.removed) != 1 {
		t.Errorf("orphaned blob not removed: removed = %v", blobs.removed)
	}
}

func TestUploadRejectsEmpty(t *testing.T) {
	svc := &Service{Files: &fakeFiles{}, Blobs: &fakeBlobs{}, Results: &fakeResults{}}

	if _, err := svc.Upload(context.Background(), UploadCommand{Filename: "cv.pdf"}); err == nil {
		t.Error("empty content accepted")
	}
	if _, err := svc.Upload(context.Background(), UploadCommand{Content: []byte("x")}); err == nil {
		t.Error("empty filename accepted")
	}
}

func TestDeleteRemovesEverything(t *testing.T) {
	blobs := &fakeBlobs{}
	repo := &fakeFiles{}
	results := &fakeResults{}
	svc := &Service{Files: repo, Blobs: blobs, Results: results}

	f, err := svc.Delete(context.Background(), "user-1", "file-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ID != "file-9" {
		t.Errorf("returned file = %+v", f)
	}
	if len(blobs.removed) != 1 {
		t.Errorf("blob not removed")
	}
	if len(results.deleted) != 1 || results.deleted[0] != "file-9" {
		t.Errorf("linked analysis not removed: %v", results.deleted)
	}
	if len(repo.deleted) != 1 {
		t.Errorf("file row not removed")
	}
}
