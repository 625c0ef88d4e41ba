package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/files"
)

// Service implements use-cases untuk dokumen resume: upload, download link,
// dan delete. Analysis rows linked to a deleted file are removed with it.
type Service struct {
	Files   files.Repository
	Blobs   files.BlobStore
	Results domain.ResultRepository
}

// Command untuk upload
type UploadCommand struct {
	UserID      string
	FolderID    string
	Filename    string
	Content     []byte
	ContentType string
}

// Upload stores the blob and its metadata row, returning the new file.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) (*files.File, error) {
	if len(cmd.Content) == 0 {
		return nil, fmt.Errorf("file content is empty")
	}
	if cmd.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	id := uuid.New().String()
	key := fmt.Sprintf("%s/%s/%s%s", cmd.UserID, cmd.FolderID, id, filepath.Ext(cmd.Filename))

	if err := s.Blobs.Put(ctx, key, cmd.Content, cmd.ContentType); err != nil {
		return nil, fmt.Errorf("uploading blob: %w", err)
	}

	f := &files.File{
		ID:          id,
		FolderID:    cmd.FolderID,
		UserID:      cmd.UserID,
		Name:        cmd.Filename,
		ObjectKey:   key,
		Size:        int64(len(cmd.Content)),
		ContentType: cmd.ContentType,
		UploadedAt:  time.Now(),
	}
	if err := s.Files.Save(ctx, f); err != nil {
		// blob sudah terupload; hapus lagi supaya tidak jadi orphan
		_ = s.Blobs.Remove(ctx, key)
		return nil, fmt.Errorf("saving file row: %w", err)
	}
	return f, nil
}

// DownloadURL returns a short-lived presigned link for the file.
func (s *Service) DownloadURL(ctx context.Context, userID, fileID string, expiry time.Duration) (string, error) {
	f, err := s.Files.Get(ctx, userID, fileID)
	if err != nil {
		return "", err
	}
	return s.Blobs.PresignGet(ctx, f.ObjectKey, expiry)
}

// Get returns one file row.
func (s *Service) Get(ctx context.Context, userID, fileID string) (*files.File, error) {
	return s.Files.Get(ctx, userID, fileID)
}

// ListFolder returns the files of a folder.
func (s *Service) ListFolder(ctx context.Context, userID, folderID string) ([]*files.File, error) {
	return s.Files.ListByFolder(ctx, userID, folderID)
}

// Delete removes blob, file row, and any linked analysis result.
func (s *Service) Delete(ctx context.Context, userID, fileID string) (*files.File, error) {
	f, err := s.Files.Get(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.Blobs.Remove(ctx, f.ObjectKey); err != nil {
		return nil, fmt.Errorf("removing blob: %w", err)
	}
	if err := s.Results.DeleteByFile(ctx, fileID, userID); err != nil {
		return nil, fmt.Errorf("removing linked analysis: %w", err)
	}
	if err := s.Files.Delete(ctx, userID, fileID); err != nil {
		return nil, err
	}
	return f, nil
}
