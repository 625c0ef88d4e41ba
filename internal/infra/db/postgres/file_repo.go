package postgres

import (
	"context"
	"database/sql"

	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/files"
)

type FileRepository struct{ db *sql.DB }

func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Save(ctx context.Context, f *files.File) error {
	const q = `
INSERT INTO files (id, folder_id, user_id, name, object_key, size, content_type, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`
	_, err := r.db.ExecContext(ctx, q,
		f.ID, stringOrDash(f.FolderID), stringOrDash(f.UserID),
		f.Name, f.ObjectKey, f.Size, stringOrDash(f.ContentType), f.UploadedAt,
	)
	return err
}

func (r *FileRepository) Get(ctx context.Context, userID, id string) (*files.File, error) {
	const q = `
SELECT id, folder_id, user_id, name, object_key, size, content_type, uploaded_at
FROM files
WHERE id=$1 AND user_id=$2
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, id, userID)

	var f files.File
	if err := row.Scan(&f.ID, &f.FolderID, &f.UserID, &f.Name, &f.ObjectKey, &f.Size, &f.ContentType, &f.UploadedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FileRepository) ListByFolder(ctx context.Context, userID, folderID string) ([]*files.File, error) {
	const q = `
SELECT id, folder_id, user_id, name, object_key, size, content_type, uploaded_at
FROM files
WHERE folder_id=$1 AND user_id=$2
ORDER BY uploaded_at DESC;`
	rows, err := r.db.QueryContext(ctx, q, folderID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*files.File
	for rows.Next() {
		var f files.File
		if err := rows.Scan(&f.ID, &f.FolderID, &f.UserID, &f.Name, &f.ObjectKey, &f.Size, &f.ContentType, &f.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (r *FileRepository) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM files WHERE id=$1 AND user_id=$2;`
	_, err := r.db.ExecContext(ctx, q, id, userID)
	return err
}
