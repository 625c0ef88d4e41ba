package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
)

type JobDescriptionRepository struct {
	db *sql.DB
}

func NewJobDescriptionRepository(db *sql.DB) *JobDescriptionRepository {
	return &JobDescriptionRepository{db: db}
}

// Upsert keeps at most one row per (folder_id, user_id): lookup-then-update,
// insert only when no current row exists. Returns the id of the row that now
// holds the description.
func (r *JobDescriptionRepository) Upsert(ctx context.Context, jd *domain.JobDescription) (domain.JobDescriptionID, error) {
	existing, err := r.GetLatest(ctx, jd.FolderID, jd.UserID)
	if err != nil {
		return "", err
	}

	now := jd.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}

	if existing != nil {
		const q = `
UPDATE job_descriptions
SET description = ?, updated_at = ?
WHERE id = ?;`
		if _, err := r.db.ExecContext(ctx, q, jd.Description, now, existing.ID); err != nil {
			return "", err
		}
		return existing.ID, nil
	}

	const q = `
INSERT INTO job_descriptions (id, folder_id, user_id, description, created_at, updated_at)
VALUES (?,?,?,?,?,?);`
	created := jd.CreatedAt
	if created.IsZero() {
		created = now
	}
	if _, err := r.db.ExecContext(ctx, q,
		jd.ID, stringOrDash(jd.FolderID), stringOrDash(jd.UserID), jd.Description, created, now,
	); err != nil {
		return "", err
	}
	return jd.ID, nil
}

// GetLatest by folder + user; nil when none exists
func (r *JobDescriptionRepository) GetLatest(ctx context.Context, folderID, userID string) (*domain.JobDescription, error) {
	const q = `
SELECT id, folder_id, user_id, description, created_at, updated_at
FROM job_descriptions
WHERE folder_id=? AND user_id=?
ORDER BY updated_at DESC
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, folderID, userID)

	var jd domain.JobDescription
	if err := row.Scan(&jd.ID, &jd.FolderID, &jd.UserID, &jd.Description, &jd.CreatedAt, &jd.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &jd, nil
}
