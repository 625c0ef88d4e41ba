package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
)

type JobDescriptionRepository struct{ db *sql.DB }

func NewJobDescriptionRepository(db *sql.DB) *JobDescriptionRepository {
	return &JobDescriptionRepository{db: db}
}

// Upsert keeps at most one row per (folder_id, user_id) via ON CONFLICT;
// RETURNING id hands back the surviving row's id.
func (r *JobDescriptionRepository) Upsert(ctx context.Context, jd *domain.JobDescription) (domain.JobDescriptionID, error) {
	now := jd.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}
	created := jd.CreatedAt
	if created.IsZero() {
		created = now
	}

	const q = `
INSERT INTO job_descriptions (id, folder_id, user_id, description, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (folder_id, user_id) DO UPDATE SET
 description = EXCLUDED.description,
 updated_at = EXCLUDED.updated_at
RETURNING id;`
	var id domain.JobDescriptionID
	if err := r.db.QueryRowContext(ctx, q,
		jd.ID, stringOrDash(jd.FolderID), stringOrDash(jd.UserID), jd.Description, created, now,
	).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// GetLatest by folder + user; nil when none exists
func (r *JobDescriptionRepository) GetLatest(ctx context.Context, folderID, userID string) (*domain.JobDescription, error) {
	const q = `
SELECT id, folder_id, user_id, description, created_at, updated_at
FROM job_descriptions
WHERE folder_id=$1 AND user_id=$2
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
