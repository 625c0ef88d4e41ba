package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
)

type ResultRepository struct{ db *sql.DB }

func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Upsert keeps at most one row per (file_id, user_id); re-analysis
// overwrites in place.
func (r *ResultRepository) Upsert(ctx context.Context, res *domain.AnalysisResult) (domain.ResultID, error) {
	now := res.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}
	created := res.CreatedAt
	if created.IsZero() {
		created = now
	}

	const q = `
INSERT INTO analysis_results
  (id, file_id, job_description_id, user_id, match_score, matched_keywords,
   missing_keywords, achievement_bonus, aspect_scores, hr_data, candidate_info,
   created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (file_id, user_id) DO UPDATE SET
 job_description_id = EXCLUDED.job_description_id,
 match_score = EXCLUDED.match_score,
 matched_keywords = EXCLUDED.matched_keywords,
 missing_keywords = EXCLUDED.missing_keywords,
 achievement_bonus = EXCLUDED.achievement_bonus,
 aspect_scores = EXCLUDED.aspect_scores,
 hr_data = EXCLUDED.hr_data,
 candidate_info = EXCLUDED.candidate_info,
 updated_at = EXCLUDED.updated_at
RETURNING id;`
	var id domain.ResultID
	if err := r.db.QueryRowContext(ctx, q,
		res.ID,
		stringOrDash(res.FileID),
		res.JobDescriptionID,
		stringOrDash(res.UserID),
		res.Score,
		jsonOrEmptyArray(res.MatchedKeywords),
		jsonOrEmptyArray(res.MissingKeywords),
		res.AchievementBonus,
		jsonOrEmptyObject(res.AspectScores),
		nullableJSON(res.HRData),
		nullableJSON(res.CandidateInfo),
		created,
		now,
	).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// GetByFile returns the analysis row for (file, user), nil when none exists
func (r *ResultRepository) GetByFile(ctx context.Context, fileID, userID string) (*domain.AnalysisResult, error) {
	const q = `
SELECT id, file_id, job_description_id, user_id, match_score, matched_keywords,
       missing_keywords, achievement_bonus, aspect_scores, hr_data, candidate_info,
       created_at, updated_at
FROM analysis_results
WHERE file_id=$1 AND user_id=$2
LIMIT 1;`
	res, err := scanResult(r.db.QueryRowContext(ctx, q, fileID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// ListByFolder returns every analysis row linked to a file in the folder,
// newest first.
func (r *ResultRepository) ListByFolder(ctx context.Context, folderID, userID string) ([]*domain.AnalysisResult, error) {
	const q = `
SELECT r.id, r.file_id, r.job_description_id, r.user_id, r.match_score,
       r.matched_keywords, r.missing_keywords, r.achievement_bonus,
       r.aspect_scores, r.hr_data, r.candidate_info, r.created_at, r.updated_at
FROM analysis_results r
JOIN files f ON f.id = r.file_id AND f.user_id = r.user_id
WHERE f.folder_id=$1 AND r.user_id=$2
ORDER BY r.updated_at DESC;`
	rows, err := r.db.QueryContext(ctx, q, folderID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AnalysisResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// AnalyzedFileIDs returns ids of files in the folder that already carry an
// analysis row.
func (r *ResultRepository) AnalyzedFileIDs(ctx context.Context, folderID, userID string) ([]string, error) {
	const q = `
SELECT r.file_id
FROM analysis_results r
JOIN files f ON f.id = r.file_id AND f.user_id = r.user_id
WHERE f.folder_id=$1 AND r.user_id=$2;`
	rows, err := r.db.QueryContext(ctx, q, folderID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ResultRepository) DeleteByFile(ctx context.Context, fileID, userID string) error {
	const q = `DELETE FROM analysis_results WHERE file_id=$1 AND user_id=$2;`
	_, err := r.db.ExecContext(ctx, q, fileID, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*domain.AnalysisResult, error) {
	var (
		res           domain.AnalysisResult
		matched       string
		missing       string
		aspects       string
		hrData        sql.NullString
		candidateInfo sql.NullString
	)
	if err := row.Scan(
		&res.ID, &res.FileID, &res.JobDescriptionID, &res.UserID, &res.Score,
		&matched, &missing, &res.AchievementBonus, &aspects,
		&hrData, &candidateInfo, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(matched), &res.MatchedKeywords); err != nil {
		res.MatchedKeywords = []string{}
	}
	if err := json.Unmarshal([]byte(missing), &res.MissingKeywords); err != nil {
		res.MissingKeywords = []string{}
	}
	if err := json.Unmarshal([]byte(aspects), &res.AspectScores); err != nil {
		res.AspectScores = map[string]float64{}
	}
	if hrData.Valid {
		var hd domain.HRData
		if err := json.Unmarshal([]byte(hrData.String), &hd); err == nil {
			res.HRData = &hd
		}
	}
	if candidateInfo.Valid {
		var ci domain.CandidateInfo
		if err := json.Unmarshal([]byte(candidateInfo.String), &ci); err == nil && !ci.Empty() {
			res.CandidateInfo = &ci
		}
	}
	return &res, nil
}
