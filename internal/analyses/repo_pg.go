package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `
id, user_id, file_path, file_url, mime_type, processing_status, processing_error,
extracted_text, ocr_confidence, analysis, created_at, updated_at`

// Create inserts a new analysis job row.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO resume_analysis (
	id, user_id, file_path, file_url, mime_type, processing_status, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.FilePath,
		analysis.FileURL,
		analysis.MimeType,
		analysis.Status,
		analysis.CreatedAt,
		analysis.UpdatedAt,
	)
	return err
}

// GetByID returns an analysis by id.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT` + analysisColumns + `
FROM resume_analysis
WHERE id = $1
LIMIT 1`
	return scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
}

// FindLatestByUserFile returns the newest analysis row for a user's file.
func (r *PGRepo) FindLatestByUserFile(ctx context.Context, userID, filePath string) (Analysis, error) {
	const query = `
SELECT` + analysisColumns + `
FROM resume_analysis
WHERE user_id = $1 AND file_path = $2
ORDER BY created_at DESC
LIMIT 1`
	return scanAnalysis(r.DB.QueryRowContext(ctx, query, userID, filePath))
}

// UpdateStatus moves a job through its lifecycle. An empty errMsg leaves
// any previously recorded error untouched.
func (r *PGRepo) UpdateStatus(ctx context.Context, analysisID string, status Status, errMsg string) error {
	const query = `
UPDATE resume_analysis
SET processing_status = $1,
    processing_error = COALESCE(NULLIF($2::text, ''), processing_error),
    updated_at = now()
WHERE id = $3::uuid`
	res, err := r.DB.ExecContext(ctx, query, status, errMsg, analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveResults stores the extraction output and the full report.
func (r *PGRepo) SaveResults(ctx context.Context, analysisID string, extractedText string, confidence float64, report *Report) error {
	const query = `
UPDATE resume_analysis
SET extracted_text = $1,
    ocr_confidence = $2,
    analysis = $3::jsonb,
    updated_at = now()
WHERE id = $4::uuid`

	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, extractedText, confidence, payload, analysisID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertSummary writes the dashboard cache row for the user.
func (r *PGRepo) UpsertSummary(ctx context.Context, userID string, summary *CacheSummary) error {
	const query = `
INSERT INTO user_platform_data (user_id, platform, data, last_updated)
VALUES ($1, 'resume', $2::jsonb, now())
ON CONFLICT (user_id, platform)
DO UPDATE SET data = EXCLUDED.data, last_updated = now()`

	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query, userID, payload)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var processingError sql.NullString
	var extractedText sql.NullString
	var ocrConfidence sql.NullFloat64
	var analysisJSON sql.NullString

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FilePath,
		&a.FileURL,
		&a.MimeType,
		&a.Status,
		&processingError,
		&extractedText,
		&ocrConfidence,
		&analysisJSON,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	if processingError.Valid {
		a.Error = processingError.String
	}
	if extractedText.Valid {
		a.ExtractedText = extractedText.String
	}
	if ocrConfidence.Valid {
		a.OCRConfidence = ocrConfidence.Float64
	}
	if analysisJSON.Valid {
		report := NewReport()
		if err := json.Unmarshal([]byte(analysisJSON.String), report); err == nil {
			report.reconcile()
			a.Report = report
		}
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
