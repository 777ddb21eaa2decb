package analyses

import "context"

// Repo defines persistence operations for analysis jobs and the derived
// dashboard cache. Implementations must map "no such row" to ErrNotFound.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	FindLatestByUserFile(ctx context.Context, userID, filePath string) (Analysis, error)
	UpdateStatus(ctx context.Context, analysisID string, status Status, errMsg string) error
	SaveResults(ctx context.Context, analysisID string, extractedText string, confidence float64, report *Report) error
	UpsertSummary(ctx context.Context, userID string, summary *CacheSummary) error
}
