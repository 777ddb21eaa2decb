package analyses

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
// It backs tests and local runs without a database.
type MemoryRepo struct {
	mu        sync.RWMutex
	byID      map[string]Analysis
	summaries map[string]*CacheSummary
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:      make(map[string]Analysis),
		summaries: make(map[string]*CacheSummary),
	}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[analysis.ID] = analysis
	return nil
}

// GetByID returns an analysis by its id.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// FindLatestByUserFile returns the newest analysis for (user, file path).
func (r *MemoryRepo) FindLatestByUserFile(ctx context.Context, userID, filePath string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest Analysis
	found := false
	for _, a := range r.byID {
		if a.UserID != userID || a.FilePath != filePath {
			continue
		}
		if !found || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
			found = true
		}
	}
	if !found {
		return Analysis{}, ErrNotFound
	}
	return latest, nil
}

// UpdateStatus moves the job through its lifecycle.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, analysisID string, status Status, errMsg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.Status = status
	if errMsg != "" {
		analysis.Error = errMsg
	}
	analysis.UpdatedAt = time.Now().UTC()
	r.byID[analysisID] = analysis
	return nil
}

// SaveResults stores the extraction output and the full report.
func (r *MemoryRepo) SaveResults(ctx context.Context, analysisID string, extractedText string, confidence float64, report *Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	analysis.ExtractedText = extractedText
	analysis.OCRConfidence = confidence
	analysis.Report = report
	analysis.UpdatedAt = time.Now().UTC()
	r.byID[analysisID] = analysis
	return nil
}

// UpsertSummary stores the dashboard cache entry for the user.
func (r *MemoryRepo) UpsertSummary(ctx context.Context, userID string, summary *CacheSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[userID] = summary
	return nil
}

// SummaryFor returns the cached summary for a user, nil when absent.
func (r *MemoryRepo) SummaryFor(userID string) *CacheSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summaries[userID]
}

var _ Repo = (*MemoryRepo)(nil)
