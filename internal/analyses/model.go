package analyses

import "time"

// Status is the lifecycle state of an analysis job. Completed and failed
// are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Analysis is one end-to-end analysis job for a stored resume file.
type Analysis struct {
	ID            string
	UserID        string
	FilePath      string
	FileURL       string
	MimeType      string
	Status        Status
	Error         string
	ExtractedText string
	OCRConfidence float64
	Report        *Report
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
