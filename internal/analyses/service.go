package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"algomate-backend/internal/extract"
	"algomate-backend/internal/queue"
	"algomate-backend/internal/shared/metrics"
	"algomate-backend/internal/shared/telemetry"
)

// Service coordinates the analysis pipeline: upload registration, job
// start, background processing and status reads.
type Service struct {
	repo      Repo
	extractor *extract.Extractor
	orch      *Orchestrator
	queue     queue.Client

	// schedule hands a job off for background processing. Tests replace
	// it to run jobs synchronously.
	schedule func(analysis Analysis)
}

// NewService constructs the pipeline service. A nil queue client means
// jobs run as in-process background goroutines.
func NewService(repo Repo, extractor *extract.Extractor, orch *Orchestrator, q queue.Client) *Service {
	s := &Service{
		repo:      repo,
		extractor: extractor,
		orch:      orch,
		queue:     q,
	}
	s.schedule = s.dispatch
	return s
}

// UploadInput registers a stored resume file for later analysis.
type UploadInput struct {
	UserID   string
	FilePath string
	FileURL  string
	MimeType string
}

// RegisterUpload creates a pending job record for an uploaded file.
func (s *Service) RegisterUpload(ctx context.Context, in UploadInput) (Analysis, error) {
	if in.UserID == "" || in.FilePath == "" {
		return Analysis{}, errors.New("user id and file path are required")
	}
	now := time.Now().UTC()
	analysis := Analysis{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		FilePath:  in.FilePath,
		FileURL:   in.FileURL,
		MimeType:  in.MimeType,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}
	return analysis, nil
}

// StartInput identifies which stored file to analyze.
type StartInput struct {
	FileURL  string
	FilePath string
	UserID   string
}

// StartResult is what the trigger surface returns immediately.
type StartResult struct {
	JobID  string
	Status Status
}

// Start resolves the newest job record for (user, file), schedules the
// pipeline in the background and returns at once. A missing record is a
// caller error; nothing is scheduled for it.
func (s *Service) Start(ctx context.Context, in StartInput) (StartResult, error) {
	if in.UserID == "" || in.FilePath == "" {
		return StartResult{}, errors.New("user id and file path are required")
	}

	analysis, err := s.repo.FindLatestByUserFile(ctx, in.UserID, in.FilePath)
	if err != nil {
		return StartResult{}, err
	}
	if in.FileURL != "" {
		analysis.FileURL = in.FileURL
	}

	s.schedule(analysis)

	return StartResult{JobID: analysis.ID, Status: StatusProcessing}, nil
}

// Status reads a job's lifecycle state. Side-effect free.
func (s *Service) Status(ctx context.Context, analysisID string) (Analysis, error) {
	return s.repo.GetByID(ctx, analysisID)
}

// dispatch sends the job to the queue when one is configured, otherwise
// runs it as a fire-and-forget goroutine. A failed enqueue degrades to
// the goroutine path so the job is not lost.
func (s *Service) dispatch(analysis Analysis) {
	if s.queue != nil {
		msg := queue.Message{
			AnalysisID: analysis.ID,
			RequestID:  uuid.NewString(),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.queue.Send(context.Background(), msg)
		if err == nil {
			return
		}
		telemetry.Warn("queue send failed, running job in process", map[string]any{
			"analysis_id": analysis.ID,
			"error":       err.Error(),
		})
	}
	go s.process(context.Background(), analysis)
}

// RunJob loads the job record and processes it. Queue consumers call
// this with the id carried in the message.
func (s *Service) RunJob(ctx context.Context, analysisID string) error {
	analysis, err := s.repo.GetByID(ctx, analysisID)
	if err != nil {
		return err
	}
	s.process(ctx, analysis)
	return nil
}

// process is the job state machine: processing, extract, analyze,
// persist, completed. Extraction failures and escaped panics drive the
// job to failed; AI-stage degradation never does.
func (s *Service) process(ctx context.Context, analysis Analysis) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("job panicked", map[string]any{
				"analysis_id": analysis.ID,
				"panic":       fmt.Sprint(r),
			})
			s.setStatus(ctx, analysis.ID, StatusFailed, failureMessage(fmt.Sprintf("resume processing failed: %v", r)))
			metrics.IncJobFailed()
		}
	}()

	started := time.Now()
	metrics.IncJobStarted()
	telemetry.Info("job started", map[string]any{
		"analysis_id": analysis.ID,
		"user_id":     analysis.UserID,
		"request_id":  RequestIDFromContext(ctx),
	})

	s.setStatus(ctx, analysis.ID, StatusProcessing, "")

	res, err := s.extractor.Extract(ctx, analysis.FileURL, analysis.FilePath, analysis.MimeType)
	if err != nil {
		s.setStatus(ctx, analysis.ID, StatusFailed, failureMessage(fmt.Sprintf("resume processing failed: %v", err)))
		metrics.IncJobFailed()
		telemetry.Error("job failed", map[string]any{
			"analysis_id": analysis.ID,
			"stage":       "extract",
			"error":       err.Error(),
		})
		return
	}
	metrics.ObserveExtractionDurationMs(res.ElapsedSeconds * 1000)

	report := s.orch.Analyze(ctx, res.Text)

	if err := s.repo.SaveResults(ctx, analysis.ID, res.Text, res.Confidence, report); err != nil {
		telemetry.Warn("save results failed", map[string]any{
			"analysis_id": analysis.ID,
			"error":       err.Error(),
		})
	}
	if err := s.repo.UpsertSummary(ctx, analysis.UserID, BuildSummary(analysis.ID, report)); err != nil {
		telemetry.Warn("summary upsert failed", map[string]any{
			"analysis_id": analysis.ID,
			"error":       err.Error(),
		})
	}

	s.setStatus(ctx, analysis.ID, StatusCompleted, "")
	metrics.IncJobCompleted()
	metrics.ObserveJobDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("job completed", map[string]any{
		"analysis_id":     analysis.ID,
		"ocr_confidence":  res.Confidence,
		"extract_seconds": res.ElapsedSeconds,
	})
}

const maxErrorChars = 500

// failureMessage flattens an error to a single bounded line suitable
// for the persisted processing_error column.
func failureMessage(msg string) string {
	flat := strings.Join(strings.Fields(msg), " ")
	return truncateAtRune(flat, maxErrorChars)
}

// setStatus writes a lifecycle transition. A lost write is logged and
// swallowed so persistence hiccups cannot mask the pipeline outcome.
func (s *Service) setStatus(ctx context.Context, analysisID string, status Status, errMsg string) {
	if err := s.repo.UpdateStatus(ctx, analysisID, status, errMsg); err != nil {
		telemetry.Warn("status update lost", map[string]any{
			"analysis_id": analysisID,
			"status":      string(status),
			"error":       err.Error(),
		})
	}
}
