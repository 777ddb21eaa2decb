package workerproc

import (
	"context"
	"errors"
	"testing"

	"algomate-backend/internal/analyses"
)

type stubRunner struct {
	ran       []string
	requestID string
	err       error
}

func (s *stubRunner) RunJob(ctx context.Context, analysisID string) error {
	s.ran = append(s.ran, analysisID)
	s.requestID = analyses.RequestIDFromContext(ctx)
	return s.err
}

func TestHandleMessageRunsJob(t *testing.T) {
	runner := &stubRunner{}
	body := `{"analysisId":"job-1","requestId":"req-9","enqueuedAt":"2026-08-20T10:00:00Z","version":1}`

	if err := HandleMessage(context.Background(), runner, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(runner.ran) != 1 || runner.ran[0] != "job-1" {
		t.Fatalf("expected job-1 to run, got %v", runner.ran)
	}
	if runner.requestID != "req-9" {
		t.Fatalf("request id not threaded through context: %q", runner.requestID)
	}
}

func TestHandleMessageEmptyBody(t *testing.T) {
	err := HandleMessage(context.Background(), &stubRunner{}, "  ")
	var empty ErrEmptyBody
	if !errors.As(err, &empty) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
}

func TestHandleMessageDecodeFailure(t *testing.T) {
	err := HandleMessage(context.Background(), &stubRunner{}, "{not json")
	var decode ErrDecode
	if !errors.As(err, &decode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestHandleMessageMissingID(t *testing.T) {
	err := HandleMessage(context.Background(), &stubRunner{}, `{"requestId":"req-1"}`)
	var missing ErrMissingAnalysisID
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingAnalysisID, got %v", err)
	}
	if missing.RequestID != "req-1" {
		t.Fatalf("missing-id error should carry the request id, got %q", missing.RequestID)
	}
}

func TestHandleMessageProcessFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("db down")}
	err := HandleMessage(context.Background(), runner, `{"analysisId":"job-2","requestId":"req-2"}`)
	var proc ErrProcess
	if !errors.As(err, &proc) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if proc.AnalysisID != "job-2" {
		t.Fatalf("unexpected analysis id %q", proc.AnalysisID)
	}
}
