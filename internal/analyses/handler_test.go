package analyses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func noopService(repo Repo) *Service {
	svc := NewService(repo, nil, NewOrchestrator(nil), nil)
	svc.schedule = func(a Analysis) {}
	return svc
}

func TestStartAnalysisEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	svc := noopService(repo)
	up, err := svc.RegisterUpload(context.Background(), UploadInput{
		UserID: "user-1", FilePath: "resumes/cv.pdf", FileURL: "https://files/cv.pdf", MimeType: "pdf",
	})
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	r := newTestRouter(svc)

	w := perform(r, http.MethodPost, "/api/v1/analyze-resume",
		`{"file_url":"https://files/cv.pdf","file_path":"resumes/cv.pdf","user_id":"user-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["analysis_id"] != up.ID || resp["status"] != "processing" {
		t.Fatalf("unexpected response %v", resp)
	}
}

func TestStartAnalysisUnknownFileIs404(t *testing.T) {
	r := newTestRouter(noopService(NewMemoryRepo()))
	w := perform(r, http.MethodPost, "/api/v1/analyze-resume",
		`{"file_path":"missing.pdf","user_id":"user-1"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestStartAnalysisValidation(t *testing.T) {
	r := newTestRouter(noopService(NewMemoryRepo()))
	w := perform(r, http.MethodPost, "/api/v1/analyze-resume", `{"file_path":"cv.pdf"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing user_id, got %d", w.Code)
	}
}

func TestAnalysisStatusEndpoint(t *testing.T) {
	repo := NewMemoryRepo()
	svc := noopService(repo)
	up, err := svc.RegisterUpload(context.Background(), UploadInput{
		UserID: "user-1", FilePath: "cv.pdf", FileURL: "https://files/cv.pdf", MimeType: "pdf",
	})
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	if err := repo.UpdateStatus(context.Background(), up.ID, StatusFailed, "resume processing failed: boom"); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	r := newTestRouter(svc)

	w := perform(r, http.MethodGet, "/api/v1/analysis-status/"+up.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "failed" || resp["error"] != "resume processing failed: boom" {
		t.Fatalf("unexpected response %v", resp)
	}
}

func TestAnalysisStatusNotFound(t *testing.T) {
	r := newTestRouter(noopService(NewMemoryRepo()))
	w := perform(r, http.MethodGet, "/api/v1/analysis-status/unknown-id", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAnalysisStatusPollThrottled(t *testing.T) {
	repo := NewMemoryRepo()
	svc := noopService(repo)
	up, err := svc.RegisterUpload(context.Background(), UploadInput{
		UserID: "user-1", FilePath: "cv.pdf", FileURL: "", MimeType: "pdf",
	})
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	r := newTestRouter(svc)

	path := "/api/v1/analysis-status/" + up.ID
	if w := perform(r, http.MethodGet, path, ""); w.Code != http.StatusOK {
		t.Fatalf("first poll expected 200, got %d", w.Code)
	}
	w := perform(r, http.MethodGet, path, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("rapid second poll expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("throttled response must carry Retry-After")
	}
}

func TestRegisterUploadEndpoint(t *testing.T) {
	r := newTestRouter(noopService(NewMemoryRepo()))
	w := perform(r, http.MethodPost, "/api/v1/resumes",
		`{"user_id":"user-1","file_path":"resumes/cv.pdf","file_url":"https://files/cv.pdf","mime_type":"pdf"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "pending" || resp["analysis_id"] == "" {
		t.Fatalf("unexpected response %v", resp)
	}
}
