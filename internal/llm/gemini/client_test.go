package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"algomate-backend/internal/llm"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient("test-key", "gemini-1.5-flash")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	c.apiURL = url
	return c
}

func TestCompleteReturnsCandidateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens != 4096 {
			t.Errorf("unexpected generation config %+v", req.GenerationConfig)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": `{"skills"`},
					{"text": `: {}}`},
				}}},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	text, err := client.Complete(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != `{"skills": {}}` {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestCompleteMapsDeadlineToTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, "analyze this")
	if !errors.Is(err, llm.ErrCompletionTimeout) {
		t.Fatalf("expected ErrCompletionTimeout, got %v", err)
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if _, err := client.Complete(context.Background(), "analyze this"); err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", "gemini-1.5-flash"); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
