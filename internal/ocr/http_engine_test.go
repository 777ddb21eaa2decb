package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecognizeParsesWords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req recognizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.HasPrefix(req.Image, "data:application/octet-stream;base64,") {
			t.Errorf("expected base64 data URI, got %q", req.Image[:40])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"words": []map[string]any{
				{"text": "Senior", "confidence": 91.5},
				{"text": "Engineer", "confidence": 88.0},
			},
		})
	}))
	defer srv.Close()

	engine, err := NewHTTPEngine(srv.URL, "test-key")
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	words, err := engine.Recognize(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47})
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Text != "Senior" || words[0].Confidence != 91.5 {
		t.Fatalf("unexpected first word %+v", words[0])
	}
}

func TestRecognizeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	engine, err := NewHTTPEngine(srv.URL, "")
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.Recognize(context.Background(), []byte("img")); err == nil {
		t.Fatal("expected error for provider failure")
	}
}

func TestNewHTTPEngineRequiresEndpoint(t *testing.T) {
	if _, err := NewHTTPEngine("  ", "key"); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}
