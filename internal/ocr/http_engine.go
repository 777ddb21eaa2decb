package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// HTTPEngine recognizes text through a vision-OCR HTTP endpoint
// (a tesseract sidecar or a hosted vision API). The request carries the
// image as a base64 data URI; the response lists words with confidences.
type HTTPEngine struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPEngine constructs an HTTP-backed OCR engine.
func NewHTTPEngine(endpoint, apiKey string) (*HTTPEngine, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("OCR_ENDPOINT is required")
	}
	return &HTTPEngine{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

type recognizeRequest struct {
	Image        string `json:"image"`
	LanguageHint string `json:"language_hint"`
}

type recognizeResponse struct {
	Words []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"words"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Recognize submits the image and returns the recognized words.
func (e *HTTPEngine) Recognize(ctx context.Context, image []byte) ([]Word, error) {
	payload, err := json.Marshal(recognizeRequest{
		Image:        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(image),
		LanguageHint: "en",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ocr response read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr provider status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("ocr response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("ocr provider error: %s", parsed.Error.Message)
	}

	words := make([]Word, 0, len(parsed.Words))
	for _, w := range parsed.Words {
		words = append(words, Word{Text: w.Text, Confidence: w.Confidence})
	}
	return words, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ Engine = (*HTTPEngine)(nil)
