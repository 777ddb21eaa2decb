package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"algomate-backend/internal/ocr"
	"algomate-backend/internal/shared/storage/object"
	"algomate-backend/internal/shared/telemetry"
)

const (
	mediaPDF  = "pdf"
	mediaJPEG = "jpeg"
	mediaJPG  = "jpg"
	mediaPNG  = "png"
)

// Fetcher downloads a source document by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Result holds one extraction outcome. A job produces at most one.
type Result struct {
	Text           string
	Confidence     float64
	ElapsedSeconds float64
}

// Extractor turns uploaded documents into plain text. PDFs are read
// directly; images go through the OCR engine. Store, when set, receives
// a .extracted.txt checkpoint next to the source key so a crash after
// extraction does not force full reprocessing.
type Extractor struct {
	Fetch Fetcher
	OCR   ocr.Engine
	Store object.ObjectStore
}

// Extract validates the media type, loads the document and pulls text
// from it. Unsupported media types fail before any fetch happens. The
// source is downloaded when a URL is given, otherwise opened from the
// object store under its file path.
func (e *Extractor) Extract(ctx context.Context, fileURL, filePath, mediaType string) (Result, error) {
	started := time.Now()

	normalized := normalizeMediaType(mediaType)
	if !supported(normalized) {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}

	raw, err := e.load(ctx, fileURL, filePath)
	if err != nil {
		return Result{}, &ExtractionError{MediaType: normalized, Err: err}
	}

	var (
		text       string
		confidence float64
	)
	switch normalized {
	case mediaPDF:
		text, err = extractPDF(raw)
	default:
		text, confidence, err = e.extractImage(ctx, raw)
	}
	if err != nil {
		return Result{}, &ExtractionError{MediaType: normalized, Err: err}
	}

	// Surrounding whitespace would inflate the length confidence.
	text = strings.TrimSpace(text)
	if normalized == mediaPDF {
		confidence = pdfConfidence(text)
	}

	e.checkpoint(ctx, filePath, text)

	return Result{
		Text:           text,
		Confidence:     confidence,
		ElapsedSeconds: time.Since(started).Seconds(),
	}, nil
}

// load reads the source document, preferring the URL when present.
func (e *Extractor) load(ctx context.Context, fileURL, filePath string) ([]byte, error) {
	if fileURL != "" {
		return e.Fetch.Fetch(ctx, fileURL)
	}
	if e.Store == nil {
		return nil, fmt.Errorf("no file URL given and no object store configured")
	}
	rc, err := e.Store.Open(ctx, filePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// checkpoint persists the extracted text next to the source object.
// Failures here must not fail the extraction, only the log shows them.
func (e *Extractor) checkpoint(ctx context.Context, filePath, text string) {
	if e.Store == nil || filePath == "" {
		return
	}
	key := filePath + ".extracted.txt"
	if _, err := e.Store.Put(ctx, key, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Warn("extraction checkpoint write failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}

// pdfConfidence is a length proxy, not a measured recognition score.
// Longer extractions are more likely to be real text rather than noise.
func pdfConfidence(text string) float64 {
	c := float64(len(text)) / 10
	if c < 50 {
		c = 50
	}
	if c > 95 {
		c = 95
	}
	return c
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, float64, error) {
	if e.OCR == nil {
		return "", 0, fmt.Errorf("no OCR engine configured for image input")
	}
	words, err := e.OCR.Recognize(ctx, data)
	if err != nil {
		return "", 0, err
	}

	var (
		tokens []string
		sum    float64
		scored int
	)
	for _, w := range words {
		tokens = append(tokens, w.Text)
		if w.Confidence > 0 {
			sum += w.Confidence
			scored++
		}
	}

	confidence := 0.0
	if scored > 0 {
		confidence = sum / float64(scored)
	}
	return strings.Join(tokens, " "), confidence, nil
}

func normalizeMediaType(mediaType string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	clean = strings.TrimPrefix(clean, "application/")
	clean = strings.TrimPrefix(clean, "image/")
	return clean
}

func supported(mediaType string) bool {
	switch mediaType {
	case mediaPDF, mediaJPEG, mediaJPG, mediaPNG:
		return true
	}
	return false
}
