package ocr

import "context"

// Word is one recognized token with the provider's confidence for it,
// on a 0-100 scale. Providers may emit non-positive confidences for
// tokens they could not score; callers are expected to skip those.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Engine abstracts optical character recognition providers.
type Engine interface {
	Recognize(ctx context.Context, image []byte) ([]Word, error)
}
