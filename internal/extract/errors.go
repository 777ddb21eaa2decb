package extract

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMediaType rejects documents outside the supported set.
// The check runs before any network fetch so callers never pay for a
// download they cannot use.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ExtractionError wraps a failure while pulling text out of a document.
type ExtractionError struct {
	MediaType string
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.MediaType, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
