package analyses

import "errors"

// ErrNotFound indicates the requested analysis record does not exist.
var ErrNotFound = errors.New("analysis not found")

// ErrUnparsableResponse indicates model output that could not be turned
// into a report even after the repair pass.
var ErrUnparsableResponse = errors.New("unparsable model response")
