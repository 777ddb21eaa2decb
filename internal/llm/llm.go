package llm

import (
	"context"
	"errors"
)

// ErrCompletionTimeout reports that the model did not answer within the
// caller's deadline. Orchestration treats it as retryable.
var ErrCompletionTimeout = errors.New("llm: completion timed out")

// Client produces a completion for a prompt. Implementations are expected
// to honor ctx cancellation and map deadline expiry to ErrCompletionTimeout.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Unconfigured is the client used when no model credentials are present.
// Every call fails, which pushes the pipeline onto its deterministic
// fallback analysis.
type Unconfigured struct{}

func (Unconfigured) Complete(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("llm: no completion provider configured")
}

var _ Client = Unconfigured{}
