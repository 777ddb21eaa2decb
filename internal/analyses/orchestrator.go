package analyses

import (
	"context"
	"time"
	"unicode/utf8"

	"algomate-backend/internal/llm"
	"algomate-backend/internal/shared/metrics"
	"algomate-backend/internal/shared/telemetry"
)

const (
	maxAttempts       = 3
	completionTimeout = 45 * time.Second
)

// Orchestrator drives the bounded retry loop over the completion client
// and the sanitizer. Analyze never fails: when every attempt is spent it
// degrades to the deterministic fallback report.
type Orchestrator struct {
	client     llm.Client
	configured bool
	timeout    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator constructs an Orchestrator around a completion client.
// A nil or Unconfigured client means AI analysis is unavailable: Analyze
// skips the retry loop entirely and returns the fallback at once.
func NewOrchestrator(client llm.Client) *Orchestrator {
	configured := client != nil
	if _, bare := client.(llm.Unconfigured); bare {
		configured = false
	}
	return &Orchestrator{
		client:     client,
		configured: configured,
		timeout:    completionTimeout,
		sleep:      sleepContext,
	}
}

// Analyze produces a report for the extracted text. Attempts shrink the
// text budget and back off exponentially; the first sanitized response
// wins. Exhaustion falls back to heuristic analysis. With no provider
// configured there is nothing to retry against, so no attempts are made.
func (o *Orchestrator) Analyze(ctx context.Context, extractedText string) *Report {
	if !o.configured {
		metrics.IncFallbackAnalysis()
		return FallbackAnalysis(extractedText)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := o.sleep(ctx, backoff(attempt)); err != nil {
				break
			}
		}

		textToUse := truncateAtRune(extractedText, textBudget(attempt))

		raw, err := o.completeOnce(ctx, llm.BuildAnalysisPrompt(textToUse))
		if err != nil {
			metrics.IncCompletionRetry()
			telemetry.Warn("completion attempt failed", map[string]any{
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
			continue
		}

		report, err := Sanitize(raw)
		if err != nil {
			metrics.IncCompletionRetry()
			telemetry.Warn("completion response unparsable", map[string]any{
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
			continue
		}
		return report
	}

	metrics.IncFallbackAnalysis()
	return FallbackAnalysis(extractedText)
}

func (o *Orchestrator) completeOnce(ctx context.Context, prompt string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	return o.client.Complete(cctx, prompt)
}

// backoff caps the exponential wait before retry attempt i at 10 seconds.
func backoff(attempt int) time.Duration {
	seconds := 1 << attempt
	if seconds > 10 {
		seconds = 10
	}
	return time.Duration(seconds) * time.Second
}

// textBudget shrinks the prompt input on retries. Large inputs are the
// main driver of truncated, malformed completions.
func textBudget(attempt int) int {
	budget := 2000 - attempt*500
	if budget < 500 {
		budget = 500
	}
	return budget
}

// truncateAtRune caps s at n bytes without splitting a UTF-8 rune.
func truncateAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
