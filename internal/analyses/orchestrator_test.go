package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"algomate-backend/internal/llm"
)

type scriptedClient struct {
	responses []func() (string, error)
	calls     int
}

func (c *scriptedClient) Complete(ctx context.Context, prompt string) (string, error) {
	idx := c.calls
	c.calls++
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	return c.responses[idx]()
}

func newTestOrchestrator(client llm.Client) (*Orchestrator, *[]time.Duration) {
	o := NewOrchestrator(client)
	var sleeps []time.Duration
	o.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return o, &sleeps
}

func validReportJSON(t *testing.T) string {
	t.Helper()
	report := NewReport()
	report.ExperienceLevel = "Senior"
	report.OverallInsights = "Model-derived analysis."
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	return string(data)
}

func TestAnalyzeReturnsFirstSanitizedResponse(t *testing.T) {
	body := validReportJSON(t)
	client := &scriptedClient{responses: []func() (string, error){
		func() (string, error) { return body, nil },
	}}
	o, sleeps := newTestOrchestrator(client)

	report := o.Analyze(context.Background(), "some resume text")
	if report.OverallInsights != "Model-derived analysis." {
		t.Fatalf("expected model report, got %q", report.OverallInsights)
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly 1 completion call, got %d", client.calls)
	}
	if len(*sleeps) != 0 {
		t.Fatalf("first attempt must not back off, slept %v", *sleeps)
	}
}

func TestAnalyzeTimeoutThenSuccess(t *testing.T) {
	body := validReportJSON(t)
	client := &scriptedClient{responses: []func() (string, error){
		func() (string, error) { return "", llm.ErrCompletionTimeout },
		func() (string, error) { return body, nil },
	}}
	o, sleeps := newTestOrchestrator(client)

	report := o.Analyze(context.Background(), "some resume text")
	if report.OverallInsights != "Model-derived analysis." {
		t.Fatal("expected the AI-derived report, not the fallback")
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 completion calls, got %d", client.calls)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != 2*time.Second {
		t.Fatalf("expected one 2s backoff before attempt 2, got %v", *sleeps)
	}
}

func TestAnalyzeAlwaysTimeoutFallsBack(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		func() (string, error) { return "", llm.ErrCompletionTimeout },
	}}
	o, sleeps := newTestOrchestrator(client)

	report := o.Analyze(context.Background(), "lead engineer python docker")
	if client.calls != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, client.calls)
	}
	if report.OverallInsights != "Basic analysis completed." {
		t.Fatal("exhausted retries must produce the fallback report")
	}
	if report.ExperienceLevel != "Senior" {
		t.Fatalf("fallback should detect seniority, got %q", report.ExperienceLevel)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(*sleeps) != len(want) || (*sleeps)[0] != want[0] || (*sleeps)[1] != want[1] {
		t.Fatalf("expected backoffs %v, got %v", want, *sleeps)
	}
}

func TestAnalyzeAlwaysMalformedFallsBack(t *testing.T) {
	client := &scriptedClient{responses: []func() (string, error){
		func() (string, error) { return "sorry, no JSON here", nil },
	}}
	o, _ := newTestOrchestrator(client)

	report := o.Analyze(context.Background(), "resume text")
	if client.calls != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, client.calls)
	}
	if report == nil || report.Skills == nil || report.CareerTrajectory == nil {
		t.Fatal("fallback report must populate every section")
	}
}

func TestAnalyzeProviderErrorThenSuccess(t *testing.T) {
	body := validReportJSON(t)
	client := &scriptedClient{responses: []func() (string, error){
		func() (string, error) { return "", errors.New("rate limited") },
		func() (string, error) { return body, nil },
	}}
	o, _ := newTestOrchestrator(client)

	report := o.Analyze(context.Background(), "resume text")
	if report.ExperienceLevel != "Senior" {
		t.Fatal("expected the AI-derived report after a provider error")
	}
}

func TestAnalyzeUnconfiguredSkipsRetryLoop(t *testing.T) {
	for _, client := range []llm.Client{nil, llm.Unconfigured{}} {
		o, sleeps := newTestOrchestrator(client)
		if o.configured {
			t.Fatalf("client %T must not count as configured", client)
		}

		report := o.Analyze(context.Background(), "python developer")
		if report.OverallInsights != "Basic analysis completed." {
			t.Fatal("missing provider must yield the fallback report")
		}
		if len(*sleeps) != 0 {
			t.Fatalf("missing provider must not back off, slept %v", *sleeps)
		}
	}
}

func TestNewOrchestratorDetectsConfiguredClient(t *testing.T) {
	o := NewOrchestrator(&scriptedClient{responses: []func() (string, error){
		func() (string, error) { return "", errors.New("unused") },
	}})
	if !o.configured {
		t.Fatal("a real client must count as configured")
	}
}

func TestTruncateAtRuneKeepsBoundaries(t *testing.T) {
	long := strings.Repeat("é", 300) // 2 bytes per rune
	got := truncateAtRune(long, 499)
	if len(got) != 498 {
		t.Fatalf("expected cut at 498 bytes, got %d", len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncated text must remain valid UTF-8")
	}
	if truncateAtRune("short", 500) != "short" {
		t.Fatal("text within budget must pass through unchanged")
	}
	if truncateAtRune("abcdef", 3) != "abc" {
		t.Fatal("ascii cut must land exactly on the budget")
	}
}

func TestTextBudgetShrinksWithFloor(t *testing.T) {
	cases := []struct{ attempt, want int }{
		{0, 2000}, {1, 1500}, {2, 1000}, {3, 500}, {10, 500},
	}
	for _, tc := range cases {
		if got := textBudget(tc.attempt); got != tc.want {
			t.Errorf("textBudget(%d) = %d, want %d", tc.attempt, got, tc.want)
		}
	}
}

func TestBackoffCapsAtTenSeconds(t *testing.T) {
	if backoff(1) != 2*time.Second || backoff(2) != 4*time.Second {
		t.Fatal("early backoffs must double")
	}
	if backoff(5) != 10*time.Second {
		t.Fatalf("backoff must cap at 10s, got %v", backoff(5))
	}
}
