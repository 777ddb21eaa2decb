package analyses

import (
	"reflect"
	"testing"
)

func TestFallbackDetectsSkillsAndSeniority(t *testing.T) {
	report := FallbackAnalysis("Senior Python Engineer, 5 years, aws docker kubernetes")

	technical, ok := report.Skills["technical"].([]any)
	if !ok {
		t.Fatalf("skills.technical has wrong type: %T", report.Skills["technical"])
	}
	want := []any{"Python", "Aws", "Docker"}
	if !reflect.DeepEqual(technical, want) {
		t.Fatalf("technical skills = %v, want %v", technical, want)
	}
	if report.ExperienceLevel != "Senior" {
		t.Fatalf("expected Senior, got %q", report.ExperienceLevel)
	}
}

func TestFallbackArchitectIsSenior(t *testing.T) {
	report := FallbackAnalysis("solutions architect with cloud background")
	if report.ExperienceLevel != "Senior" {
		t.Fatalf("architect should map to Senior, got %q", report.ExperienceLevel)
	}
}

func TestFallbackMidLevelTokens(t *testing.T) {
	report := FallbackAnalysis("intermediate developer working with react")
	if report.ExperienceLevel != "Mid" {
		t.Fatalf("expected Mid, got %q", report.ExperienceLevel)
	}
}

func TestFallbackDefaultsToEntry(t *testing.T) {
	report := FallbackAnalysis("recent graduate, coursework in java")
	if report.ExperienceLevel != "Entry" {
		t.Fatalf("expected Entry, got %q", report.ExperienceLevel)
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	input := "lead engineer python sql git"
	first := FallbackAnalysis(input)
	second := FallbackAnalysis(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same input must produce identical reports")
	}
}

func TestFallbackSatisfiesFullKeyInvariant(t *testing.T) {
	report := FallbackAnalysis("")
	if report.Skills == nil || report.ExperienceAnalysis == nil ||
		report.CareerTrajectory == nil || report.RedFlags == nil ||
		report.StandoutQualities == nil || report.DetailedRecommendations == nil {
		t.Fatal("fallback report must populate every section")
	}
	if report.OverallInsights == "" {
		t.Fatal("fallback insights must carry the placeholder text")
	}
}
