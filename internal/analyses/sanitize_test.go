package analyses

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestSanitizeRoundTrip(t *testing.T) {
	original := NewReport()
	original.Skills = map[string]any{"technical": []any{"Go", "Python"}}
	original.ExperienceLevel = "Senior"
	original.RedFlags = []any{"job hopping"}
	original.OverallInsights = "Strong systems background."

	serialized, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := Sanitize(string(serialized))
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if !reflect.DeepEqual(got, original) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, original)
	}
}

func TestSanitizeStripsFenceAndProse(t *testing.T) {
	raw := "Here is your analysis:\n```json\n{\"experience_level\": \"Senior\"}\n```\nHope this helps!"
	got, err := Sanitize(raw)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got.ExperienceLevel != "Senior" {
		t.Fatalf("expected Senior, got %q", got.ExperienceLevel)
	}
}

func TestRepairRecoversTrailingCommaAndSpuriousBrace(t *testing.T) {
	parsed, err := repairAndParse(`{"a":1,}}`)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(parsed, &m); err != nil {
		t.Fatalf("unmarshal repaired: %v", err)
	}
	if len(m) != 1 || m["a"] != float64(1) {
		t.Fatalf("expected {\"a\":1}, got %v", m)
	}
}

func TestRepairTrimsRepeatedSpuriousClosers(t *testing.T) {
	parsed, err := repairAndParse(`{"items":[1,2],}}}`)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if string(parsed) != `{"items":[1,2]}` {
		t.Fatalf("unexpected repaired text %s", parsed)
	}
}

func TestSanitizeUnparsableFails(t *testing.T) {
	_, err := Sanitize("the model refuses to answer in JSON today")
	if !errors.Is(err, ErrUnparsableResponse) {
		t.Fatalf("expected ErrUnparsableResponse, got %v", err)
	}
}

func TestSanitizePopulatesMissingSections(t *testing.T) {
	got, err := Sanitize(`{"skills": {"technical": {"programming_languages": ["Go"]}}}`)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got.ExperienceAnalysis == nil || got.RedFlags == nil || got.DetailedRecommendations == nil {
		t.Fatal("missing sections must be defaulted, not nil")
	}
	if got.ExperienceLevel != "Entry" {
		t.Fatalf("expected default level Entry, got %q", got.ExperienceLevel)
	}
}

func TestSanitizeNulledSectionsGetDefaults(t *testing.T) {
	got, err := Sanitize(`{"red_flags": null, "skills": null, "overall_insights": null}`)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got.RedFlags == nil || got.Skills == nil {
		t.Fatal("nulled sections must be reset to typed defaults")
	}
}
