package analyses

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// Sanitize turns raw model output into a Report. It slices out fenced
// code and surrounding prose, parses strictly, runs a repair pass on
// parse failure and reconciles the result against the canonical section
// set. Fails with ErrUnparsableResponse when even the repaired text is
// not valid JSON.
func Sanitize(raw string) (*Report, error) {
	parsed, err := repairAndParse(raw)
	if err != nil {
		return nil, err
	}

	report := NewReport()
	if err := json.Unmarshal(parsed, report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	report.reconcile()
	return report, nil
}

// repairAndParse extracts the JSON object from raw text and returns it
// as validated JSON bytes, repairing truncation damage when needed.
func repairAndParse(raw string) (json.RawMessage, error) {
	text := sliceFencedBlock(strings.TrimSpace(raw))
	text = sliceBraces(text)

	if json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}

	repaired := repairJSON(text)
	if !json.Valid([]byte(repaired)) {
		return nil, fmt.Errorf("%w: invalid JSON after repair", ErrUnparsableResponse)
	}
	return json.RawMessage(repaired), nil
}

// sliceFencedBlock returns the interior of a ```json fenced block when
// one is present, otherwise the input unchanged.
func sliceFencedBlock(text string) string {
	marker := "```json"
	idx := strings.Index(text, marker)
	if idx < 0 {
		return text
	}
	start := idx + len(marker)
	end := strings.LastIndex(text, "```")
	if end > start {
		return strings.TrimSpace(text[start:end])
	}
	return text
}

// sliceBraces discards any prose before the first '{' and after the
// last '}'.
func sliceBraces(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// repairJSON fixes the two damage patterns truncated generation leaves
// behind: trailing commas before closers and spurious trailing closers.
// Closer trimming drops the last character while it closes a bracket
// type that has more closers than openers across the whole string,
// checking paren, then bracket, then brace each iteration.
func repairJSON(text string) string {
	text = trailingCommaRe.ReplaceAllString(text, "$1")

	for len(text) > 0 {
		last := text[len(text)-1]
		if last != ')' && last != ']' && last != '}' {
			break
		}
		openParen := strings.Count(text, "(")
		closeParen := strings.Count(text, ")")
		openBrack := strings.Count(text, "[")
		closeBrack := strings.Count(text, "]")
		openBrace := strings.Count(text, "{")
		closeBrace := strings.Count(text, "}")

		if closeParen > openParen && last == ')' {
			text = text[:len(text)-1]
			continue
		}
		if closeBrack > openBrack && last == ']' {
			text = text[:len(text)-1]
			continue
		}
		if closeBrace > openBrace && last == '}' {
			text = text[:len(text)-1]
			continue
		}
		break
	}

	return trailingCommaRe.ReplaceAllString(text, "$1")
}
