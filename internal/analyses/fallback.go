package analyses

import "strings"

var fallbackSkillVocab = []string{"python", "javascript", "react", "node", "sql", "aws", "docker", "git"}

var (
	seniorTokens = []string{"senior", "lead", "manager", "architect"}
	midTokens    = []string{"mid", "intermediate", "3", "4", "5"}
)

// FallbackAnalysis builds a deterministic keyword-scan report for when
// no AI-derived report is obtainable. Pure function, no I/O.
func FallbackAnalysis(extractedText string) *Report {
	words := strings.Fields(strings.ToLower(extractedText))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		seen[w] = true
	}

	technical := []any{}
	for _, skill := range fallbackSkillVocab {
		if seen[skill] {
			technical = append(technical, titleCase(skill))
		}
	}

	level := "Entry"
	switch {
	case anySeen(seen, seniorTokens):
		level = "Senior"
	case anySeen(seen, midTokens):
		level = "Mid"
	}

	report := NewReport()
	report.Skills = map[string]any{
		"technical": technical,
		"soft":      []any{"Communication", "Problem Solving"},
	}
	report.ExperienceLevel = level
	report.FocusAreas = []any{"Software Development"}
	report.ExperienceAnalysis = map[string]any{
		"level":                  level,
		"total_experience_years": "0 years",
	}
	report.ProjectAnalysis = map[string]any{"project_quality": "Average"}
	report.EducationAnalysis = map[string]any{"degree_relevance": "Unknown"}
	report.ResumeQuality = map[string]any{"overall_score": "5/10"}
	report.SkillGapAnalysis = map[string]any{"for_current_level": []any{"More specific skills needed"}}
	report.MarketCompetitiveness = map[string]any{"overall_rating": "Moderate"}
	report.IndustryAlignment = map[string]any{"best_fit_roles": []any{"Software Developer"}}
	report.ATSOptimization = map[string]any{"current_ats_score": "50/100"}
	report.InterviewPreparation = map[string]any{"technical_readiness": "Moderate"}
	report.CareerTrajectory = map[string]any{"next_logical_step": "Continue learning"}
	report.OverallInsights = "Basic analysis completed."
	return report
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func anySeen(seen map[string]bool, tokens []string) bool {
	for _, t := range tokens {
		if seen[t] {
			return true
		}
	}
	return false
}
