package analyses

import "time"

// CacheSummary is the dashboard projection of a completed report. It is
// derived once per successful job and upserted to the platform cache,
// never mutated independently.
type CacheSummary struct {
	Skills          map[string]any `json:"skills"`
	ExperienceLevel string         `json:"experience_level"`
	FocusAreas      []any          `json:"focus_areas"`
	Insights        string         `json:"insights"`
	AnalysisID      string         `json:"analysis_id"`

	OverallScore    string `json:"overall_score"`
	ATSScore        string `json:"ats_score"`
	Competitiveness string `json:"competitiveness"`
	CareerLevel     string `json:"career_level"`
	SalaryEstimate  string `json:"salary_estimate"`

	TopStrengths         []any  `json:"top_strengths"`
	CriticalSkillsNeeded []any  `json:"critical_skills_needed"`
	RedFlags             []any  `json:"red_flags"`
	NextStep             string `json:"next_step"`

	LastUpdated time.Time `json:"last_updated"`
}

// BuildSummary projects the report fields the dashboard cards read.
func BuildSummary(analysisID string, report *Report) *CacheSummary {
	return &CacheSummary{
		Skills:          report.Skills,
		ExperienceLevel: report.ExperienceLevel,
		FocusAreas:      report.FocusAreas,
		Insights:        report.OverallInsights,
		AnalysisID:      analysisID,

		OverallScore:    stringSection(report.ResumeQuality, "overall_score", "5/10"),
		ATSScore:        stringSection(report.ATSOptimization, "current_ats_score", "50/100"),
		Competitiveness: stringSection(report.MarketCompetitiveness, "overall_rating", "Moderate"),
		CareerLevel:     stringSection(report.ExperienceAnalysis, "level", "Entry"),
		SalaryEstimate:  stringSection(report.MarketCompetitiveness, "salary_range_estimate", "Not specified"),

		TopStrengths:         firstN(report.StandoutQualities, 3),
		CriticalSkillsNeeded: firstN(highLearningPriority(report.SkillGapAnalysis), 3),
		RedFlags:             firstN(report.RedFlags, 2),
		NextStep:             stringSection(report.CareerTrajectory, "next_logical_step", "Continue learning"),

		LastUpdated: time.Now().UTC(),
	}
}

// highLearningPriority digs skill_gap_analysis.learning_priority.high
// out of the open-ended section mapping.
func highLearningPriority(skillGap map[string]any) []any {
	if skillGap == nil {
		return nil
	}
	priority, ok := skillGap["learning_priority"].(map[string]any)
	if !ok {
		return nil
	}
	high, ok := priority["high"].([]any)
	if !ok {
		return nil
	}
	return high
}

func firstN(items []any, n int) []any {
	if items == nil {
		return []any{}
	}
	if len(items) > n {
		items = items[:n]
	}
	return items
}
