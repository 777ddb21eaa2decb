package analyses

// Report is the canonical multi-section analysis result. The section set
// is a wire contract shared with dashboard consumers, so every field is
// always present in serialized form. NewReport enforces that at the type
// level; absence of a key after reconciliation is a defect.
type Report struct {
	Skills                  map[string]any `json:"skills"`
	ExperienceLevel         string         `json:"experience_level"`
	FocusAreas              []any          `json:"focus_areas"`
	ExperienceAnalysis      map[string]any `json:"experience_analysis"`
	ProjectAnalysis         map[string]any `json:"project_analysis"`
	EducationAnalysis       map[string]any `json:"education_analysis"`
	ResumeQuality           map[string]any `json:"resume_quality"`
	SkillGapAnalysis        map[string]any `json:"skill_gap_analysis"`
	MarketCompetitiveness   map[string]any `json:"market_competitiveness"`
	IndustryAlignment       map[string]any `json:"industry_alignment"`
	DetailedRecommendations []any          `json:"detailed_recommendations"`
	ATSOptimization         map[string]any `json:"ats_optimization"`
	InterviewPreparation    map[string]any `json:"interview_preparation"`
	CareerTrajectory        map[string]any `json:"career_trajectory"`
	RedFlags                []any          `json:"red_flags"`
	StandoutQualities       []any          `json:"standout_qualities"`
	OverallInsights         string         `json:"overall_insights"`
}

// NewReport constructs a report with every section populated by its
// typed default: empty map, empty list or empty string.
func NewReport() *Report {
	return &Report{
		Skills:                  map[string]any{},
		ExperienceLevel:         "Entry",
		FocusAreas:              []any{},
		ExperienceAnalysis:      map[string]any{},
		ProjectAnalysis:         map[string]any{},
		EducationAnalysis:       map[string]any{},
		ResumeQuality:           map[string]any{},
		SkillGapAnalysis:        map[string]any{},
		MarketCompetitiveness:   map[string]any{},
		IndustryAlignment:       map[string]any{},
		DetailedRecommendations: []any{},
		ATSOptimization:         map[string]any{},
		InterviewPreparation:    map[string]any{},
		CareerTrajectory:        map[string]any{},
		RedFlags:                []any{},
		StandoutQualities:       []any{},
		OverallInsights:         "",
	}
}

// reconcile restores typed defaults for sections the model omitted or
// nulled out, keeping the every-key-present invariant.
func (r *Report) reconcile() {
	if r.Skills == nil {
		r.Skills = map[string]any{}
	}
	if r.ExperienceLevel == "" {
		r.ExperienceLevel = "Entry"
	}
	if r.FocusAreas == nil {
		r.FocusAreas = []any{}
	}
	if r.ExperienceAnalysis == nil {
		r.ExperienceAnalysis = map[string]any{}
	}
	if r.ProjectAnalysis == nil {
		r.ProjectAnalysis = map[string]any{}
	}
	if r.EducationAnalysis == nil {
		r.EducationAnalysis = map[string]any{}
	}
	if r.ResumeQuality == nil {
		r.ResumeQuality = map[string]any{}
	}
	if r.SkillGapAnalysis == nil {
		r.SkillGapAnalysis = map[string]any{}
	}
	if r.MarketCompetitiveness == nil {
		r.MarketCompetitiveness = map[string]any{}
	}
	if r.IndustryAlignment == nil {
		r.IndustryAlignment = map[string]any{}
	}
	if r.DetailedRecommendations == nil {
		r.DetailedRecommendations = []any{}
	}
	if r.ATSOptimization == nil {
		r.ATSOptimization = map[string]any{}
	}
	if r.InterviewPreparation == nil {
		r.InterviewPreparation = map[string]any{}
	}
	if r.CareerTrajectory == nil {
		r.CareerTrajectory = map[string]any{}
	}
	if r.RedFlags == nil {
		r.RedFlags = []any{}
	}
	if r.StandoutQualities == nil {
		r.StandoutQualities = []any{}
	}
}

// stringSection reads a string value out of a section map, falling back
// to def when the key is missing or not a string.
func stringSection(section map[string]any, key, def string) string {
	if section == nil {
		return def
	}
	if v, ok := section[key].(string); ok && v != "" {
		return v
	}
	return def
}
