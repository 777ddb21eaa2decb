package llm

import (
	"fmt"
	"unicode/utf8"
)

// maxPromptText caps how much resume text goes into a single prompt.
const maxPromptText = 3000

const truncationMarker = "...[truncated for analysis]"

// BuildAnalysisPrompt renders the recruiter-analysis prompt for the given
// resume text. Text beyond maxPromptText is cut at a rune boundary and
// marked so the model knows the document continues.
func BuildAnalysisPrompt(extractedText string) string {
	if len(extractedText) > maxPromptText {
		cut := maxPromptText
		for cut > 0 && !utf8.RuneStart(extractedText[cut]) {
			cut--
		}
		extractedText = extractedText[:cut] + truncationMarker
	}
	return fmt.Sprintf(analysisPromptTemplate, extractedText)
}

const analysisPromptTemplate = `You are a technical recruiter. Analyze this resume and provide detailed JSON response:

RESUME TEXT:
%s

Return valid JSON with ALL fields populated:

{
    "skills": {
        "technical": {
            "programming_languages": ["extract from resume"],
            "frameworks_libraries": ["extract from resume"],
            "databases": ["extract from resume"],
            "cloud_platforms": ["AWS/Azure/GCP found"],
            "devops_tools": ["Docker/K8s/CI-CD found"],
            "other_technical": ["remaining tech skills"]
        },
        "soft_skills": ["leadership, communication, etc"],
        "certifications": ["certs mentioned"],
        "missing_critical_skills": ["skills needed for their level"]
    },
    "experience_analysis": {
        "level": "Fresher|Junior|Mid-level|Senior|Lead|Principal",
        "total_experience_years": "X.Y years",
        "career_progression": "Excellent|Good|Average|Poor",
        "industry_exposure": ["fintech", "healthcare", etc],
        "gaps_in_employment": "any gaps found"
    },
    "project_analysis": {
        "project_quality": "Exceptional|Good|Average|Poor",
        "technical_complexity": "High|Medium|Low",
        "business_impact": "shows business value or not",
        "standout_projects": ["most impressive projects"],
        "missing_project_types": ["types needed"]
    },
    "education_analysis": {
        "degree_relevance": "relevant to tech roles",
        "institution_tier": "Tier1|Tier2|Tier3",
        "academic_performance": "Excellent|Good|Average",
        "additional_courses": ["online courses found"]
    },
    "resume_quality": {
        "overall_score": "X/10",
        "formatting": "Professional|Good|Poor",
        "content_clarity": "Clear|Confusing",
        "quantified_achievements": "Strong|Weak metrics usage"
    },
    "skill_gap_analysis": {
        "for_current_level": ["missing skills for current level"],
        "for_next_level": ["skills for promotion"],
        "trending_technologies": ["2024-25 trending tech to learn"],
        "learning_priority": {
            "high": ["learn in 3 months"],
            "medium": ["learn in 6 months"],
            "low": ["learn in 1 year"]
        }
    },
    "market_competitiveness": {
        "overall_rating": "Highly Competitive|Competitive|Moderate|Poor",
        "salary_range_estimate": "USD/INR range based on experience",
        "target_companies": ["realistic company targets"],
        "competitive_advantages": ["what makes them stand out"],
        "major_weaknesses": ["what hurts their chances"]
    },
    "industry_alignment": {
        "best_fit_roles": ["most suitable roles"],
        "emerging_opportunities": ["trending roles they can pivot to"],
        "remote_work_readiness": "assessment for remote work"
    },
    "detailed_recommendations": [
        {
            "category": "Technical Skills",
            "recommendation": "specific actionable advice",
            "impact": "High|Medium|Low",
            "timeframe": "1-3|3-6|6-12 months",
            "resources": ["specific courses/platforms"]
        },
        {
            "category": "Projects",
            "recommendation": "project suggestions",
            "impact": "High|Medium|Low",
            "timeframe": "timeline",
            "resources": ["guidance"]
        },
        {
            "category": "Experience",
            "recommendation": "career move suggestions",
            "impact": "High|Medium|Low",
            "timeframe": "timeline",
            "resources": ["networking, job boards"]
        },
        {
            "category": "Resume",
            "recommendation": "formatting/content changes",
            "impact": "High|Medium|Low",
            "timeframe": "Immediate|1 week",
            "resources": ["templates, tools"]
        }
    ],
    "ats_optimization": {
        "current_ats_score": "X/100",
        "missing_keywords": ["important keywords for their field"],
        "formatting_issues": ["ATS parsing issues"],
        "improvements_needed": ["specific ATS improvements"]
    },
    "interview_preparation": {
        "technical_readiness": "Strong|Moderate|Weak",
        "likely_interview_topics": ["based on background"],
        "preparation_suggestions": ["focus areas"]
    },
    "career_trajectory": {
        "next_logical_step": "immediate next role target",
        "5_year_potential": "where they could be in 5 years",
        "career_pivot_options": ["alternative paths"]
    },
    "red_flags": ["concerning patterns: job hopping, gaps, inconsistencies"],
    "standout_qualities": ["unique strengths that make them memorable"],
    "overall_insights": "3-4 sentence comprehensive analysis of current position, competitiveness, and strategic advice"
}

Guidelines: Be specific, use current 2024-25 market data, provide actionable advice. Every field must have content - no empty arrays.`
