package types

import (
	"github.com/go-playground/validator/v10"
)

// Timeline buckets for improvement areas
const (
	TimelineShortTerm  = "short_term"  // 1-3 months
	TimelineMediumTerm = "medium_term" // 3-6 months
	TimelineLongTerm   = "long_term"   // 6-12+ months
)

// ProfileSummary is the high-level assessment section of candidate feedback.
type ProfileSummary struct {
	OverallAssessment     string   `json:"overall_assessment" validate:"required"`
	StandoutQualities     []string `json:"standout_qualities" validate:"min=2,max=3,dive,required"`
	CareerStageAssessment string   `json:"career_stage_assessment" validate:"required"`
}

// TechnicalStrength describes one identified strength with supporting evidence.
type TechnicalStrength struct {
	SkillArea        string `json:"skill_area" validate:"required"`
	Evidence         string `json:"evidence" validate:"required"`
	ProficiencyLevel string `json:"proficiency_level" validate:"required,oneof=Foundational Intermediate Advanced Expert"`
}

// ImprovementArea describes one prioritized development area. The
// recommendation count is a contract obligation: 3-5 entries, checked after
// recovery, never truncated or padded.
type ImprovementArea struct {
	Dimension                 string   `json:"dimension" validate:"required"`
	CurrentGap                string   `json:"current_gap" validate:"required"`
	ImportanceContext         string   `json:"importance_context" validate:"required"`
	ActionableRecommendations []string `json:"actionable_recommendations" validate:"min=3,max=5,dive,required"`
	EstimatedTimeline         string   `json:"estimated_timeline" validate:"required,oneof=short_term medium_term long_term"`
}

// CandidateFeedback is the structured feedback artifact for one candidate.
type CandidateFeedback struct {
	CandidateID            int                 `json:"candidate_id"`
	ProfileSummary         ProfileSummary      `json:"profile_summary" validate:"required"`
	TechnicalStrengths     []TechnicalStrength `json:"technical_strengths" validate:"min=3,max=5,dive"`
	ImprovementAreas       []ImprovementArea   `json:"improvement_areas" validate:"min=3,max=4,dive"`
	IndustryAlignmentScore float64             `json:"industry_alignment_score" validate:"gte=0,lte=1"`
	NextStepsSummary       string              `json:"next_steps_summary" validate:"required"`
}

// Validate checks the feedback against its declared cardinality bounds using
// the validator. A failure here is a schema violation, not a usable result.
func (f *CandidateFeedback) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}
