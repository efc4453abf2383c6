package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// QuestionType identifies the interviewing intent behind a question
type QuestionType string

// Question types
const (
	QuestionGapProbing      QuestionType = "gap_probing"
	QuestionDepthValidation QuestionType = "depth_validation"
	QuestionBehavioral      QuestionType = "behavioral"
	QuestionTechnical       QuestionType = "technical"
	QuestionRoleSpecific    QuestionType = "role_specific"
)

// Question is a generated interview question tied to a target skill.
// Questions are immutable after creation.
type Question struct {
	Text            string       `json:"question_text" validate:"required"`
	Type            QuestionType `json:"question_type" validate:"required,oneof=gap_probing depth_validation behavioral technical role_specific"`
	TargetSkill     string       `json:"target_skill" validate:"required"`
	Difficulty      string       `json:"difficulty_level" validate:"required,oneof=easy medium hard"`
	Rationale       string       `json:"rationale" validate:"required"`
	ExpectedSignals []string     `json:"expected_signals" validate:"min=1,dive,required"`
}

// Per-partition question counts. These are contract obligations; violations
// re-enter the retry path rather than being truncated or padded.
const (
	GapProbingCount      = 3
	DepthValidationCount = 2
	BehavioralCount      = 2
	TechnicalCount       = 3
	RoleSpecificCount    = 2
)

// QuestionSet holds the questions generated for one candidate, partitioned by
// type.
type QuestionSet struct {
	CandidateID             int        `json:"candidate_id"`
	CandidateAffinityScore  float64    `json:"candidate_affinity_score"`
	GapProbingQuestions     []Question `json:"gap_probing_questions" validate:"dive"`
	DepthValidationQuestion []Question `json:"depth_validation_questions" validate:"dive"`
	BehavioralQuestions     []Question `json:"behavioral_questions" validate:"dive"`
	TechnicalQuestions      []Question `json:"technical_questions" validate:"dive"`
	RoleSpecificQuestions   []Question `json:"role_specific_questions" validate:"dive"`
	TotalQuestions          int        `json:"total_questions"`
}

// Validate checks each question's fields, the per-partition counts, and that
// every question carries the type of its partition. A declared total of zero
// is tolerated; Recount fixes it after recovery.
func (qs *QuestionSet) Validate() error {
	validate := validator.New()
	if err := validate.Struct(qs); err != nil {
		return err
	}

	partitions := []struct {
		name      string
		questions []Question
		qtype     QuestionType
		want      int
	}{
		{"gap_probing_questions", qs.GapProbingQuestions, QuestionGapProbing, GapProbingCount},
		{"depth_validation_questions", qs.DepthValidationQuestion, QuestionDepthValidation, DepthValidationCount},
		{"behavioral_questions", qs.BehavioralQuestions, QuestionBehavioral, BehavioralCount},
		{"technical_questions", qs.TechnicalQuestions, QuestionTechnical, TechnicalCount},
		{"role_specific_questions", qs.RoleSpecificQuestions, QuestionRoleSpecific, RoleSpecificCount},
	}

	total := 0
	for _, p := range partitions {
		if len(p.questions) != p.want {
			return fmt.Errorf("%s has %d questions, want %d", p.name, len(p.questions), p.want)
		}
		for i, q := range p.questions {
			if q.Type != p.qtype {
				return fmt.Errorf("%s[%d] has type %q, want %q", p.name, i, q.Type, p.qtype)
			}
		}
		total += len(p.questions)
	}

	if qs.TotalQuestions != 0 && qs.TotalQuestions != total {
		return fmt.Errorf("total_questions is %d but set contains %d questions", qs.TotalQuestions, total)
	}
	return nil
}

// Recount updates TotalQuestions from the partitions.
func (qs *QuestionSet) Recount() {
	qs.TotalQuestions = len(qs.GapProbingQuestions) + len(qs.DepthValidationQuestion) +
		len(qs.BehavioralQuestions) + len(qs.TechnicalQuestions) + len(qs.RoleSpecificQuestions)
}
