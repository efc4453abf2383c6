package types

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeQuestions(qtype QuestionType, count int) []Question {
	questions := make([]Question, count)
	for i := range questions {
		questions[i] = Question{
			Text:            fmt.Sprintf("Question %d about %s", i, qtype),
			Type:            qtype,
			TargetSkill:     "Go",
			Difficulty:      "medium",
			Rationale:       "Probes practical depth",
			ExpectedSignals: []string{"Concrete examples", "Tradeoff awareness"},
		}
	}
	return questions
}

func validQuestionSet() *QuestionSet {
	qs := &QuestionSet{
		CandidateID:             3,
		CandidateAffinityScore:  0.81,
		GapProbingQuestions:     makeQuestions(QuestionGapProbing, GapProbingCount),
		DepthValidationQuestion: makeQuestions(QuestionDepthValidation, DepthValidationCount),
		BehavioralQuestions:     makeQuestions(QuestionBehavioral, BehavioralCount),
		TechnicalQuestions:      makeQuestions(QuestionTechnical, TechnicalCount),
		RoleSpecificQuestions:   makeQuestions(QuestionRoleSpecific, RoleSpecificCount),
	}
	qs.Recount()
	return qs
}

func TestQuestionSet_Validate(t *testing.T) {
	assert.NoError(t, validQuestionSet().Validate())
}

func TestQuestionSet_WrongPartitionCount(t *testing.T) {
	qs := validQuestionSet()
	qs.TechnicalQuestions = qs.TechnicalQuestions[:2]
	qs.Recount()

	err := qs.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "technical_questions")
}

func TestQuestionSet_MismatchedPartitionType(t *testing.T) {
	qs := validQuestionSet()
	qs.BehavioralQuestions[0].Type = QuestionTechnical

	err := qs.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "behavioral_questions[0]")
}

func TestQuestionSet_ZeroTotalTolerated(t *testing.T) {
	// Models rarely fill total_questions; Recount fixes it after recovery.
	qs := validQuestionSet()
	qs.TotalQuestions = 0
	assert.NoError(t, qs.Validate())
}

func TestQuestionSet_WrongTotalRejected(t *testing.T) {
	qs := validQuestionSet()
	qs.TotalQuestions = 99

	err := qs.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "total_questions")
}

func TestQuestionSet_Recount(t *testing.T) {
	qs := validQuestionSet()
	qs.TotalQuestions = 0
	qs.Recount()
	assert.Equal(t, 12, qs.TotalQuestions)
}

func TestQuestion_InvalidDifficulty(t *testing.T) {
	qs := validQuestionSet()
	qs.GapProbingQuestions[0].Difficulty = "impossible"
	assert.Error(t, qs.Validate())
}

func TestQuestion_MissingExpectedSignals(t *testing.T) {
	qs := validQuestionSet()
	qs.RoleSpecificQuestions[0].ExpectedSignals = nil
	assert.Error(t, qs.Validate())
}
