package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateStep(t *testing.T) {
	assert.Equal(t, "evaluation:42", CandidateStep(StepEvaluation, 42))
	assert.Equal(t, "questions:1", CandidateStep(StepQuestions, 1))
	assert.Equal(t, "feedback:0", CandidateStep(StepFeedback, 0))
}
