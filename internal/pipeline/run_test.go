package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/documents"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// fakeClient routes each request by schema name and a candidate marker found
// in the prompt text, mimicking structured model output per candidate.
type fakeClient struct {
	mu       sync.Mutex
	scores   map[string][2]float64 // marker -> [golang, kubernetes]
	failFor  string                // marker whose evaluation always returns garbage
	authFor  string                // marker whose evaluation returns an auth error
	genCalls int
}

func (f *fakeClient) Generate(ctx context.Context, req *llm.GenerationRequest, _ llm.ModelTier) (*llm.ModelResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.genCalls++
	f.mu.Unlock()

	switch req.Schema.Name {
	case "CandidateEvaluation":
		return f.evaluationResponse(req.Prompt)
	case "QuestionSet":
		return &llm.ModelResponse{Value: cannedQuestionSet()}, nil
	case "CandidateFeedback":
		return &llm.ModelResponse{Value: cannedFeedback()}, nil
	}
	return nil, fmt.Errorf("unexpected schema %q", req.Schema.Name)
}

func (f *fakeClient) evaluationResponse(prompt string) (*llm.ModelResponse, error) {
	for marker, s := range f.scores {
		if !strings.Contains(prompt, marker) {
			continue
		}
		if marker == f.authFor {
			return nil, &llm.AuthError{Message: "invalid api key"}
		}
		if marker == f.failFor {
			return &llm.ModelResponse{Text: "I cannot evaluate this candidate."}, nil
		}
		// Model-reported affinity is deliberately wrong; the pipeline must
		// recompute it locally.
		text := fmt.Sprintf(`{
			"feature_scores": [
				{"name": "golang", "score": %.2f, "evidence": "work history"},
				{"name": "kubernetes", "score": %.2f}
			],
			"affinity_score": 0.99
		}`, s[0], s[1])
		return &llm.ModelResponse{Text: text}, nil
	}
	return nil, fmt.Errorf("no candidate marker in prompt")
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

func testRequirements() *types.JobRequirements {
	return &types.JobRequirements{
		Company:        "Initech",
		JobDescription: "Backend engineer on the platform team.",
		Features: []types.Feature{
			{Name: "golang", Weight: 0.9, Kind: types.KindTechnical},
			{Name: "kubernetes", Weight: 0.5, Kind: types.KindTechnical},
		},
	}
}

func testCandidates() []Candidate {
	mk := func(id int, marker string) Candidate {
		return Candidate{
			ID: id,
			Documents: []documents.Document{
				{Name: "resume.txt", Kind: documents.KindResume, Content: marker + ", backend engineer."},
			},
		}
	}
	return []Candidate{mk(1, "Alice Chen"), mk(2, "Bob Lee"), mk(3, "Carol Diaz")}
}

func defaultScores() map[string][2]float64 {
	return map[string][2]float64{
		"Alice Chen": {0.9, 0.8},
		"Bob Lee":    {0.6, 0.5},
		"Carol Diaz": {0.3, 0.2},
	}
}

func TestEvaluateBatch_RanksAllCandidates(t *testing.T) {
	client := &fakeClient{scores: defaultScores()}
	runner := NewRunner(client, nil, nil)

	result, err := runner.EvaluateBatch(context.Background(), Options{
		Requirements: testRequirements(),
		Candidates:   testCandidates(),
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Aborted)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Evaluations, 3)
	require.Len(t, result.Ranking, 3)

	// Descending affinity: Alice, Bob, Carol.
	assert.Equal(t, 1, result.Ranking[0].Rank)
	assert.Equal(t, 1, result.Ranking[0].Evaluation.CandidateID)
	assert.Equal(t, 2, result.Ranking[1].Evaluation.CandidateID)
	assert.Equal(t, 3, result.Ranking[2].Evaluation.CandidateID)

	// Affinity is recomputed from scores and weights, not taken from the
	// model's 0.99 claim. Alice: (0.9*0.9 + 0.8*0.5) / 1.4.
	assert.InDelta(t, 0.8643, result.Ranking[0].Evaluation.AffinityScore, 0.001)
	assert.InDelta(t, 0.5643, result.Ranking[1].Evaluation.AffinityScore, 0.001)
	assert.InDelta(t, 0.2643, result.Ranking[2].Evaluation.AffinityScore, 0.001)

	// Evaluations come back in candidate-id order regardless of scheduling.
	for i, eval := range result.Evaluations {
		assert.Equal(t, i+1, eval.CandidateID)
	}
}

func TestEvaluateBatch_PerCandidateFailureDoesNotAbort(t *testing.T) {
	client := &fakeClient{scores: defaultScores(), failFor: "Bob Lee"}
	runner := NewRunner(client, nil, nil)

	result, err := runner.EvaluateBatch(context.Background(), Options{
		Requirements: testRequirements(),
		Candidates:   testCandidates(),
	})
	require.NoError(t, err)

	assert.False(t, result.Aborted)
	assert.Len(t, result.Evaluations, 2)
	assert.Len(t, result.Ranking, 2)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].CandidateID)
	assert.Equal(t, StageEvaluation, result.Errors[0].Stage)

	assert.Equal(t, 1, result.Ranking[0].Evaluation.CandidateID)
	assert.Equal(t, 3, result.Ranking[1].Evaluation.CandidateID)
}

func TestEvaluateBatch_AuthErrorAborts(t *testing.T) {
	client := &fakeClient{scores: defaultScores(), authFor: "Bob Lee"}
	runner := NewRunner(client, nil, nil)

	result, err := runner.EvaluateBatch(context.Background(), Options{
		Requirements:      testRequirements(),
		Candidates:        testCandidates(),
		MaxConcurrency:    1,
		GenerateQuestions: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Aborted)

	// Alice completed before the fatal error and survives the abort.
	require.Len(t, result.Evaluations, 1)
	assert.Equal(t, 1, result.Evaluations[0].CandidateID)
	require.Len(t, result.Ranking, 1)

	// Bob and Carol both carry error tags; no candidate is silently dropped.
	// Neither failure is an evaluation verdict: Bob triggered the abort and
	// Carol was canceled mid-flight, so both are tagged as canceled.
	stages := make(map[int]string)
	for _, e := range result.Errors {
		stages[e.CandidateID] = e.Stage
	}
	assert.Equal(t, StageCanceled, stages[2])
	assert.Equal(t, StageCanceled, stages[3])
	for _, e := range result.Errors {
		assert.NotEqual(t, StageEvaluation, e.Stage)
	}

	// Synthesis never runs on an aborted batch.
	assert.Empty(t, result.Questions)
}

func TestEvaluateBatch_SynthesisSplit(t *testing.T) {
	client := &fakeClient{scores: defaultScores()}
	runner := NewRunner(client, nil, nil)

	result, err := runner.EvaluateBatch(context.Background(), Options{
		Requirements:      testRequirements(),
		Candidates:        testCandidates(),
		TopK:              1,
		GenerateQuestions: true,
		GenerateFeedback:  true,
	})
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	// Top-1 gets questions, everyone else gets feedback.
	require.Len(t, result.Questions, 1)
	qs, ok := result.Questions[1]
	require.True(t, ok)
	assert.Equal(t, 1, qs.CandidateID)
	assert.Equal(t, 12, qs.TotalQuestions)
	assert.InDelta(t, 0.8643, qs.CandidateAffinityScore, 0.001)

	require.Len(t, result.Feedback, 2)
	for _, id := range []int{2, 3} {
		fb, ok := result.Feedback[id]
		require.True(t, ok, "missing feedback for candidate %d", id)
		assert.Equal(t, id, fb.CandidateID)
	}
}

func TestEvaluateBatch_NoSynthesisWithoutFlags(t *testing.T) {
	client := &fakeClient{scores: defaultScores()}
	runner := NewRunner(client, nil, nil)

	result, err := runner.EvaluateBatch(context.Background(), Options{
		Requirements: testRequirements(),
		Candidates:   testCandidates(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Questions)
	assert.Empty(t, result.Feedback)
}

func TestEvaluateBatch_InvalidRequirements(t *testing.T) {
	runner := NewRunner(&fakeClient{}, nil, nil)

	_, err := runner.EvaluateBatch(context.Background(), Options{})
	assert.Error(t, err)

	_, err = runner.EvaluateBatch(context.Background(), Options{
		Requirements: &types.JobRequirements{},
	})
	assert.Error(t, err)
}

func cannedQuestion(qt types.QuestionType, n int) types.Question {
	return types.Question{
		Text:            fmt.Sprintf("Question %d about the role.", n),
		Type:            qt,
		TargetSkill:     "golang",
		Difficulty:      "medium",
		Rationale:       "Targets an identified evaluation signal.",
		ExpectedSignals: []string{"concrete project experience"},
	}
}

func cannedQuestionSet() types.QuestionSet {
	fill := func(qt types.QuestionType, n int) []types.Question {
		qs := make([]types.Question, n)
		for i := range qs {
			qs[i] = cannedQuestion(qt, i+1)
		}
		return qs
	}
	return types.QuestionSet{
		GapProbingQuestions:     fill(types.QuestionGapProbing, types.GapProbingCount),
		DepthValidationQuestion: fill(types.QuestionDepthValidation, types.DepthValidationCount),
		BehavioralQuestions:     fill(types.QuestionBehavioral, types.BehavioralCount),
		TechnicalQuestions:      fill(types.QuestionTechnical, types.TechnicalCount),
		RoleSpecificQuestions:   fill(types.QuestionRoleSpecific, types.RoleSpecificCount),
	}
}

func cannedFeedback() types.CandidateFeedback {
	return types.CandidateFeedback{
		ProfileSummary: types.ProfileSummary{
			OverallAssessment:     "Solid mid-level backend engineer.",
			StandoutQualities:     []string{"clear ownership of services", "strong debugging instincts"},
			CareerStageAssessment: "Mid-level, trending senior.",
		},
		TechnicalStrengths: []types.TechnicalStrength{
			{SkillArea: "Go services", Evidence: "Built several production APIs.", ProficiencyLevel: "Advanced"},
			{SkillArea: "SQL", Evidence: "Schema design on two projects.", ProficiencyLevel: "Intermediate"},
			{SkillArea: "Testing", Evidence: "Consistent test coverage in work samples.", ProficiencyLevel: "Intermediate"},
		},
		ImprovementAreas: []types.ImprovementArea{
			cannedImprovement("Kubernetes"),
			cannedImprovement("Observability"),
			cannedImprovement("System design"),
		},
		IndustryAlignmentScore: 0.55,
		NextStepsSummary:       "Focus on container orchestration fundamentals over the next quarter.",
	}
}

func cannedImprovement(dim string) types.ImprovementArea {
	return types.ImprovementArea{
		Dimension:         dim,
		CurrentGap:        "Limited production exposure.",
		ImportanceContext: "Core to the target role.",
		ActionableRecommendations: []string{
			"Complete a hands-on project in this area.",
			"Shadow an experienced teammate on incidents.",
			"Present learnings to the team.",
		},
		EstimatedTimeline: "medium_term",
	}
}
