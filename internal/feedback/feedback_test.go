package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-ranker/internal/documents"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/types"
)

type fakeClient struct {
	value      any
	lastPrompt string
}

func (f *fakeClient) Generate(_ context.Context, req *llm.GenerationRequest, _ llm.ModelTier) (*llm.ModelResponse, error) {
	f.lastPrompt = req.Prompt
	return &llm.ModelResponse{Value: f.value}, nil
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

func validFeedback() types.CandidateFeedback {
	return types.CandidateFeedback{
		ProfileSummary: types.ProfileSummary{
			OverallAssessment:     "Capable engineer with room to grow.",
			StandoutQualities:     []string{"self-directed learning", "clear written communication"},
			CareerStageAssessment: "Mid-level.",
		},
		TechnicalStrengths: []types.TechnicalStrength{
			{SkillArea: "Go", Evidence: "Production services.", ProficiencyLevel: "Advanced"},
			{SkillArea: "SQL", Evidence: "Schema work.", ProficiencyLevel: "Intermediate"},
			{SkillArea: "CI", Evidence: "Pipeline ownership.", ProficiencyLevel: "Intermediate"},
		},
		ImprovementAreas: []types.ImprovementArea{
			area("Kubernetes"), area("Observability"), area("System design"),
		},
		IndustryAlignmentScore: 0.6,
		NextStepsSummary:       "Prioritize orchestration experience.",
	}
}

func area(dim string) types.ImprovementArea {
	return types.ImprovementArea{
		Dimension:         dim,
		CurrentGap:        "Limited exposure.",
		ImportanceContext: "Required by the role.",
		ActionableRecommendations: []string{
			"Build a small project.",
			"Pair with a senior engineer.",
			"Read the team runbooks.",
		},
		EstimatedTimeline: "short_term",
	}
}

func testEvaluation() *types.CandidateEvaluation {
	return &types.CandidateEvaluation{
		CandidateID: 4,
		FeatureScores: []types.FeatureScore{
			{Name: "golang", Score: 0.8},
			{Name: "kubernetes", Score: 0.2},
		},
		AffinityScore: 0.59,
	}
}

func testRequirements() *types.JobRequirements {
	return &types.JobRequirements{
		Company: "Initech",
		Features: []types.Feature{
			{Name: "golang", Weight: 0.9},
			{Name: "kubernetes", Weight: 0.7},
		},
	}
}

func testCorpus() *documents.Corpus {
	return documents.Aggregate([]documents.Document{
		{Name: "resume.txt", Kind: documents.KindResume, Content: "Backend engineer."},
	})
}

func TestGenerate(t *testing.T) {
	client := &fakeClient{value: validFeedback()}
	g := NewGenerator(client, nil)

	fb, err := g.Generate(context.Background(), testEvaluation(), testRequirements(), testCorpus())
	require.NoError(t, err)

	assert.Equal(t, 4, fb.CandidateID)
	assert.Len(t, fb.TechnicalStrengths, 3)

	// The prompt carries the classification, not raw scores alone: kubernetes
	// at 0.2 with weight 0.7 is a weak area.
	assert.Contains(t, client.lastPrompt, "Initech")
	assert.Contains(t, client.lastPrompt, "0.59")
	assert.Contains(t, client.lastPrompt, "kubernetes: 0.20")
}

func TestGenerate_NoWeakAreas(t *testing.T) {
	client := &fakeClient{value: validFeedback()}
	g := NewGenerator(client, nil)

	eval := &types.CandidateEvaluation{
		CandidateID: 1,
		FeatureScores: []types.FeatureScore{
			{Name: "golang", Score: 0.9},
			{Name: "kubernetes", Score: 0.8},
		},
		AffinityScore: 0.86,
	}

	_, err := g.Generate(context.Background(), eval, testRequirements(), testCorpus())
	require.NoError(t, err)
	assert.Contains(t, client.lastPrompt, "No significant weak areas identified")
}

func TestGenerate_EmptyCorpus(t *testing.T) {
	g := NewGenerator(&fakeClient{value: validFeedback()}, nil)

	_, err := g.Generate(context.Background(), testEvaluation(), testRequirements(), nil)
	assert.ErrorIs(t, err, llm.ErrNoEvidence)

	_, err = g.Generate(context.Background(), testEvaluation(), testRequirements(), documents.Aggregate(nil))
	assert.ErrorIs(t, err, llm.ErrNoEvidence)
}

func TestGenerate_CardinalityViolationRejected(t *testing.T) {
	bad := validFeedback()
	bad.TechnicalStrengths = bad.TechnicalStrengths[:2] // below the minimum of 3

	g := NewGenerator(&fakeClient{value: bad}, nil)
	_, err := g.Generate(context.Background(), testEvaluation(), testRequirements(), testCorpus())
	assert.Error(t, err)
}

func TestGenerate_UnknownFeatureInEvaluation(t *testing.T) {
	g := NewGenerator(&fakeClient{value: validFeedback()}, nil)

	eval := &types.CandidateEvaluation{
		CandidateID:   1,
		FeatureScores: []types.FeatureScore{{Name: "cobol", Score: 0.5}},
	}
	_, err := g.Generate(context.Background(), eval, testRequirements(), testCorpus())
	assert.Error(t, err)
}
