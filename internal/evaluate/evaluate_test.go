package evaluate

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
	text       string
	lastPrompt string
}

func (f *fakeClient) Generate(_ context.Context, req *llm.GenerationRequest, _ llm.ModelTier) (*llm.ModelResponse, error) {
	f.lastPrompt = req.Prompt
	return &llm.ModelResponse{Text: f.text}, nil
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

func testRequirements() *types.JobRequirements {
	return &types.JobRequirements{
		Company: "Initech",
		Features: []types.Feature{
			{Name: "golang", Weight: 0.9},
			{Name: "kubernetes", Weight: 0.5},
		},
	}
}

func testCorpus() *documents.Corpus {
	return documents.Aggregate([]documents.Document{
		{Name: "resume.txt", Kind: documents.KindResume, Content: "Backend engineer, 8 years of Go."},
	})
}

func TestEvaluate(t *testing.T) {
	client := &fakeClient{text: `{
		"feature_scores": [
			{"name": "golang", "score": 0.9, "evidence": "8 years"},
			{"name": "kubernetes", "score": 0.4}
		],
		"affinity_score": 0.12
	}`}
	e := NewEvaluator(client, nil)

	eval, err := e.Evaluate(context.Background(), 7, testCorpus(), testRequirements())
	require.NoError(t, err)

	assert.Equal(t, 7, eval.CandidateID)
	require.Len(t, eval.FeatureScores, 2)

	// (0.9*0.9 + 0.4*0.5) / 1.4, not the model's 0.12.
	assert.InDelta(t, 0.7214, eval.AffinityScore, 0.001)

	// The prompt grounds the model in the corpus and the requirements.
	assert.Contains(t, client.lastPrompt, "8 years of Go")
	assert.Contains(t, client.lastPrompt, "Initech")
	assert.Contains(t, client.lastPrompt, "1 document(s)")
}

func TestEvaluate_ClampsScores(t *testing.T) {
	client := &fakeClient{text: `{
		"feature_scores": [
			{"name": "golang", "score": 1.7},
			{"name": "kubernetes", "score": -0.3}
		]
	}`}
	e := NewEvaluator(client, nil)

	eval, err := e.Evaluate(context.Background(), 1, testCorpus(), testRequirements())
	require.NoError(t, err)

	assert.Equal(t, 1.0, eval.FeatureScores[0].Score)
	assert.Equal(t, 0.0, eval.FeatureScores[1].Score)
	// (1.0*0.9 + 0.0*0.5) / 1.4
	assert.InDelta(t, 0.6429, eval.AffinityScore, 0.001)
}

func TestEvaluate_UnknownFeatureFails(t *testing.T) {
	client := &fakeClient{text: `{
		"feature_scores": [{"name": "blockchain", "score": 0.9}]
	}`}
	e := NewEvaluator(client, nil)

	_, err := e.Evaluate(context.Background(), 1, testCorpus(), testRequirements())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blockchain")
}

func TestEvaluate_EmptyCorpus(t *testing.T) {
	e := NewEvaluator(&fakeClient{}, nil)

	_, err := e.Evaluate(context.Background(), 1, documents.Aggregate(nil), testRequirements())
	assert.ErrorIs(t, err, llm.ErrNoEvidence)

	_, err = e.Evaluate(context.Background(), 1, nil, testRequirements())
	assert.ErrorIs(t, err, llm.ErrNoEvidence)
}

func TestEvaluate_InvalidRequirements(t *testing.T) {
	e := NewEvaluator(&fakeClient{}, nil)

	_, err := e.Evaluate(context.Background(), 1, testCorpus(), &types.JobRequirements{})
	assert.Error(t, err)

	dup := &types.JobRequirements{Features: []types.Feature{
		{Name: "golang", Weight: 0.5},
		{Name: "golang", Weight: 0.7},
	}}
	_, err = e.Evaluate(context.Background(), 1, testCorpus(), dup)
	assert.Error(t, err)
}
