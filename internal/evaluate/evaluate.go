// Package evaluate scores one candidate's evidence corpus against a job's
// weighted feature set via a structured model request, then derives the
// affinity score locally. The model's own affinity estimate is never trusted.
package evaluate

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/documents"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/prompts"
	"github.com/jonathan/candidate-ranker/internal/recovery"
	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/scoring"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Evaluator runs per-candidate evaluations against a fixed model client.
type Evaluator struct {
	recoverer *recovery.Recoverer
	logger    *zap.Logger
}

// NewEvaluator builds an Evaluator. Scoring uses the standard model tier.
func NewEvaluator(client llm.Client, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		recoverer: recovery.NewRecoverer(client, llm.TierStandard, logger),
		logger:    logger,
	}
}

// evaluationSchema builds the request schema for candidate evaluation. The
// JSON Schema document is embedded; a missing schema is a build defect, so
// load failures panic at first use.
func evaluationSchema() llm.Schema {
	jsonSchema, err := schemas.Load(schemas.CandidateEvaluation)
	if err != nil {
		panic(fmt.Sprintf("embedded evaluation schema missing: %v", err))
	}
	return llm.Schema{
		Name:        "CandidateEvaluation",
		Description: prompts.MustGet("evaluation.json", "system"),
		Fields: []llm.SchemaField{
			{
				Name:        "feature_scores",
				Type:        `[{"name": string, "score": number, "evidence": string}]`,
				Description: "one entry per requirement feature, score in [0.0, 1.0]",
				Required:    true,
			},
			{
				Name:        "affinity_score",
				Type:        "number",
				Description: "weighted average of the feature scores",
			},
		},
		JSONSchema: jsonSchema,
	}
}

// Evaluate scores a candidate's corpus against the job requirements.
//
// Invalid requirements and an empty corpus are input errors, rejected before
// any dispatch. Model scores are clamped into [0,1]; the affinity score is
// recomputed from the clamped scores and the requirement weights.
func (e *Evaluator) Evaluate(ctx context.Context, candidateID int, corpus *documents.Corpus, req *types.JobRequirements) (*types.CandidateEvaluation, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job requirements: %w", err)
	}
	featureSet, err := req.FeatureSet()
	if err != nil {
		return nil, fmt.Errorf("invalid job requirements: %w", err)
	}

	evidence, err := buildEvidence(corpus, req)
	if err != nil {
		return nil, err
	}

	instruction := prompts.Format(
		prompts.MustGet("evaluation.json", "evaluate_instruction"),
		map[string]string{"DocumentSummary": corpus.Summary()},
	)

	genReq, err := llm.BuildScoringRequest(evaluationSchema(), instruction, evidence)
	if err != nil {
		return nil, err
	}

	e.logger.Info("evaluating candidate",
		zap.Int("candidate_id", candidateID),
		zap.Int("features", len(req.Features)),
		zap.Strings("sources", corpus.Sources))

	var resp types.EvaluationResponse
	if err := e.recoverer.Dispatch(ctx, genReq, &resp); err != nil {
		return nil, fmt.Errorf("candidate %d evaluation failed: %w", candidateID, err)
	}

	scores := make([]types.FeatureScore, len(resp.FeatureScores))
	for i, fs := range resp.FeatureScores {
		fs.Score = scoring.ClampScore(fs.Score)
		scores[i] = fs
	}

	affinity, err := scoring.Affinity(scores, featureSet)
	if err != nil {
		return nil, fmt.Errorf("candidate %d affinity undefined: %w", candidateID, err)
	}

	e.logger.Info("candidate evaluated",
		zap.Int("candidate_id", candidateID),
		zap.Float64("affinity_score", affinity))

	return &types.CandidateEvaluation{
		CandidateID:   candidateID,
		FeatureScores: scores,
		AffinityScore: affinity,
	}, nil
}

// buildEvidence joins the corpus text with the requirements artifact into the
// grounding block of the scoring prompt.
func buildEvidence(corpus *documents.Corpus, req *types.JobRequirements) (string, error) {
	if corpus == nil || corpus.Empty() {
		return "", llm.ErrNoEvidence
	}
	reqJSON, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode requirements: %w", err)
	}
	return fmt.Sprintf("Candidate Information:\n%s\n\nRequirements:\n%s", corpus.Text, string(reqJSON)), nil
}
