// Package feedback synthesizes structured development feedback for a
// candidate from their evaluation and evidence corpus. Feedback is grounded
// in the scorer's gap/strength classification, not re-derived by the model.
package feedback

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/documents"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/prompts"
	"github.com/jonathan/candidate-ranker/internal/recovery"
	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/scoring"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Generator produces candidate feedback artifacts.
type Generator struct {
	recoverer  *recovery.Recoverer
	thresholds scoring.Thresholds
	logger     *zap.Logger
}

// NewGenerator builds a Generator. Feedback synthesis uses the advanced model
// tier and the standard classification thresholds.
func NewGenerator(client llm.Client, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		recoverer:  recovery.NewRecoverer(client, llm.TierAdvanced, logger),
		thresholds: scoring.DefaultThresholds(),
		logger:     logger,
	}
}

func feedbackSchema() llm.Schema {
	jsonSchema, err := schemas.Load(schemas.CandidateFeedback)
	if err != nil {
		panic(fmt.Sprintf("embedded feedback schema missing: %v", err))
	}
	return llm.Schema{
		Name:        "CandidateFeedback",
		Description: prompts.MustGet("feedback.json", "system"),
		Fields: []llm.SchemaField{
			{
				Name:        "profile_summary",
				Type:        `{"overall_assessment": string, "standout_qualities": [string], "career_stage_assessment": string}`,
				Description: "2-3 standout qualities",
				Required:    true,
			},
			{
				Name:        "technical_strengths",
				Type:        `[{"skill_area": string, "evidence": string, "proficiency_level": string}]`,
				Description: "3-5 entries, proficiency one of Foundational|Intermediate|Advanced|Expert",
				Required:    true,
			},
			{
				Name:        "improvement_areas",
				Type:        `[{"dimension": string, "current_gap": string, "importance_context": string, "actionable_recommendations": [string], "estimated_timeline": string}]`,
				Description: "3-4 entries, 3-5 recommendations each, timeline one of short_term|medium_term|long_term",
				Required:    true,
			},
			{
				Name:        "industry_alignment_score",
				Type:        "number",
				Description: "overall industry readiness in [0.0, 1.0]",
				Required:    true,
			},
			{
				Name:        "next_steps_summary",
				Type:        "string",
				Description: "2-3 sentence summary of highest-impact next actions",
				Required:    true,
			},
		},
		JSONSchema: jsonSchema,
	}
}

// Generate synthesizes feedback for one evaluated candidate. Cardinality
// bounds (3-5 strengths, 3-4 improvement areas, 3-5 recommendations each) are
// enforced by the recovery chain; a violating response is re-requested rather
// than trimmed.
func (g *Generator) Generate(ctx context.Context, eval *types.CandidateEvaluation, req *types.JobRequirements, corpus *documents.Corpus) (*types.CandidateFeedback, error) {
	featureSet, err := req.FeatureSet()
	if err != nil {
		return nil, fmt.Errorf("invalid job requirements: %w", err)
	}
	classified, err := scoring.Classify(eval.FeatureScores, featureSet, g.thresholds)
	if err != nil {
		return nil, fmt.Errorf("cannot classify candidate %d scores: %w", eval.CandidateID, err)
	}

	instruction := prompts.Format(
		prompts.MustGet("feedback.json", "generate_instruction"),
		map[string]string{
			"Company":       companyLabel(req),
			"AffinityScore": fmt.Sprintf("%.2f", eval.AffinityScore),
			"ScoresSummary": scoresSummary(classified),
			"WeakAreas":     weakAreas(scoring.Gaps(classified)),
		},
	)

	if corpus == nil || corpus.Empty() {
		return nil, llm.ErrNoEvidence
	}
	genReq, err := llm.BuildGenerationRequest(feedbackSchema(), instruction, corpus.Text)
	if err != nil {
		return nil, err
	}

	g.logger.Info("generating candidate feedback",
		zap.Int("candidate_id", eval.CandidateID),
		zap.Int("gaps", len(scoring.Gaps(classified))),
		zap.Int("strengths", len(scoring.Strengths(classified))))

	var fb types.CandidateFeedback
	if err := g.recoverer.Dispatch(ctx, genReq, &fb); err != nil {
		return nil, fmt.Errorf("candidate %d feedback generation failed: %w", eval.CandidateID, err)
	}

	fb.CandidateID = eval.CandidateID
	return &fb, nil
}

func companyLabel(req *types.JobRequirements) string {
	if req.Company == "" {
		return "the hiring company"
	}
	return req.Company
}

func scoresSummary(classified []scoring.ClassifiedFeature) string {
	lines := make([]string, 0, len(classified))
	for _, cf := range classified {
		lines = append(lines, fmt.Sprintf("- %s: %.2f (weight: %.1f)", cf.Name, cf.Score, cf.Weight))
	}
	return strings.Join(lines, "\n")
}

func weakAreas(gaps []scoring.ClassifiedFeature) string {
	if len(gaps) == 0 {
		return "No significant weak areas identified"
	}
	lines := make([]string, 0, len(gaps))
	for _, cf := range gaps {
		lines = append(lines, fmt.Sprintf("- %s: %.2f (weight: %.1f)", cf.Name, cf.Score, cf.Weight))
	}
	return strings.Join(lines, "\n")
}
