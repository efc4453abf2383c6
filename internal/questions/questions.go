// Package questions generates typed interview question sets for evaluated
// candidates. Question targeting follows the scorer's classification: gap
// probing for low-scored heavy features, depth validation for high-scored
// ones.
package questions

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/prompts"
	"github.com/jonathan/candidate-ranker/internal/recovery"
	"github.com/jonathan/candidate-ranker/internal/schemas"
	"github.com/jonathan/candidate-ranker/internal/scoring"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Generator produces interview question sets.
type Generator struct {
	recoverer  *recovery.Recoverer
	thresholds scoring.Thresholds
	logger     *zap.Logger
}

// NewGenerator builds a Generator. Question design uses the advanced model
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

func questionSchema() llm.Schema {
	jsonSchema, err := schemas.Load(schemas.QuestionSet)
	if err != nil {
		panic(fmt.Sprintf("embedded question schema missing: %v", err))
	}
	questionType := `[{"question_text": string, "question_type": string, "target_skill": string, "difficulty_level": string, "rationale": string, "expected_signals": [string]}]`
	return llm.Schema{
		Name:        "QuestionSet",
		Description: prompts.MustGet("questions.json", "system"),
		Fields: []llm.SchemaField{
			{Name: "gap_probing_questions", Type: questionType, Description: "exactly 3 questions probing identified gaps", Required: true},
			{Name: "depth_validation_questions", Type: questionType, Description: "exactly 2 questions validating identified strengths", Required: true},
			{Name: "behavioral_questions", Type: questionType, Description: "exactly 2 behavioral questions", Required: true},
			{Name: "technical_questions", Type: questionType, Description: "exactly 3 technical questions", Required: true},
			{Name: "role_specific_questions", Type: questionType, Description: "exactly 2 role-specific questions", Required: true},
		},
		JSONSchema: jsonSchema,
	}
}

// Generate designs the question set for one evaluated candidate. Partition
// counts are fixed; a response with wrong counts or mislabeled partitions is
// re-requested by the recovery chain.
func (g *Generator) Generate(ctx context.Context, eval *types.CandidateEvaluation, req *types.JobRequirements) (*types.QuestionSet, error) {
	featureSet, err := req.FeatureSet()
	if err != nil {
		return nil, fmt.Errorf("invalid job requirements: %w", err)
	}
	classified, err := scoring.Classify(eval.FeatureScores, featureSet, g.thresholds)
	if err != nil {
		return nil, fmt.Errorf("cannot classify candidate %d scores: %w", eval.CandidateID, err)
	}

	instruction := prompts.Format(
		prompts.MustGet("questions.json", "generate_instruction"),
		map[string]string{
			"Company":       companyLabel(req),
			"AffinityScore": fmt.Sprintf("%.2f", eval.AffinityScore),
			"ScoresSummary": featureLines(classified),
			"Gaps":          classLines(scoring.Gaps(classified), "No significant gaps identified"),
			"Strengths":     classLines(scoring.Strengths(classified), "No standout strengths identified"),
		},
	)

	evidence := buildEvidence(req)
	genReq, err := llm.BuildGenerationRequest(questionSchema(), instruction, evidence)
	if err != nil {
		return nil, err
	}

	g.logger.Info("generating interview questions",
		zap.Int("candidate_id", eval.CandidateID),
		zap.Float64("affinity_score", eval.AffinityScore))

	var qs types.QuestionSet
	if err := g.recoverer.Dispatch(ctx, genReq, &qs); err != nil {
		return nil, fmt.Errorf("candidate %d question generation failed: %w", eval.CandidateID, err)
	}

	qs.CandidateID = eval.CandidateID
	qs.CandidateAffinityScore = eval.AffinityScore
	qs.Recount()
	return &qs, nil
}

func companyLabel(req *types.JobRequirements) string {
	if req.Company == "" {
		return "the hiring company"
	}
	return req.Company
}

// buildEvidence grounds question design in the role itself: the description
// plus the weighted feature list.
func buildEvidence(req *types.JobRequirements) string {
	var sb strings.Builder
	sb.WriteString("Role Company: ")
	sb.WriteString(companyLabel(req))
	sb.WriteString("\n\nRole Description:\n")
	if req.JobDescription != "" {
		sb.WriteString(req.JobDescription)
	} else {
		sb.WriteString("(not provided)")
	}
	sb.WriteString("\n\nKey Features:\n")
	for _, f := range req.Features {
		fmt.Fprintf(&sb, "- %s (weight %.2f)\n", f.Name, f.Weight)
	}
	return sb.String()
}

func featureLines(classified []scoring.ClassifiedFeature) string {
	lines := make([]string, 0, len(classified))
	for _, cf := range classified {
		lines = append(lines, fmt.Sprintf("- %s: score %.2f (weight %.2f)", cf.Name, cf.Score, cf.Weight))
	}
	return strings.Join(lines, "\n")
}

func classLines(features []scoring.ClassifiedFeature, empty string) string {
	if len(features) == 0 {
		return empty
	}
	lines := make([]string, 0, len(features))
	for _, cf := range features {
		lines = append(lines, fmt.Sprintf("- %s: score %.2f (weight %.2f)", cf.Name, cf.Score, cf.Weight))
	}
	return strings.Join(lines, "\n")
}
