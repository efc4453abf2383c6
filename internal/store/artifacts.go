package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Artifact step names. Per-candidate steps are scoped with CandidateStep.
const (
	StepRequirements = "job_requirements"
	StepCorpus       = "corpus"
	StepEvaluation   = "evaluation"
	StepRanking      = "ranking"
	StepFeedback     = "feedback"
	StepQuestions    = "questions"
	StepErrors       = "errors"
)

// Artifact categories
const (
	CategoryIngestion  = "ingestion"
	CategoryEvaluation = "evaluation"
	CategoryScoring    = "scoring"
	CategoryFeedback   = "feedback"
	CategoryQuestions  = "questions"
)

// CandidateStep scopes a step name to one candidate, e.g. "evaluation:42".
func CandidateStep(step string, candidateID int) string {
	return fmt.Sprintf("%s:%d", step, candidateID)
}

// SaveArtifact stores a JSON artifact for an evaluation run
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
		runID, step, category, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// SaveTextArtifact stores a text artifact (like a raw corpus) for a run
func (db *DB) SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, category, text string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, text_content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, text_content = $4, created_at = NOW()`,
		runID, step, category, text,
	)
	if err != nil {
		return fmt.Errorf("failed to save text artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a JSON artifact by run ID and step
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetEvaluationByRun loads one candidate's evaluation from a run
func (db *DB) GetEvaluationByRun(ctx context.Context, runID uuid.UUID, candidateID int) (*types.CandidateEvaluation, error) {
	content, err := db.GetArtifact(ctx, runID, CandidateStep(StepEvaluation, candidateID))
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var eval types.CandidateEvaluation
	if err := json.Unmarshal(content, &eval); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evaluation: %w", err)
	}
	return &eval, nil
}

// GetRankingByRun loads the ranking artifact from a run
func (db *DB) GetRankingByRun(ctx context.Context, runID uuid.UUID) ([]types.RankedCandidate, error) {
	content, err := db.GetArtifact(ctx, runID, StepRanking)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var ranking []types.RankedCandidate
	if err := json.Unmarshal(content, &ranking); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ranking: %w", err)
	}
	return ranking, nil
}

// GetFeedbackByRun loads one candidate's feedback from a run
func (db *DB) GetFeedbackByRun(ctx context.Context, runID uuid.UUID, candidateID int) (*types.CandidateFeedback, error) {
	content, err := db.GetArtifact(ctx, runID, CandidateStep(StepFeedback, candidateID))
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var fb types.CandidateFeedback
	if err := json.Unmarshal(content, &fb); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feedback: %w", err)
	}
	return &fb, nil
}

// GetQuestionSetByRun loads one candidate's question set from a run
func (db *DB) GetQuestionSetByRun(ctx context.Context, runID uuid.UUID, candidateID int) (*types.QuestionSet, error) {
	content, err := db.GetArtifact(ctx, runID, CandidateStep(StepQuestions, candidateID))
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var qs types.QuestionSet
	if err := json.Unmarshal(content, &qs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question set: %w", err)
	}
	return &qs, nil
}

// GetRequirementsByRun loads the job requirements artifact from a run
func (db *DB) GetRequirementsByRun(ctx context.Context, runID uuid.UUID) (*types.JobRequirements, error) {
	content, err := db.GetArtifact(ctx, runID, StepRequirements)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var req types.JobRequirements
	if err := json.Unmarshal(content, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requirements: %w", err)
	}
	return &req, nil
}
