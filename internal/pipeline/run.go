// Package pipeline orchestrates the candidate evaluation run: aggregate each
// candidate's documents, evaluate against the job requirements, rank by
// affinity, then generate interview questions for the top candidates and
// feedback for the rest.
package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-ranker/internal/documents"
	"github.com/jonathan/candidate-ranker/internal/evaluate"
	"github.com/jonathan/candidate-ranker/internal/feedback"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/questions"
	"github.com/jonathan/candidate-ranker/internal/scoring"
	"github.com/jonathan/candidate-ranker/internal/store"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// DefaultMaxConcurrency bounds the evaluation fan-out.
const DefaultMaxConcurrency = 4

// DefaultTopK is how many top-ranked candidates get interview questions.
const DefaultTopK = 3

// Candidate is one candidate's identity plus their evidence documents.
type Candidate struct {
	ID        int
	Documents []documents.Document
}

// Options configures a batch run.
type Options struct {
	Requirements *types.JobRequirements
	Candidates   []Candidate

	MaxConcurrency int
	TopK           int

	// GenerateQuestions produces question sets for the top-K ranked
	// candidates; GenerateFeedback produces feedback for everyone else.
	GenerateQuestions bool
	GenerateFeedback  bool

	DatabaseURL string
}

// CandidateError tags a per-candidate failure with the stage it happened in.
type CandidateError struct {
	CandidateID int    `json:"candidate_id"`
	Stage       string `json:"stage"`
	Message     string `json:"message"`
	Err         error  `json:"-"`
}

// Stages for error tags
const (
	StageEvaluation = "evaluation"
	StageFeedback   = "feedback"
	StageQuestions  = "questions"
	StageCanceled   = "canceled"
)

// BatchResult carries everything a run produced. On a fatal abort the
// completed evaluations are still present and persisted.
type BatchResult struct {
	RunID       uuid.UUID                        `json:"run_id,omitempty"`
	Evaluations []types.CandidateEvaluation      `json:"evaluations"`
	Ranking     []types.RankedCandidate          `json:"ranking"`
	Feedback    map[int]*types.CandidateFeedback `json:"feedback,omitempty"`
	Questions   map[int]*types.QuestionSet       `json:"questions,omitempty"`
	Errors      []CandidateError                 `json:"errors,omitempty"`
	Aborted     bool                             `json:"aborted,omitempty"`
}

// Runner wires the per-stage workers to one model client and logger.
type Runner struct {
	evaluator *evaluate.Evaluator
	feedback  *feedback.Generator
	questions *questions.Generator
	logger    *zap.Logger
	db        *store.DB
}

// NewRunner builds a Runner. db may be nil for runs without persistence.
func NewRunner(client llm.Client, db *store.DB, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		evaluator: evaluate.NewEvaluator(client, logger),
		feedback:  feedback.NewGenerator(client, logger),
		questions: questions.NewGenerator(client, logger),
		logger:    logger,
		db:        db,
	}
}

// EvaluateBatch runs the full pipeline over the candidate set.
//
// Evaluations fan out up to MaxConcurrency; each candidate's own chain is
// strictly sequential. Per-candidate failures become error tags and the batch
// continues. A fatal error (auth/config) cancels the remaining candidates but
// the completed evaluations are preserved, ranked, and persisted.
func (r *Runner) EvaluateBatch(ctx context.Context, opts Options) (*BatchResult, error) {
	if opts.Requirements == nil {
		return nil, errors.New("job requirements are required")
	}
	if err := opts.Requirements.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}

	result := &BatchResult{
		Feedback:  make(map[int]*types.CandidateFeedback),
		Questions: make(map[int]*types.QuestionSet),
	}

	runID := r.createRun(ctx, opts)
	result.RunID = runID

	corpora := r.runEvaluations(ctx, opts, result)

	// Rank whatever completed. Order is deterministic: descending affinity,
	// ties broken by ascending candidate id.
	result.Ranking = scoring.Rank(result.Evaluations)
	r.saveArtifact(ctx, runID, store.StepRanking, store.CategoryScoring, result.Ranking)

	if !result.Aborted && (opts.GenerateQuestions || opts.GenerateFeedback) {
		r.runSynthesis(ctx, opts, result, corpora)
	}

	r.completeRun(ctx, runID, result)
	return result, nil
}

// runEvaluations fans out per-candidate evaluation and returns each
// successful candidate's corpus for the synthesis stage.
func (r *Runner) runEvaluations(ctx context.Context, opts Options, result *BatchResult) map[int]*documents.Corpus {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxConcurrency)

	var mu sync.Mutex
	corpora := make(map[int]*documents.Corpus)
	attempted := make(map[int]bool)

	for _, cand := range opts.Candidates {
		cand := cand
		g.Go(func() error {
			mu.Lock()
			attempted[cand.ID] = true
			mu.Unlock()

			corpus := documents.Aggregate(cand.Documents)
			for _, skip := range corpus.Skipped {
				r.logger.Warn("document skipped",
					zap.Int("candidate_id", cand.ID),
					zap.String("document", skip.Name),
					zap.String("reason", skip.Reason))
			}

			eval, err := r.evaluator.Evaluate(gCtx, cand.ID, corpus, opts.Requirements)
			if err != nil {
				var authErr *llm.AuthError
				if errors.As(err, &authErr) {
					// Fatal: cancels the group, aborting the batch.
					return err
				}
				tag := CandidateError{
					CandidateID: cand.ID,
					Stage:       StageEvaluation,
					Message:     err.Error(),
					Err:         err,
				}
				if gCtx.Err() != nil {
					// The group was canceled mid-flight; this is an abort,
					// not a verdict on the candidate.
					tag.Stage = StageCanceled
					tag.Message = "batch aborted before this candidate completed"
				}
				mu.Lock()
				result.Errors = append(result.Errors, tag)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			result.Evaluations = append(result.Evaluations, *eval)
			corpora[cand.ID] = corpus
			mu.Unlock()

			r.saveArtifact(gCtx, result.RunID, store.CandidateStep(store.StepEvaluation, cand.ID), store.CategoryEvaluation, eval)
			r.saveTextArtifact(gCtx, result.RunID, store.CandidateStep(store.StepCorpus, cand.ID), store.CategoryIngestion, corpus.Text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		result.Aborted = true
		r.logger.Error("batch aborted", zap.Error(err))
		for _, cand := range opts.Candidates {
			if !attempted[cand.ID] || !r.hasOutcome(result, cand.ID) {
				result.Errors = append(result.Errors, CandidateError{
					CandidateID: cand.ID,
					Stage:       StageCanceled,
					Message:     "batch aborted before this candidate completed",
					Err:         err,
				})
			}
		}
	}

	// Deterministic evaluation order regardless of goroutine scheduling.
	sort.Slice(result.Evaluations, func(i, j int) bool {
		return result.Evaluations[i].CandidateID < result.Evaluations[j].CandidateID
	})
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].CandidateID < result.Errors[j].CandidateID
	})

	return corpora
}

// runSynthesis generates questions for the top-K ranked candidates and
// feedback for the remaining evaluated candidates.
func (r *Runner) runSynthesis(ctx context.Context, opts Options, result *BatchResult, corpora map[int]*documents.Corpus) {
	topK := make(map[int]bool, opts.TopK)
	for i, rc := range result.Ranking {
		if i >= opts.TopK {
			break
		}
		topK[rc.Evaluation.CandidateID] = true
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxConcurrency)

	var mu sync.Mutex
	for i := range result.Evaluations {
		eval := &result.Evaluations[i]
		g.Go(func() error {
			if topK[eval.CandidateID] {
				if !opts.GenerateQuestions {
					return nil
				}
				qs, err := r.questions.Generate(gCtx, eval, opts.Requirements)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Errors = append(result.Errors, CandidateError{
						CandidateID: eval.CandidateID,
						Stage:       StageQuestions,
						Message:     err.Error(),
						Err:         err,
					})
					return nil
				}
				result.Questions[eval.CandidateID] = qs
				r.saveArtifact(gCtx, result.RunID, store.CandidateStep(store.StepQuestions, eval.CandidateID), store.CategoryQuestions, qs)
				return nil
			}

			if !opts.GenerateFeedback {
				return nil
			}
			fb, err := r.feedback.Generate(gCtx, eval, opts.Requirements, corpora[eval.CandidateID])
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, CandidateError{
					CandidateID: eval.CandidateID,
					Stage:       StageFeedback,
					Message:     err.Error(),
					Err:         err,
				})
				return nil
			}
			result.Feedback[eval.CandidateID] = fb
			r.saveArtifact(gCtx, result.RunID, store.CandidateStep(store.StepFeedback, eval.CandidateID), store.CategoryFeedback, fb)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Runner) hasOutcome(result *BatchResult, candidateID int) bool {
	for _, e := range result.Evaluations {
		if e.CandidateID == candidateID {
			return true
		}
	}
	for _, e := range result.Errors {
		if e.CandidateID == candidateID {
			return true
		}
	}
	return false
}

// createRun opens a run record when persistence is configured. Store failures
// degrade to warnings; the evaluation itself must not depend on the database.
func (r *Runner) createRun(ctx context.Context, opts Options) uuid.UUID {
	if r.db == nil {
		return uuid.Nil
	}
	runID, err := r.db.CreateRun(ctx, opts.Requirements.Company, len(opts.Candidates))
	if err != nil {
		r.logger.Warn("failed to create run record, continuing without persistence", zap.Error(err))
		return uuid.Nil
	}
	r.saveArtifact(ctx, runID, store.StepRequirements, store.CategoryIngestion, opts.Requirements)
	return runID
}

func (r *Runner) saveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) {
	if r.db == nil || runID == uuid.Nil {
		return
	}
	if err := r.db.SaveArtifact(ctx, runID, step, category, content); err != nil {
		r.logger.Warn("failed to save artifact",
			zap.String("step", step),
			zap.Error(err))
	}
}

// saveTextArtifact persists plain-text content like the aggregated corpus,
// which is worth keeping verbatim for audit but is not JSON.
func (r *Runner) saveTextArtifact(ctx context.Context, runID uuid.UUID, step, category, text string) {
	if r.db == nil || runID == uuid.Nil || text == "" {
		return
	}
	if err := r.db.SaveTextArtifact(ctx, runID, step, category, text); err != nil {
		r.logger.Warn("failed to save text artifact",
			zap.String("step", step),
			zap.Error(err))
	}
}

func (r *Runner) completeRun(ctx context.Context, runID uuid.UUID, result *BatchResult) {
	if r.db == nil || runID == uuid.Nil {
		return
	}
	if len(result.Errors) > 0 {
		r.saveArtifact(ctx, runID, store.StepErrors, store.CategoryEvaluation, result.Errors)
	}
	status := store.StatusCompleted
	if result.Aborted {
		status = store.StatusAborted
	}
	if err := r.db.CompleteRun(ctx, runID, status); err != nil {
		r.logger.Warn("failed to complete run record", zap.Error(err))
	}
}
