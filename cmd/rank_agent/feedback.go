package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/documents"
	"github.com/jonathan/candidate-ranker/internal/feedback"
	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/types"
)

var feedbackCommand = &cobra.Command{
	Use:   "feedback",
	Short: "Generate development feedback for one evaluated candidate",
	Long: `Generates structured feedback from a stored evaluation plus the candidate's
documents: profile summary, 3-5 technical strengths, 3-4 improvement areas
with actionable recommendations, and an industry alignment score.`,
	RunE: runFeedbackCmd,
}

var (
	fbRequirements string
	fbEvaluation   string
	fbCandidateDir string
	fbAPIKey       string
	fbOut          string
	fbVerbose      bool
)

func init() {
	feedbackCommand.Flags().StringVarP(&fbRequirements, "requirements", "r", "", "Path to job requirements JSON file")
	feedbackCommand.Flags().StringVarP(&fbEvaluation, "evaluation", "e", "", "Path to the candidate's evaluation JSON")
	feedbackCommand.Flags().StringVarP(&fbCandidateDir, "candidate", "c", "", "Candidate document directory")
	feedbackCommand.Flags().StringVar(&fbAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	feedbackCommand.Flags().StringVarP(&fbOut, "out", "o", "", "Output path for the feedback JSON (default stdout)")
	feedbackCommand.Flags().BoolVarP(&fbVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = feedbackCommand.MarkFlagRequired("requirements")
	_ = feedbackCommand.MarkFlagRequired("evaluation")
	_ = feedbackCommand.MarkFlagRequired("candidate")

	rootCmd.AddCommand(feedbackCommand)
}

func runFeedbackCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	apiKey, err := resolveAPIKey(fbAPIKey)
	if err != nil {
		return err
	}
	requirements, err := loadRequirements(fbRequirements)
	if err != nil {
		return err
	}
	eval, err := loadEvaluation(fbEvaluation)
	if err != nil {
		return err
	}
	docs, err := documents.LoadDir(fbCandidateDir)
	if err != nil {
		return err
	}

	log, err := newLogger(fbVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, err := newClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	generator := feedback.NewGenerator(client, log)
	fb, err := generator.Generate(ctx, eval, requirements, documents.Aggregate(docs))
	if err != nil {
		return err
	}

	if fbVerbose {
		observability.NewPrinter(os.Stdout).PrintFeedback(fb)
	}
	return writeJSON(fbOut, fb)
}

// loadEvaluation reads a stored candidate evaluation artifact.
func loadEvaluation(path string) (*types.CandidateEvaluation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read evaluation file %s: %w", path, err)
	}

	var eval types.CandidateEvaluation
	if err := json.Unmarshal(data, &eval); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation JSON: %w", err)
	}
	if len(eval.FeatureScores) == 0 {
		return nil, fmt.Errorf("evaluation %s has no feature scores", path)
	}
	return &eval, nil
}
