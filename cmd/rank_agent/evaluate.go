package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/documents"
	"github.com/jonathan/candidate-ranker/internal/evaluate"
	"github.com/jonathan/candidate-ranker/internal/observability"
)

var evaluateCommand = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a single candidate directory against job requirements",
	RunE:  runEvaluateCmd,
}

var (
	evalRequirements string
	evalCandidateDir string
	evalCandidateID  int
	evalAPIKey       string
	evalOut          string
	evalVerbose      bool
)

func init() {
	evaluateCommand.Flags().StringVarP(&evalRequirements, "requirements", "r", "", "Path to job requirements JSON file")
	evaluateCommand.Flags().StringVarP(&evalCandidateDir, "candidate", "c", "", "Candidate document directory")
	evaluateCommand.Flags().IntVar(&evalCandidateID, "id", 0, "Candidate id")
	evaluateCommand.Flags().StringVar(&evalAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	evaluateCommand.Flags().StringVarP(&evalOut, "out", "o", "", "Output path for the evaluation JSON (default stdout)")
	evaluateCommand.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = evaluateCommand.MarkFlagRequired("requirements")
	_ = evaluateCommand.MarkFlagRequired("candidate")

	rootCmd.AddCommand(evaluateCommand)
}

func runEvaluateCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	apiKey, err := resolveAPIKey(evalAPIKey)
	if err != nil {
		return err
	}
	requirements, err := loadRequirements(evalRequirements)
	if err != nil {
		return err
	}
	docs, err := documents.LoadDir(evalCandidateDir)
	if err != nil {
		return err
	}

	log, err := newLogger(evalVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, err := newClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	corpus := documents.Aggregate(docs)
	for _, skip := range corpus.Skipped {
		fmt.Fprintf(os.Stderr, "skipping %s: %s\n", skip.Name, skip.Reason)
	}

	evaluator := evaluate.NewEvaluator(client, log)
	eval, err := evaluator.Evaluate(ctx, evalCandidateID, corpus, requirements)
	if err != nil {
		return err
	}

	if evalVerbose {
		observability.NewPrinter(os.Stdout).PrintEvaluation(eval)
	}
	return writeJSON(evalOut, eval)
}

// writeJSON writes v as indented JSON to path, or stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
