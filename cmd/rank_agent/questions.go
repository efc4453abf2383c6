package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/questions"
)

var questionsCommand = &cobra.Command{
	Use:   "questions",
	Short: "Generate interview questions for one evaluated candidate",
	Long: `Generates a typed question set from a stored evaluation: gap probing,
depth validation, behavioral, technical, and role-specific questions, each
tied to a target skill from the requirements.`,
	RunE: runQuestionsCmd,
}

var (
	qRequirements string
	qEvaluation   string
	qAPIKey       string
	qOut          string
	qVerbose      bool
)

func init() {
	questionsCommand.Flags().StringVarP(&qRequirements, "requirements", "r", "", "Path to job requirements JSON file")
	questionsCommand.Flags().StringVarP(&qEvaluation, "evaluation", "e", "", "Path to the candidate's evaluation JSON")
	questionsCommand.Flags().StringVar(&qAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	questionsCommand.Flags().StringVarP(&qOut, "out", "o", "", "Output path for the question set JSON (default stdout)")
	questionsCommand.Flags().BoolVarP(&qVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = questionsCommand.MarkFlagRequired("requirements")
	_ = questionsCommand.MarkFlagRequired("evaluation")

	rootCmd.AddCommand(questionsCommand)
}

func runQuestionsCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	apiKey, err := resolveAPIKey(qAPIKey)
	if err != nil {
		return err
	}
	requirements, err := loadRequirements(qRequirements)
	if err != nil {
		return err
	}
	eval, err := loadEvaluation(qEvaluation)
	if err != nil {
		return err
	}

	log, err := newLogger(qVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, err := newClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	generator := questions.NewGenerator(client, log)
	qs, err := generator.Generate(ctx, eval, requirements)
	if err != nil {
		return err
	}

	if qVerbose {
		observability.NewPrinter(os.Stdout).PrintQuestionSet(qs)
	}
	return writeJSON(qOut, qs)
}
