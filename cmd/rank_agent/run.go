package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/store"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full evaluation pipeline over a candidate set",
	Long: `Evaluates every candidate directory against the job requirements, ranks
candidates by affinity score, generates interview questions for the top-K
candidates, and generates development feedback for the rest.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath     string
	runRequirements   string
	runCandidatesDir  string
	runAPIKey         string
	runMaxConcurrency int
	runTopK           int
	runFeedback       bool
	runQuestions      bool
	runVerbose        bool
	runDatabaseURL    string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runRequirements, "requirements", "r", "", "Path to job requirements JSON file")
	runCommand.Flags().StringVarP(&runCandidatesDir, "candidates", "c", "", "Directory of per-candidate document directories")
	runCommand.Flags().IntVar(&runMaxConcurrency, "max-concurrency", 0, "Parallel candidate evaluations (default 4)")
	runCommand.Flags().IntVar(&runTopK, "top-k", 0, "Top-ranked candidates that get interview questions (default 3)")
	runCommand.Flags().BoolVar(&runFeedback, "feedback", false, "Generate feedback for candidates outside the top-K")
	runCommand.Flags().BoolVar(&runQuestions, "questions", false, "Generate interview questions for the top-K candidates")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("requirements") {
		cfg.Requirements = runRequirements
	}
	if cmd.Flags().Changed("candidates") {
		cfg.CandidatesDir = runCandidatesDir
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("max-concurrency") {
		cfg.MaxConcurrency = runMaxConcurrency
	}
	if cmd.Flags().Changed("top-k") {
		cfg.TopK = runTopK
	}
	if cmd.Flags().Changed("feedback") {
		cfg.GenerateFeedback = runFeedback
	}
	if cmd.Flags().Changed("questions") {
		cfg.GenerateQuestions = runQuestions
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		MaxConcurrency: pipeline.DefaultMaxConcurrency,
		TopK:           pipeline.DefaultTopK,
	})

	// Step 4: Validate required fields
	if cfg.Requirements == "" {
		return fmt.Errorf("--requirements is required (via flag or config)")
	}
	if cfg.CandidatesDir == "" {
		return fmt.Errorf("--candidates is required (via flag or config)")
	}

	apiKey, err := resolveAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	requirements, err := loadRequirements(cfg.Requirements)
	if err != nil {
		return err
	}
	candidates, err := loadCandidates(cfg.CandidatesDir)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, err := newClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	// Persistence is optional: a failed connection degrades to a warning.
	var db *store.DB
	if cfg.DatabaseURL != "" {
		db, err = store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn("failed to connect to database, continuing without persistence")
			db = nil
		} else {
			defer db.Close()
		}
	}

	runner := pipeline.NewRunner(client, db, log)
	result, err := runner.EvaluateBatch(ctx, pipeline.Options{
		Requirements:      requirements,
		Candidates:        candidates,
		MaxConcurrency:    cfg.MaxConcurrency,
		TopK:              cfg.TopK,
		GenerateQuestions: cfg.GenerateQuestions,
		GenerateFeedback:  cfg.GenerateFeedback,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintRequirements(requirements)
	printer.PrintRanking(result.Ranking)
	if cfg.Verbose {
		for id := range result.Questions {
			printer.PrintQuestionSet(result.Questions[id])
		}
		for id := range result.Feedback {
			printer.PrintFeedback(result.Feedback[id])
		}
	}

	for _, tag := range result.Errors {
		fmt.Fprintf(os.Stderr, "candidate %d failed at %s: %s\n", tag.CandidateID, tag.Stage, tag.Message)
	}
	if result.Aborted {
		return fmt.Errorf("batch aborted before all candidates completed (%d evaluated)", len(result.Evaluations))
	}
	return nil
}
