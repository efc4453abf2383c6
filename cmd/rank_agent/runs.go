package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/store"
)

var runsCommand = &cobra.Command{
	Use:   "runs",
	Short: "List recent evaluation runs from the database",
	RunE:  listRunsCmd,
}

var showCommand = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the stored results of an evaluation run",
	Long: `Prints the requirements and ranking persisted for a past run. With
--candidate, also prints that candidate's stored evaluation, feedback, and
interview questions where they exist.`,
	Args: cobra.ExactArgs(1),
	RunE: showRunCmd,
}

var (
	runsDatabaseURL string
	runsLimit       int
	showDatabaseURL string
	showCandidateID int
)

func init() {
	runsCommand.Flags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runsCommand.Flags().IntVar(&runsLimit, "limit", 0, "Maximum runs to list (default 50)")

	showCommand.Flags().StringVar(&showDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	showCommand.Flags().IntVar(&showCandidateID, "candidate", 0, "Also print this candidate's stored artifacts")

	rootCmd.AddCommand(runsCommand)
	rootCmd.AddCommand(showCommand)
}

func listRunsCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := connectStore(ctx, runsDatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintRuns(runs)
	return nil
}

func showRunCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	db, err := connectStore(ctx, showDatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintRuns([]store.Run{*run})

	requirements, err := db.GetRequirementsByRun(ctx, runID)
	if err != nil {
		return err
	}
	printer.PrintRequirements(requirements)

	ranking, err := db.GetRankingByRun(ctx, runID)
	if err != nil {
		return err
	}
	printer.PrintRanking(ranking)

	if !cmd.Flags().Changed("candidate") {
		return nil
	}

	eval, err := db.GetEvaluationByRun(ctx, runID, showCandidateID)
	if err != nil {
		return err
	}
	if eval == nil {
		return fmt.Errorf("no stored evaluation for candidate %d in run %s", showCandidateID, runID)
	}
	printer.PrintEvaluation(eval)

	fb, err := db.GetFeedbackByRun(ctx, runID, showCandidateID)
	if err != nil {
		return err
	}
	printer.PrintFeedback(fb)

	qs, err := db.GetQuestionSetByRun(ctx, runID, showCandidateID)
	if err != nil {
		return err
	}
	printer.PrintQuestionSet(qs)
	return nil
}
