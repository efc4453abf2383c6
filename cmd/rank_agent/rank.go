package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-ranker/internal/observability"
	"github.com/jonathan/candidate-ranker/internal/scoring"
	"github.com/jonathan/candidate-ranker/internal/types"
)

var rankCommand = &cobra.Command{
	Use:   "rank",
	Short: "Rank stored candidate evaluations by affinity score",
	Long: `Ranks a directory of evaluation JSON files offline. Affinity scores are
recomputed from the feature scores and requirement weights, so stale or
model-reported affinity values never influence the ordering.`,
	RunE: runRankCmd,
}

var (
	rankRequirements string
	rankEvalsDir     string
	rankOut          string
)

func init() {
	rankCommand.Flags().StringVarP(&rankRequirements, "requirements", "r", "", "Path to job requirements JSON file")
	rankCommand.Flags().StringVarP(&rankEvalsDir, "evaluations", "e", "", "Directory of evaluation JSON files")
	rankCommand.Flags().StringVarP(&rankOut, "out", "o", "", "Output path for the ranking JSON (default stdout)")

	_ = rankCommand.MarkFlagRequired("requirements")
	_ = rankCommand.MarkFlagRequired("evaluations")

	rootCmd.AddCommand(rankCommand)
}

func runRankCmd(_ *cobra.Command, _ []string) error {
	requirements, err := loadRequirements(rankRequirements)
	if err != nil {
		return err
	}
	featureSet, err := requirements.FeatureSet()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(rankEvalsDir)
	if err != nil {
		return fmt.Errorf("failed to read evaluations directory %s: %w", rankEvalsDir, err)
	}

	var evals []types.CandidateEvaluation
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		eval, err := loadEvaluation(filepath.Join(rankEvalsDir, entry.Name()))
		if err != nil {
			return err
		}
		affinity, err := scoring.Affinity(eval.FeatureScores, featureSet)
		if err != nil {
			return fmt.Errorf("candidate %d: %w", eval.CandidateID, err)
		}
		eval.AffinityScore = affinity
		evals = append(evals, *eval)
	}
	if len(evals) == 0 {
		return fmt.Errorf("no evaluation files found in %s", rankEvalsDir)
	}

	ranking := scoring.Rank(evals)
	observability.NewPrinter(os.Stdout).PrintRanking(ranking)
	return writeJSON(rankOut, ranking)
}
