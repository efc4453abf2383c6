// Package main provides the entry point for the candidate ranking CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rank_agent",
	Short: "Candidate evaluation and ranking pipeline",
	Long:  "rank_agent evaluates candidate document sets against weighted job requirements using structured LLM scoring, ranks candidates by affinity, and generates interview questions and development feedback.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
