package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/documents"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/logger"
	"github.com/jonathan/candidate-ranker/internal/pipeline"
	"github.com/jonathan/candidate-ranker/internal/store"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// loadRequirements reads and validates the job requirements artifact.
func loadRequirements(path string) (*types.JobRequirements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requirements file %s: %w", path, err)
	}

	var req types.JobRequirements
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse requirements JSON: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid requirements: %w", err)
	}
	return &req, nil
}

// loadCandidates reads a directory of per-candidate subdirectories. Each
// subdirectory is named by the candidate's numeric id and holds that
// candidate's documents.
func loadCandidates(dir string) ([]pipeline.Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates directory %s: %w", dir, err)
	}

	var candidates []pipeline.Candidate
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := strconv.Atoi(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("candidate directory %q is not a numeric id", entry.Name())
		}
		docs, err := documents.LoadDir(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, pipeline.Candidate{ID: id, Documents: docs})
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate directories found in %s", dir)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates, nil
}

// resolveAPIKey returns the flag value or falls back to GEMINI_API_KEY.
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
}

// newLogger builds the CLI logger; verbose enables debug output.
func newLogger(verbose bool) (*zap.Logger, error) {
	return logger.New(false, verbose)
}

// newClient builds the model client for the default provider.
func newClient(ctx context.Context, apiKey string) (llm.Client, error) {
	return llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
}

// connectStore opens the persistence layer from a flag value or DATABASE_URL.
// Unlike the pipeline, read commands cannot degrade: no database, no runs.
func connectStore(ctx context.Context, flagValue string) (*store.DB, error) {
	url := flagValue
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	return store.Connect(ctx, url)
}
