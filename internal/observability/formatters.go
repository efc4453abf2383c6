// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/candidate-ranker/internal/store"
	"github.com/jonathan/candidate-ranker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRequirements outputs a human-readable summary of the job requirements.
func (p *Printer) PrintRequirements(req *types.JobRequirements) {
	if req == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:   %s\n", req.Company))
	sb.WriteString(fmt.Sprintf("Features:  %d\n", len(req.Features)))
	sb.WriteString("\n")

	count := min(len(req.Features), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := req.Features[i]
		sb.WriteString(fmt.Sprintf("  • %s (weight %.2f)\n", f.Name, f.Weight))
	}
	if len(req.Features) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(req.Features)-maxItemsToShow))
	}

	p.printBox("JOB REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs the ranked candidates with their affinity scores.
func (p *Printer) PrintRanking(ranking []types.RankedCandidate) {
	if len(ranking) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(ranking)))

	count := min(len(ranking), maxItemsToShow)
	for i := 0; i < count; i++ {
		rc := ranking[i]
		sb.WriteString(fmt.Sprintf("#%d  candidate %d\n", rc.Rank, rc.Evaluation.CandidateID))
		sb.WriteString(fmt.Sprintf("    Affinity: %.3f (%d features scored)\n",
			rc.Evaluation.AffinityScore, len(rc.Evaluation.FeatureScores)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranking) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(ranking)-maxItemsToShow))
	}

	p.printBox("CANDIDATE RANKING", sb.String())
}

// PrintRuns outputs stored evaluation runs, newest first.
func (p *Printer) PrintRuns(runs []store.Run) {
	if len(runs) == 0 {
		p.printBox("EVALUATION RUNS", "No runs recorded")
		return
	}

	var sb strings.Builder
	for i, run := range runs {
		company := run.Company
		if company == "" {
			company = "(no company)"
		}
		sb.WriteString(fmt.Sprintf("%s\n", run.ID))
		sb.WriteString(fmt.Sprintf("  %s | %s | %d candidate(s)\n",
			run.CreatedAt.Format("2006-01-02 15:04"), run.Status, run.Candidates))
		sb.WriteString(fmt.Sprintf("  %s\n", company))
		if i < len(runs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EVALUATION RUNS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvaluation outputs one candidate's per-feature scores.
func (p *Printer) PrintEvaluation(eval *types.CandidateEvaluation) {
	if eval == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %d\n", eval.CandidateID))
	sb.WriteString(fmt.Sprintf("Affinity:  %.3f\n", eval.AffinityScore))
	sb.WriteString("\n")

	count := min(len(eval.FeatureScores), maxItemsToShow)
	for i := 0; i < count; i++ {
		fs := eval.FeatureScores[i]
		sb.WriteString(fmt.Sprintf("  %-30s %.2f\n", fs.Name, fs.Score))
	}
	if len(eval.FeatureScores) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more features\n", len(eval.FeatureScores)-maxItemsToShow))
	}

	p.printBox("CANDIDATE EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedback outputs a summary of generated candidate feedback.
func (p *Printer) PrintFeedback(fb *types.CandidateFeedback) {
	if fb == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %d\n", fb.CandidateID))
	sb.WriteString(fmt.Sprintf("Industry alignment: %.2f\n", fb.IndustryAlignmentScore))
	sb.WriteString("\n")

	if len(fb.TechnicalStrengths) > 0 {
		sb.WriteString("Strengths:\n")
		for _, s := range fb.TechnicalStrengths {
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", s.SkillArea, s.ProficiencyLevel))
		}
		sb.WriteString("\n")
	}

	if len(fb.ImprovementAreas) > 0 {
		sb.WriteString("Improvement areas:\n")
		for _, a := range fb.ImprovementAreas {
			sb.WriteString(fmt.Sprintf("  • %s [%s]\n", a.Dimension, a.EstimatedTimeline))
		}
	}

	p.printBox("CANDIDATE FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestionSet outputs a summary of a generated question set.
func (p *Printer) PrintQuestionSet(qs *types.QuestionSet) {
	if qs == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %d (affinity %.3f)\n", qs.CandidateID, qs.CandidateAffinityScore))
	sb.WriteString(fmt.Sprintf("Total questions: %d\n", qs.TotalQuestions))
	sb.WriteString("\n")

	partitions := []struct {
		label     string
		questions []types.Question
	}{
		{"Gap probing", qs.GapProbingQuestions},
		{"Depth validation", qs.DepthValidationQuestion},
		{"Behavioral", qs.BehavioralQuestions},
		{"Technical", qs.TechnicalQuestions},
		{"Role-specific", qs.RoleSpecificQuestions},
	}
	for _, part := range partitions {
		sb.WriteString(fmt.Sprintf("  %-18s %d\n", part.label+":", len(part.questions)))
	}

	p.printBox("INTERVIEW QUESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}
