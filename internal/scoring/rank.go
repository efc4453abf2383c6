package scoring

import (
	"sort"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// Rank orders evaluations by descending affinity score. Ties are broken by
// ascending candidate ID so the ordering is reproducible across runs.
// The input slice is not modified.
func Rank(evals []types.CandidateEvaluation) []types.RankedCandidate {
	sorted := make([]types.CandidateEvaluation, len(evals))
	copy(sorted, evals)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AffinityScore != sorted[j].AffinityScore {
			return sorted[i].AffinityScore > sorted[j].AffinityScore
		}
		return sorted[i].CandidateID < sorted[j].CandidateID
	})

	ranked := make([]types.RankedCandidate, len(sorted))
	for i, eval := range sorted {
		ranked[i] = types.RankedCandidate{
			Rank:       i + 1,
			Evaluation: eval,
		}
	}
	return ranked
}
