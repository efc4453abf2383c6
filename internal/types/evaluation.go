package types

// FeatureScore represents a candidate's observed strength on a single Feature.
// Evidence may be empty when the model found nothing to cite.
type FeatureScore struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Evidence string  `json:"evidence,omitempty"`
}

// CandidateEvaluation is one candidate's full scoring against a job's Feature
// set. AffinityScore is derived by the scorer; it is never accepted from a
// caller or trusted from a model response.
type CandidateEvaluation struct {
	CandidateID   int            `json:"candidate_id"`
	FeatureScores []FeatureScore `json:"feature_scores"`
	AffinityScore float64        `json:"affinity_score"`
}

// EvaluationResponse is the value shape the model is asked to return for a
// scoring request. It deliberately omits candidate_id (the caller knows it)
// and carries the model's own affinity estimate, which is discarded and
// recomputed.
type EvaluationResponse struct {
	FeatureScores []FeatureScore `json:"feature_scores"`
	AffinityScore float64        `json:"affinity_score"`
}

// RankedCandidate pairs an evaluation with its position in a ranking.
type RankedCandidate struct {
	Rank       int                 `json:"rank"`
	Evaluation CandidateEvaluation `json:"evaluation"`
}
