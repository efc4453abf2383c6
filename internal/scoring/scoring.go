// Package scoring converts a candidate's feature scores into an affinity
// score and classifies scored features as gaps, strengths, or neutral.
// All functions are pure; the same inputs always produce the same outputs.
package scoring

import (
	"github.com/jonathan/candidate-ranker/internal/types"
)

// Thresholds holds the classification cut-offs. They are passed explicitly so
// the scorer carries no hidden globals.
type Thresholds struct {
	// Low is the score below which a feature counts as a gap (exclusive).
	Low float64
	// High is the score at or above which a feature counts as a strength (inclusive).
	High float64
	// MinWeight gates classification: features lighter than this are always neutral.
	MinWeight float64
}

// DefaultThresholds returns the standard classification thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 0.4, High: 0.7, MinWeight: 0.5}
}

// Classification of a single scored feature.
type Classification string

// Classification values
const (
	ClassGap      Classification = "gap"
	ClassStrength Classification = "strength"
	ClassNeutral  Classification = "neutral"
)

// ClassifiedFeature pairs a feature score with its weight and classification.
type ClassifiedFeature struct {
	types.FeatureScore
	Weight float64        `json:"weight"`
	Class  Classification `json:"class"`
}

// ClampScore forces a score into [0,1]. Model output occasionally drifts out
// of range; out-of-range values are clamped rather than rejected.
func ClampScore(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

// Affinity computes the weighted average of the candidate's feature scores:
// sum(score*weight) / sum(weight) over the scores present. Features the
// candidate has no score for are excluded from both numerator and
// denominator, so missing evidence means "not counted", not "zero".
//
// Scores referencing a feature absent from the feature set fail with
// ErrUnknownFeature; an empty score list fails with ErrNoScores (affinity is
// undefined, not zero).
func Affinity(scores []types.FeatureScore, features map[string]types.Feature) (float64, error) {
	if len(scores) == 0 {
		return 0, ErrNoScores
	}

	numerator := 0.0
	denominator := 0.0
	for _, fs := range scores {
		feature, ok := features[fs.Name]
		if !ok {
			return 0, &UnknownFeatureError{Name: fs.Name}
		}
		score := ClampScore(fs.Score)
		numerator += score * feature.Weight
		denominator += feature.Weight
	}

	if denominator == 0 {
		// All matched features carry zero weight; the weighted average is
		// undefined in the same way an empty score list is.
		return 0, ErrNoScores
	}

	return numerator / denominator, nil
}

// Classify labels each feature score as gap, strength, or neutral.
//
// A feature is a gap when score < t.Low and weight >= t.MinWeight, and a
// strength when score >= t.High and weight >= t.MinWeight. Scores exactly at
// t.Low are neutral; scores exactly at t.High are strengths.
func Classify(scores []types.FeatureScore, features map[string]types.Feature, t Thresholds) ([]ClassifiedFeature, error) {
	classified := make([]ClassifiedFeature, 0, len(scores))
	for _, fs := range scores {
		feature, ok := features[fs.Name]
		if !ok {
			return nil, &UnknownFeatureError{Name: fs.Name}
		}

		fs.Score = ClampScore(fs.Score)
		class := ClassNeutral
		if feature.Weight >= t.MinWeight {
			switch {
			case fs.Score < t.Low:
				class = ClassGap
			case fs.Score >= t.High:
				class = ClassStrength
			}
		}

		classified = append(classified, ClassifiedFeature{
			FeatureScore: fs,
			Weight:       feature.Weight,
			Class:        class,
		})
	}
	return classified, nil
}

// Gaps filters classified features down to gaps, preserving order.
func Gaps(classified []ClassifiedFeature) []ClassifiedFeature {
	return filterClass(classified, ClassGap)
}

// Strengths filters classified features down to strengths, preserving order.
func Strengths(classified []ClassifiedFeature) []ClassifiedFeature {
	return filterClass(classified, ClassStrength)
}

func filterClass(classified []ClassifiedFeature, class Classification) []ClassifiedFeature {
	out := make([]ClassifiedFeature, 0)
	for _, cf := range classified {
		if cf.Class == class {
			out = append(out, cf)
		}
	}
	return out
}
