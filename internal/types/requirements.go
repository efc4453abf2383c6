// Package types provides type definitions for structured data used throughout the candidate-ranker system.
package types

import "fmt"

// FeatureKind categorizes an evaluation dimension
type FeatureKind string

// Feature kinds
const (
	KindTechnical  FeatureKind = "technical"
	KindBehavioral FeatureKind = "behavioral"
)

// Feature represents a named, weighted evaluation dimension defined by a job's requirements
type Feature struct {
	Name   string      `json:"name"`
	Weight float64     `json:"weight"`
	Kind   FeatureKind `json:"kind,omitempty"`
}

// JobRequirements represents the job-requirements artifact handed in by the
// ingestion layer: the company context plus the weighted Feature set.
type JobRequirements struct {
	Company        string    `json:"company,omitempty"`
	JobDescription string    `json:"job_description,omitempty"`
	Features       []Feature `json:"features"`
}

// FeatureSet builds a name-indexed view of the features for lookup during
// scoring and validation. Duplicate names are an input error.
func (r *JobRequirements) FeatureSet() (map[string]Feature, error) {
	set := make(map[string]Feature, len(r.Features))
	for _, f := range r.Features {
		if _, dup := set[f.Name]; dup {
			return nil, fmt.Errorf("duplicate feature name: %q", f.Name)
		}
		set[f.Name] = f
	}
	return set, nil
}

// Validate checks the requirements artifact before any evaluation run.
func (r *JobRequirements) Validate() error {
	if len(r.Features) == 0 {
		return fmt.Errorf("requirements must declare at least one feature")
	}
	for i, f := range r.Features {
		if f.Name == "" {
			return fmt.Errorf("features[%d]: name is required", i)
		}
		if f.Weight < 0.0 || f.Weight > 1.0 {
			return fmt.Errorf("features[%d] %q: weight %.2f outside [0,1]", i, f.Name, f.Weight)
		}
		if f.Kind != "" && f.Kind != KindTechnical && f.Kind != KindBehavioral {
			return fmt.Errorf("features[%d] %q: unknown kind %q", i, f.Name, f.Kind)
		}
	}
	if _, err := r.FeatureSet(); err != nil {
		return err
	}
	return nil
}
