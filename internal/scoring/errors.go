package scoring

import (
	"errors"
	"fmt"
)

// ErrNoScores indicates affinity was requested for a candidate with no
// feature scores. The affinity of an empty score set is undefined.
var ErrNoScores = errors.New("no feature scores present; affinity is undefined")

// UnknownFeatureError indicates a feature score references a feature that
// does not exist in the active job's feature set.
type UnknownFeatureError struct {
	Name string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("feature score references unknown feature %q", e.Name)
}
