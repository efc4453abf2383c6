package llm

import (
	"errors"
	"fmt"
)

// ErrNoEvidence indicates a request was built with no grounding evidence.
// Scoring with no evidence is a caller error, never dispatched.
var ErrNoEvidence = errors.New("evidence text is empty; refusing to build generation request")

// AuthError indicates a credential/configuration problem. It is fatal: a
// batch hitting this aborts its remaining queue.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// DispatchError wraps a transport-level failure (network, timeout, rate
// limit) from the model endpoint. Dispatch errors are retryable.
type DispatchError struct {
	Cause error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("model dispatch failed: %v", e.Cause)
}

func (e *DispatchError) Unwrap() error {
	return e.Cause
}
