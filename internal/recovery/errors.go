package recovery

import (
	"fmt"
	"strings"
)

// UnrecoverableError means every strategy in the chain failed for one
// response. It carries the raw text so the caller can log or persist the
// payload that defeated recovery.
type UnrecoverableError struct {
	RawText  string
	Attempts []string
}

func (e *UnrecoverableError) Error() string {
	return fmt.Sprintf("response unrecoverable after strategies [%s]", strings.Join(e.Attempts, ", "))
}

// SchemaViolationError means a strategy produced a value but the value failed
// schema or bounds validation. It fails the whole recovery: a structurally
// parseable but contract-violating response is not worth trying other
// strategies on.
type SchemaViolationError struct {
	Strategy string
	Cause    error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("recovered value from %s strategy violates schema: %v", e.Strategy, e.Cause)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Cause
}

// RetryExhaustedError means the dispatch/recover loop ran out of attempts.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error {
	return e.LastErr
}
