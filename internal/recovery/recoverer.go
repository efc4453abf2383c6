package recovery

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/logger"
)

// DefaultMaxRetries is the retry budget beyond the first attempt. Retries
// cover transient dispatch failures, unrecoverable responses, and schema
// violations; input errors and auth failures are never retried.
const DefaultMaxRetries = 2

const baseBackoff = 250 * time.Millisecond

// rawLogLimit caps how much of a failed response body is echoed into logs.
const rawLogLimit = 240

// Recoverer dispatches a generation request and runs the recovery chain on
// whatever comes back, re-dispatching the full request on retryable failures.
type Recoverer struct {
	Client     llm.Client
	Tier       llm.ModelTier
	MaxRetries int
	Logger     *zap.Logger
}

// NewRecoverer builds a Recoverer with the default retry budget.
func NewRecoverer(client llm.Client, tier llm.ModelTier, logger *zap.Logger) *Recoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recoverer{
		Client:     client,
		Tier:       tier,
		MaxRetries: DefaultMaxRetries,
		Logger:     logger,
	}
}

// Dispatch sends the request and recovers the response into target. Each
// failed cycle re-sends the complete request; attempts are strictly
// sequential, with a short backoff between dispatch retries. Auth failures
// and context cancellation abort immediately.
func (r *Recoverer) Dispatch(ctx context.Context, req *llm.GenerationRequest, target any) error {
	attempts := r.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(baseBackoff * time.Duration(attempt-1)):
			}
		}

		resp, err := r.Client.Generate(ctx, req, r.Tier)
		if err != nil {
			var authErr *llm.AuthError
			if errors.As(err, &authErr) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.Logger.Warn("model dispatch failed",
				zap.String("schema", req.Schema.Name),
				zap.Int("attempt", attempt),
				zap.Error(err))
			lastErr = err
			continue
		}

		if err := Recover(resp, req.Schema, target); err != nil {
			r.Logger.Warn("response recovery failed",
				zap.String("schema", req.Schema.Name),
				zap.Int("attempt", attempt),
				zap.String("raw_response", logger.TruncateForLog(resp.Text, rawLogLimit)),
				zap.Error(err))
			lastErr = err
			continue
		}

		return nil
	}

	return &RetryExhaustedError{Attempts: attempts, LastErr: lastErr}
}
