package recovery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/candidate-ranker/internal/llm"
)

// fakeClient replays a scripted sequence of responses, one per Generate call.
type fakeClient struct {
	responses []*llm.ModelResponse
	errs      []error
	calls     int
}

func (f *fakeClient) Generate(_ context.Context, _ *llm.GenerationRequest, _ llm.ModelTier) (*llm.ModelResponse, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return nil, errors.New("no scripted response")
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

func cardRequest() *llm.GenerationRequest {
	return &llm.GenerationRequest{
		Prompt: "score it",
		Schema: cardSchema(),
	}
}

func TestDispatch_FirstAttemptSucceeds(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.ModelResponse{
			{Text: `{"name": "golang", "score": 8}`},
		},
	}
	r := NewRecoverer(client, llm.TierStandard, nil)

	var got scoreCard
	require.NoError(t, r.Dispatch(context.Background(), cardRequest(), &got))
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "golang", got.Name)
}

func TestDispatch_RetriesAfterDispatchFailure(t *testing.T) {
	client := &fakeClient{
		errs: []error{errors.New("transient"), nil},
		responses: []*llm.ModelResponse{
			nil,
			{Text: `{"name": "golang", "score": 8}`},
		},
	}
	r := NewRecoverer(client, llm.TierStandard, nil)

	var got scoreCard
	require.NoError(t, r.Dispatch(context.Background(), cardRequest(), &got))
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, 8.0, got.Score)
}

func TestDispatch_RetriesAfterUnrecoverableResponse(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.ModelResponse{
			{Text: "not json"},
			{Text: `{"name": "golang", "score": 8}`},
		},
	}
	r := NewRecoverer(client, llm.TierStandard, nil)

	var got scoreCard
	require.NoError(t, r.Dispatch(context.Background(), cardRequest(), &got))
	assert.Equal(t, 2, client.calls)
}

func TestDispatch_ExhaustsRetryBudget(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.ModelResponse{
			{Text: "garbage"},
			{Text: "still garbage"},
			{Text: "garbage forever"},
		},
	}
	r := NewRecoverer(client, llm.TierStandard, nil)

	var got scoreCard
	err := r.Dispatch(context.Background(), cardRequest(), &got)
	require.Error(t, err)

	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, DefaultMaxRetries+1, exhausted.Attempts)
	assert.Equal(t, DefaultMaxRetries+1, client.calls)

	var ue *UnrecoverableError
	assert.ErrorAs(t, exhausted.LastErr, &ue)
}

func TestDispatch_AuthErrorNeverRetried(t *testing.T) {
	client := &fakeClient{
		errs: []error{&llm.AuthError{Message: "invalid api key"}},
	}
	r := NewRecoverer(client, llm.TierStandard, nil)

	var got scoreCard
	err := r.Dispatch(context.Background(), cardRequest(), &got)

	var authErr *llm.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 1, client.calls)
}

func TestDispatch_WrappedAuthErrorNeverRetried(t *testing.T) {
	client := &fakeClient{
		errs: []error{&llm.DispatchError{Cause: &llm.AuthError{Message: "expired key"}}},
	}
	r := NewRecoverer(client, llm.TierStandard, nil)

	var got scoreCard
	err := r.Dispatch(context.Background(), cardRequest(), &got)

	var authErr *llm.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 1, client.calls)
}

func TestDispatch_ContextCanceled(t *testing.T) {
	client := &fakeClient{
		errs: []error{errors.New("transient")},
	}
	r := NewRecoverer(client, llm.TierStandard, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got scoreCard
	err := r.Dispatch(ctx, cardRequest(), &got)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, client.calls)
}

func TestDispatch_LogsTruncatedRawResponse(t *testing.T) {
	longGarbage := "not json " + strings.Repeat("x", 500)
	client := &fakeClient{
		responses: []*llm.ModelResponse{
			{Text: longGarbage},
			{Text: `{"name": "golang", "score": 8}`},
		},
	}
	core, logs := observer.New(zap.WarnLevel)
	r := NewRecoverer(client, llm.TierStandard, zap.New(core))

	var got scoreCard
	require.NoError(t, r.Dispatch(context.Background(), cardRequest(), &got))

	entries := logs.FilterMessage("response recovery failed").All()
	require.Len(t, entries, 1)

	raw, ok := entries[0].ContextMap()["raw_response"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(raw, "not json"))
	assert.True(t, strings.HasSuffix(raw, "..."))
	assert.LessOrEqual(t, len(raw), rawLogLimit+len("..."))
}

func TestDispatch_SchemaViolationRetries(t *testing.T) {
	client := &fakeClient{
		responses: []*llm.ModelResponse{
			{Text: `{"name": "golang"}`},
			{Text: `{"name": "golang", "score": 8}`},
		},
	}
	r := NewRecoverer(client, llm.TierStandard, nil)

	var got scoreCard
	require.NoError(t, r.Dispatch(context.Background(), cardRequest(), &got))
	assert.Equal(t, 2, client.calls)
}
