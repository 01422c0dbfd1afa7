package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/On-Analytics/cv-extractor/internal/llm"
)

// scriptedTransport returns canned responses (or errors) in order, repeating
// the last entry, and records every request it saw.
type scriptedTransport struct {
	responses []any // []byte or error
	requests  []llm.ChatRequest
}

func (s *scriptedTransport) Complete(_ context.Context, req llm.ChatRequest) ([]byte, error) {
	s.requests = append(s.requests, req)
	i := len(s.requests) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	switch v := s.responses[i].(type) {
	case error:
		return nil, v
	case []byte:
		return v, nil
	default:
		panic("bad script entry")
	}
}

func testPrompt() llm.ExtractionPrompt {
	return llm.ExtractionPrompt{
		SchemaID:   "profile",
		SourceFile: "cv.txt",
		System:     "extract fields",
		User:       "Passage:\nAda Lovelace",
		JSONSchema: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"name":   map[string]any{"type": []any{"string", "null"}},
				"skills": map[string]any{"type": []any{"array", "null"}, "items": map[string]any{"type": []any{"string", "null"}}},
			},
			"required": []string{"name"},
		},
	}
}

func fastConfig() Config {
	return Config{TransportRetries: -1, RepairAttempts: 1, Backoff: time.Millisecond}
}

func TestExtractValidFirstTry(t *testing.T) {
	tr := &scriptedTransport{responses: []any{[]byte(`{"name":"Ada","skills":["Go"]}`)}}
	c := NewClient(tr, fastConfig(), nil)

	out, err := c.Extract(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, "Ada", out["name"])
	assert.Len(t, tr.requests, 1)
}

func TestExtractRepairBoundIsExact(t *testing.T) {
	// A transport that always returns a malformed body must be called
	// exactly repairAttempts+1 times before the client fails.
	tests := []struct {
		repairAttempts int
		wantCalls      int
	}{
		{repairAttempts: 1, wantCalls: 2},
		{repairAttempts: 2, wantCalls: 3},
	}
	for _, tt := range tests {
		tr := &scriptedTransport{responses: []any{[]byte(`{"name":42}`)}}
		c := NewClient(tr, Config{TransportRetries: -1, RepairAttempts: tt.repairAttempts, Backoff: time.Millisecond}, nil)

		_, err := c.Extract(context.Background(), testPrompt())
		require.Error(t, err)

		var budget *RepairBudgetExceededError
		require.True(t, errors.As(err, &budget))
		assert.Equal(t, tt.repairAttempts, budget.Attempts)
		assert.Len(t, tr.requests, tt.wantCalls)
	}
}

func TestExtractRepairPromptCarriesValidationError(t *testing.T) {
	tr := &scriptedTransport{responses: []any{
		[]byte(`not json at all`),
		[]byte(`{"name":"Ada","skills":[]}`),
	}}
	c := NewClient(tr, fastConfig(), nil)

	out, err := c.Extract(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, "Ada", out["name"])

	require.Len(t, tr.requests, 2)
	assert.NotContains(t, tr.requests[0].User, "previous response")
	assert.Contains(t, tr.requests[1].User, "previous response was not valid")
	// The amendment attaches to the original prompt, not cumulatively.
	assert.Contains(t, tr.requests[1].User, "Ada Lovelace")
}

func TestExtractJSONParseAndShapeMismatchShareBudget(t *testing.T) {
	// First response is unparseable, second has a shape mismatch: both count
	// against the single repair budget of 1, so the second failure is final.
	tr := &scriptedTransport{responses: []any{
		[]byte(`{{{`),
		[]byte(`{"name":["not","a","string"]}`),
	}}
	c := NewClient(tr, fastConfig(), nil)

	_, err := c.Extract(context.Background(), testPrompt())
	var budget *RepairBudgetExceededError
	require.True(t, errors.As(err, &budget))
	assert.Len(t, tr.requests, 2)
}

func TestExtractTransportRetryResendsSamePrompt(t *testing.T) {
	retryable := &llm.TransportError{Status: 429, Retryable: true, Cause: errors.New("rate limited")}
	tr := &scriptedTransport{responses: []any{
		retryable,
		retryable,
		[]byte(`{"name":"Ada"}`),
	}}
	c := NewClient(tr, Config{TransportRetries: 2, RepairAttempts: 1, Backoff: time.Millisecond}, nil)

	out, err := c.Extract(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, "Ada", out["name"])

	require.Len(t, tr.requests, 3)
	assert.Equal(t, tr.requests[0].User, tr.requests[1].User, "transport retries resend the same prompt")
	assert.Equal(t, tr.requests[1].User, tr.requests[2].User)
}

func TestExtractNonRetryableTransportErrorFailsFast(t *testing.T) {
	fatal := &llm.TransportError{Status: 401, Retryable: false, Cause: errors.New("bad key")}
	tr := &scriptedTransport{responses: []any{fatal}}
	c := NewClient(tr, Config{TransportRetries: 2, RepairAttempts: 2, Backoff: time.Millisecond}, nil)

	_, err := c.Extract(context.Background(), testPrompt())
	require.Error(t, err)

	var tErr *llm.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Len(t, tr.requests, 1)
}

func TestExtractTransportBudgetExhausted(t *testing.T) {
	retryable := &llm.TransportError{Status: 503, Retryable: true, Cause: errors.New("down")}
	tr := &scriptedTransport{responses: []any{retryable}}
	c := NewClient(tr, Config{TransportRetries: 2, RepairAttempts: 1, Backoff: time.Millisecond}, nil)

	_, err := c.Extract(context.Background(), testPrompt())
	require.Error(t, err)
	assert.Len(t, tr.requests, 3) // initial + 2 retries, no repair round for transport failures
}

func TestExtractDeterministicRoundTrip(t *testing.T) {
	// Same prompt + deterministic transport → identical validated output.
	body := []byte(`{"name":"Ada","skills":["Go","SQL"]}`)
	runOnce := func() map[string]any {
		tr := &scriptedTransport{responses: []any{body}}
		c := NewClient(tr, fastConfig(), nil)
		out, err := c.Extract(context.Background(), testPrompt())
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, runOnce(), runOnce())
}
