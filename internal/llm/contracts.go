package llm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ExtractionPrompt is the composed instruction for one structured-output
// call: one schema, one document. Built fresh per document, never cached.
type ExtractionPrompt struct {
	SchemaID   string
	DocumentID uuid.UUID
	SourceFile string
	System     string
	User       string
	JSONSchema map[string]any
}

// ChatRequest is what a transport sends out on one call.
type ChatRequest struct {
	System string
	User   string
	Schema map[string]any
}

// Transport issues exactly one outbound structured-output request per call
// and returns the raw response content, expected to be a JSON object.
type Transport interface {
	Complete(ctx context.Context, req ChatRequest) ([]byte, error)
}

// TransportError wraps provider/network failures. Retryable marks transient
// conditions (timeouts, rate limiting, 5xx) worth resending the same prompt.
type TransportError struct {
	Status    int
	Retryable bool
	Cause     error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("llm transport error (status %d): %v", e.Status, e.Cause)
	}
	return fmt.Sprintf("llm transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }
