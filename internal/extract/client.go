// Package extract turns a composed ExtractionPrompt into a schema-conformant
// raw structure via a bounded retry/repair loop around a single-request
// transport.
//
// Per prompt the client walks the states Built → Sent → {Validated,
// Malformed, Failed}. A transient transport failure resends the SAME prompt
// with exponential backoff, up to TransportRetries extra sends. A validation
// failure (Malformed) amends the prompt with the validation error and
// re-requests, up to RepairAttempts times. Worst case outbound calls per
// document: (TransportRetries+1) × (RepairAttempts+1).
package extract

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/On-Analytics/cv-extractor/internal/llm"
)

// State of the extraction machine for one document.
type State string

const (
	StateBuilt     State = "built"
	StateSent      State = "sent"
	StateValidated State = "validated"
	StateMalformed State = "malformed"
	StateFailed    State = "failed"
)

// Config bounds the outbound call budget.
type Config struct {
	TransportRetries int           // extra sends of the same prompt after transient failures; default 2
	RepairAttempts   int           // amended re-requests after validation failures; default 1
	Backoff          time.Duration // base backoff between transport retries, doubled per retry; default 500ms
}

func (c Config) withDefaults() Config {
	if c.TransportRetries < 0 {
		c.TransportRetries = 0
	} else if c.TransportRetries == 0 {
		c.TransportRetries = 2
	}
	if c.RepairAttempts < 0 {
		c.RepairAttempts = 0
	} else if c.RepairAttempts == 0 {
		c.RepairAttempts = 1
	}
	if c.Backoff <= 0 {
		c.Backoff = 500 * time.Millisecond
	}
	return c
}

// Client drives the state machine over an llm.Transport.
type Client struct {
	transport llm.Transport
	cfg       Config
	logger    *slog.Logger
}

func NewClient(transport llm.Transport, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{transport: transport, cfg: cfg.withDefaults(), logger: logger}
}

// Extract runs the full loop for one prompt and returns the validated raw
// structure. A terminal failure is never converted into a partial record.
func (c *Client) Extract(ctx context.Context, prompt llm.ExtractionPrompt) (map[string]any, error) {
	current := prompt
	state := StateBuilt
	var lastErr error

	fail := func(err error) error {
		state = StateFailed
		c.logger.Error("extract.failed",
			"source_file", prompt.SourceFile,
			"schema_id", prompt.SchemaID,
			"state", state,
			"error", err,
		)
		return err
	}

	for repair := 0; repair <= c.cfg.RepairAttempts; repair++ {
		state = StateSent
		raw, err := c.send(ctx, current)
		if err != nil {
			// Transport budget already spent inside send; escalate.
			return nil, fail(err)
		}

		obj, err := validateAgainstSchema(current.JSONSchema, raw)
		if err == nil {
			state = StateValidated
			c.logger.Info("extract.validated",
				"source_file", prompt.SourceFile,
				"schema_id", prompt.SchemaID,
				"state", state,
				"repairs_used", repair,
			)
			return obj, nil
		}

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			return nil, fail(err)
		}

		state = StateMalformed
		lastErr = vErr
		c.logger.Warn("extract.malformed",
			"source_file", prompt.SourceFile,
			"schema_id", prompt.SchemaID,
			"state", state,
			"repair", repair,
			"error", vErr,
		)
		if repair < c.cfg.RepairAttempts {
			current = llm.AmendForRepair(prompt, vErr.Error())
		}
	}

	return nil, fail(&RepairBudgetExceededError{Attempts: c.cfg.RepairAttempts, Last: lastErr})
}

// send dispatches one prompt, resending the same request on retryable
// transport failures up to the configured bound.
func (c *Client) send(ctx context.Context, prompt llm.ExtractionPrompt) ([]byte, error) {
	req := llm.ChatRequest{
		System: prompt.System,
		User:   prompt.User,
		Schema: prompt.JSONSchema,
	}

	var lastErr error
	backoff := c.cfg.Backoff
	for attempt := 0; attempt <= c.cfg.TransportRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &llm.TransportError{Cause: ctx.Err()}
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		raw, err := c.transport.Complete(ctx, req)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		var tErr *llm.TransportError
		if !errors.As(err, &tErr) || !tErr.Retryable {
			return nil, err
		}
		c.logger.Warn("extract.transport_retry",
			"source_file", prompt.SourceFile,
			"attempt", attempt+1,
			"error", err,
		)
	}
	return nil, lastErr
}
