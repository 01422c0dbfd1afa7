// Package batch fans a collection of documents out over a bounded worker
// pool, one pipeline per document, and aggregates per-document outcomes in
// input order.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/On-Analytics/cv-extractor/internal/loader"
	"github.com/On-Analytics/cv-extractor/internal/pipeline"
	"github.com/On-Analytics/cv-extractor/internal/postprocess"
)

// Outcome is the single result slot for one input document: exactly one of
// Record or Err is set.
type Outcome struct {
	SourceFile string
	Record     *postprocess.Record
	Err        *pipeline.ExtractionError
}

// MarshalJSON renders a success as the record itself and a failure as a
// {source_file, error} object, so the aggregate array stays one element per
// document.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != nil {
		return json.Marshal(map[string]any{
			"source_file": o.SourceFile,
			"error":       o.Err.Error(),
		})
	}
	return json.Marshal(o.Record)
}

// ProgressFunc observes batch progress. It is a side channel: correctness of
// the returned outcomes does not depend on it.
type ProgressFunc func(done, total int)

// Config for the orchestrator.
type Config struct {
	Concurrency     int           // worker count; default 4
	RatePerSecond   float64       // pipeline starts per second; 0 = unlimited
	DocumentTimeout time.Duration // per-document deadline; default 3m
	OnProgress      ProgressFunc
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.DocumentTimeout <= 0 {
		c.DocumentTimeout = 3 * time.Minute
	}
	return c
}

// Orchestrator runs per-document pipelines concurrently. The only shared
// state between workers is the read-only schema registry and the rate
// limiter.
type Orchestrator struct {
	proc    *pipeline.Processor
	cfg     Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewOrchestrator(proc *pipeline.Processor, cfg Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return &Orchestrator{proc: proc, cfg: cfg, limiter: limiter, logger: logger}
}

// Run processes docs against schemaID and returns one outcome per input
// document, in input order. A failure in one document never aborts the rest.
// Cancelling ctx stops new documents from starting; documents already in
// flight finish on their own terms and keep their real outcome.
func (o *Orchestrator) Run(ctx context.Context, docs []*loader.RawDocument, schemaID string) []Outcome {
	total := len(docs)
	outcomes := make([]Outcome, total)
	if total == 0 {
		return outcomes
	}

	o.logger.Info("batch.run.start",
		"documents", total,
		"schema_id", schemaID,
		"concurrency", o.cfg.Concurrency,
	)
	start := time.Now()

	type job struct {
		idx int
		doc *loader.RawDocument
	}
	jobs := make(chan job)

	var done atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < o.cfg.Concurrency; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			o.logger.Debug("batch.worker.started", "worker_id", workerID)
			for j := range jobs {
				outcomes[j.idx] = o.runOne(ctx, j.doc, schemaID)
				n := int(done.Add(1))
				if o.cfg.OnProgress != nil {
					o.cfg.OnProgress(n, total)
				}
			}
		}(w + 1)
	}

feed:
	for i, doc := range docs {
		select {
		case <-ctx.Done():
			// Every remaining document still gets an outcome.
			for k := i; k < total; k++ {
				outcomes[k] = Outcome{
					SourceFile: docs[k].Path,
					Err: &pipeline.ExtractionError{
						SourceFile: docs[k].Path,
						Stage:      "cancelled",
						Cause:      ctx.Err(),
					},
				}
				n := int(done.Add(1))
				if o.cfg.OnProgress != nil {
					o.cfg.OnProgress(n, total)
				}
			}
			break feed
		case jobs <- job{idx: i, doc: doc}:
		}
	}
	close(jobs)
	wg.Wait()

	failures := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failures++
		}
	}
	o.logger.Info("batch.run.done",
		"documents", total,
		"failures", failures,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return outcomes
}

func (o *Orchestrator) runOne(ctx context.Context, doc *loader.RawDocument, schemaID string) Outcome {
	// The rate limiter still answers to the batch context: a document waiting
	// for a token has not started and is fair game for cancellation.
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return Outcome{
				SourceFile: doc.Path,
				Err:        &pipeline.ExtractionError{SourceFile: doc.Path, Stage: "cancelled", Cause: err},
			}
		}
	}

	// Once dispatched, a document answers only to its own deadline. Cancelling
	// the batch stops the feed loop from starting new documents; it must not
	// sever a call already in flight.
	docCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.cfg.DocumentTimeout)
	defer cancel()

	rec, err := o.proc.ProcessDocument(docCtx, doc, schemaID)
	if err != nil {
		var xErr *pipeline.ExtractionError
		if !errors.As(err, &xErr) {
			xErr = &pipeline.ExtractionError{SourceFile: doc.Path, Stage: "extract", Cause: err}
		}
		o.logger.Error("batch.document.failed",
			"source_file", doc.Path,
			"stage", xErr.Stage,
			"error", xErr.Cause,
		)
		return Outcome{SourceFile: doc.Path, Err: xErr}
	}
	return Outcome{SourceFile: doc.Path, Record: rec}
}
