// Package pipeline composes the per-document stages: schema resolution,
// loading, prompt construction, extraction, and normalization.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/On-Analytics/cv-extractor/internal/extract"
	"github.com/On-Analytics/cv-extractor/internal/llm"
	"github.com/On-Analytics/cv-extractor/internal/loader"
	"github.com/On-Analytics/cv-extractor/internal/postprocess"
	"github.com/On-Analytics/cv-extractor/internal/schema"
)

// ExtractionError is the surfaced wrapper for a document whose pipeline
// terminated: it names the stage and carries the underlying cause.
type ExtractionError struct {
	SourceFile string
	Stage      string // "schema", "load", "extract", "cancelled"
	Cause      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s at %s stage: %v", e.SourceFile, e.Stage, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// Processor runs the full pipeline for a single document.
type Processor struct {
	registry *schema.Registry
	loader   *loader.Loader
	client   *extract.Client
	logger   *slog.Logger
}

func NewProcessor(registry *schema.Registry, ld *loader.Loader, client *extract.Client, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{registry: registry, loader: ld, client: client, logger: logger}
}

// ProcessDocument runs loader → prompt builder → extraction client →
// postprocessor for one document. The schema resolves before anything else,
// so an unknown schema id or unreadable document never causes an outbound
// call. Errors surface directly; the batch layer wraps them per document.
func (p *Processor) ProcessDocument(ctx context.Context, doc *loader.RawDocument, schemaID string) (*postprocess.Record, error) {
	def, err := p.registry.Resolve(schemaID)
	if err != nil {
		return nil, &ExtractionError{SourceFile: doc.Path, Stage: "schema", Cause: err}
	}

	text, err := p.loader.Load(doc)
	if err != nil {
		return nil, &ExtractionError{SourceFile: doc.Path, Stage: "load", Cause: err}
	}

	prompt := llm.BuildPrompt(def, text)

	raw, err := p.client.Extract(ctx, prompt)
	if err != nil {
		return nil, &ExtractionError{SourceFile: doc.Path, Stage: "extract", Cause: err}
	}

	rec := postprocess.Normalize(raw, def, doc.Path)
	p.logger.Info("pipeline.document.ok",
		"source_file", doc.Path,
		"schema_id", schemaID,
		"fields", len(rec.Fields),
	)
	return rec, nil
}

// ProcessPath reads path into a RawDocument and processes it.
func (p *Processor) ProcessPath(ctx context.Context, path, schemaID string) (*postprocess.Record, error) {
	doc, err := loader.NewRawDocument(path)
	if err != nil {
		return nil, &ExtractionError{SourceFile: path, Stage: "load", Cause: err}
	}
	return p.ProcessDocument(ctx, doc, schemaID)
}
