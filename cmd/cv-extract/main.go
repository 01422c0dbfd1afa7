package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/On-Analytics/cv-extractor/internal/batch"
	"github.com/On-Analytics/cv-extractor/internal/common"
	"github.com/On-Analytics/cv-extractor/internal/export"
	"github.com/On-Analytics/cv-extractor/internal/extract"
	"github.com/On-Analytics/cv-extractor/internal/ingest"
	"github.com/On-Analytics/cv-extractor/internal/llm/openai"
	"github.com/On-Analytics/cv-extractor/internal/loader"
	"github.com/On-Analytics/cv-extractor/internal/pipeline"
	"github.com/On-Analytics/cv-extractor/internal/schema"
	"github.com/On-Analytics/cv-extractor/internal/store"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		input       = flag.String("input", "", "file or directory to extract from (required)")
		schemaID    = flag.String("schema", "cv", "schema id: cv, invoice, bank_statement, utility_bill")
		out         = flag.String("out", "extraction_results.json", "output JSON file path")
		csvOut      = flag.String("csv", "", "optional CSV output file path")
		xlsxOut     = flag.String("xlsx", "", "optional XLSX output file path")
		dbDSN       = flag.String("db", "", "optional result store DSN (sqlite path or postgres:// URL)")
		model       = flag.String("model", "", "override model name")
		concurrency = flag.Int("concurrency", 0, "override worker count")
	)
	flag.Parse()

	if *input == "" {
		printError("Error: --input is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *model != "" {
		cfg.LLM.Model = *model
	}
	if *concurrency > 0 {
		cfg.Batch.Concurrency = *concurrency
	}
	if *dbDSN != "" {
		cfg.Store.DSN = *dbDSN
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	registry := schema.Builtin(logger)
	if _, err := registry.Resolve(*schemaID); err != nil {
		logger.Error("schema resolution failed", "schema_id", *schemaID, "error", err)
		os.Exit(1)
	}

	transport := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	client := extract.NewClient(transport, extract.Config{
		TransportRetries: cfg.LLM.TransportRetries,
		RepairAttempts:   cfg.LLM.RepairAttempts,
	}, logger)
	proc := pipeline.NewProcessor(registry, loader.New(logger), client, logger)

	logger.Info("scanning input", "path", *input)
	docs, stats, err := ingest.Scan(ctx, *input, true)
	if err != nil {
		logger.Error("scan failed", "path", *input, "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"failed", stats.Failed,
	)
	if len(docs) == 0 {
		logger.Warn("no documents found", "path", *input)
	}

	orch := batch.NewOrchestrator(proc, batch.Config{
		Concurrency:   cfg.Batch.Concurrency,
		RatePerSecond: cfg.Batch.RatePerSecond,
		OnProgress: func(done, total int) {
			logger.Info("batch.progress", "done", done, "total", total)
		},
	}, logger)

	outcomes := orch.Run(ctx, docs, *schemaID)

	// Persist outcomes when a store is configured.
	if cfg.Store.DSN != "" {
		st, err := store.Open(ctx, cfg.Store.DSN, logger)
		if err != nil {
			logger.Error("failed to open result store", "error", err)
			os.Exit(1)
		}
		defer st.Close()
		for _, o := range outcomes {
			if o.Err != nil {
				if err := st.SaveFailure(ctx, o.SourceFile, *schemaID, o.Err.Error()); err != nil {
					logger.Error("failed to save failure", "source_file", o.SourceFile, "error", err)
				}
				continue
			}
			if err := st.SaveRecord(ctx, o.Record); err != nil {
				logger.Error("failed to save record", "source_file", o.SourceFile, "error", err)
			}
		}
	}

	payload, err := export.JSON(outcomes)
	if err != nil {
		logger.Error("failed to render JSON output", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, payload, 0644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	def, _ := registry.Resolve(*schemaID)
	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			logger.Error("failed to create CSV file", "path", *csvOut, "error", err)
			os.Exit(1)
		}
		if err := export.CSV(f, def, outcomes); err != nil {
			_ = f.Close()
			logger.Error("failed to write CSV", "error", err)
			os.Exit(1)
		}
		_ = f.Close()
	}
	if *xlsxOut != "" {
		b, err := export.XLSX(def, outcomes)
		if err != nil {
			logger.Error("failed to render XLSX", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, b, 0644); err != nil {
			logger.Error("failed to write XLSX file", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
	}

	failures := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failures++
		}
	}
	logger.Info("extraction complete",
		"documents", len(outcomes),
		"failures", failures,
		"output", *out,
	)
}
