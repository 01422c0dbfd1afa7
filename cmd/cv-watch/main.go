package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/On-Analytics/cv-extractor/internal/common"
	"github.com/On-Analytics/cv-extractor/internal/extract"
	"github.com/On-Analytics/cv-extractor/internal/ingest"
	"github.com/On-Analytics/cv-extractor/internal/llm/openai"
	"github.com/On-Analytics/cv-extractor/internal/loader"
	"github.com/On-Analytics/cv-extractor/internal/pipeline"
	"github.com/On-Analytics/cv-extractor/internal/schema"
	"github.com/On-Analytics/cv-extractor/internal/store"
)

func main() {
	var (
		dir      = flag.String("dir", "", "directory to watch (required)")
		schemaID = flag.String("schema", "cv", "schema id: cv, invoice, bank_statement, utility_bill")
		dbDSN    = flag.String("db", "", "result store DSN (sqlite path or postgres:// URL, required)")
		initial  = flag.Bool("initial-scan", false, "process existing files before watching")
		debounce = flag.Duration("debounce", 2*time.Second, "event debounce window")
	)
	flag.Parse()

	if *dir == "" || *dbDSN == "" {
		if _, err := fmt.Fprintln(os.Stderr, "Error: --dir and --db are required"); err != nil {
			fmt.Println("Error: --dir and --db are required")
		}
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	st, err := store.Open(ctx, *dbDSN, logger)
	if err != nil {
		logger.Error("failed to open result store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{*dir},
		InitialScan: *initial,
		Debounce:    *debounce,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "dir", *dir, "error", err)
		os.Exit(1)
	}

	logger.Info("watching for documents", "dir", *dir, "schema_id", *schemaID)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case werr, ok := <-errs:
			if ok {
				logger.Error("watcher error", "error", werr)
			}
		case path, ok := <-events:
			if !ok {
				return
			}
			rec, err := proc.ProcessPath(ctx, path, *schemaID)
			if err != nil {
				logger.Error("document failed", "path", path, "error", err)
				if serr := st.SaveFailure(ctx, path, *schemaID, err.Error()); serr != nil {
					logger.Error("failed to save failure", "path", path, "error", serr)
				}
				continue
			}
			if err := st.SaveRecord(ctx, rec); err != nil {
				logger.Error("failed to save record", "path", path, "error", err)
			}
		}
	}
}
