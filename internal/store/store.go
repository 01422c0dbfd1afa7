// Package store persists extraction outcomes. SQLite is the default
// (including in-memory); a postgres:// DSN switches to pgx.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/On-Analytics/cv-extractor/internal/postprocess"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS extraction_records (
	id          TEXT PRIMARY KEY,
	source_file TEXT NOT NULL,
	schema_id   TEXT NOT NULL,
	status      TEXT NOT NULL,
	payload     TEXT,
	error       TEXT,
	created_at  TIMESTAMP NOT NULL
)`

// Store writes extraction outcomes to a SQL database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects using dsn and ensures the schema exists. DSN forms:
//   - "postgres://..." / "postgresql://..." → pgx
//   - anything else (file path or ":memory:") → sqlite
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s store: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Info("store.open", "driver", driver)
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveRecord persists a successful extraction.
func (s *Store) SaveRecord(ctx context.Context, rec *postprocess.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO extraction_records (id, source_file, schema_id, status, payload, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), rec.SourceFile, rec.SchemaID, "ok", string(payload), nil, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	s.logger.Debug("store.record.saved", "source_file", rec.SourceFile, "schema_id", rec.SchemaID)
	return nil
}

// SaveFailure persists a terminal per-document failure.
func (s *Store) SaveFailure(ctx context.Context, sourceFile, schemaID, message string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extraction_records (id, source_file, schema_id, status, payload, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), sourceFile, schemaID, "failed", nil, message, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert failure: %w", err)
	}
	return nil
}

// StoredRecord is one persisted row.
type StoredRecord struct {
	ID         string
	SourceFile string
	SchemaID   string
	Status     string
	Payload    json.RawMessage
	Error      string
	CreatedAt  time.Time
}

// List returns rows for schemaID ordered by creation time.
func (s *Store) List(ctx context.Context, schemaID string) ([]StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_file, schema_id, status, payload, error, created_at
		 FROM extraction_records WHERE schema_id = $1 ORDER BY created_at`,
		schemaID,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var r StoredRecord
		var payload, errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.SchemaID, &r.Status, &payload, &errMsg, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if payload.Valid {
			r.Payload = json.RawMessage(payload.String)
		}
		r.Error = errMsg.String
		out = append(out, r)
	}
	return out, rows.Err()
}
