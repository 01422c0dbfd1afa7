// Package ingest discovers document files on disk and turns them into
// RawDocuments for the pipeline.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/On-Analytics/cv-extractor/internal/loader"
)

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Failed  uint32
}

// Scan walks root (or accepts a single file), filters by supported document
// extensions, and reads each match into a RawDocument. Unreadable files are
// counted and skipped; the scan itself only fails on a broken walk. Results
// come back in walk order, which is deterministic for a given tree.
func Scan(ctx context.Context, root string, skipHidden bool) ([]*loader.RawDocument, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("input path is required")
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, DirStats{}, fmt.Errorf("stat %s: %w", root, err)
	}

	var docs []*loader.RawDocument
	var stats DirStats

	if !info.IsDir() {
		stats.Scanned++
		doc, err := loader.NewRawDocument(root)
		if err != nil {
			return nil, stats, err
		}
		stats.Matched++
		return []*loader.RawDocument{doc}, stats, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stats.Scanned++
		if walkErr != nil {
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, err := loader.DetectFormat(path); err != nil {
			return nil // not a document type we handle
		}
		stats.Matched++

		doc, err := loader.NewRawDocument(path)
		if err != nil {
			stats.Failed++
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return docs, stats, fmt.Errorf("walk: %w", err)
	}
	return docs, stats, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
