package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/On-Analytics/cv-extractor/internal/loader"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestScanDirectoryFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "alpha")
	writeFile(t, filepath.Join(dir, "nested", "b.docx"), "not-really-a-docx")
	writeFile(t, filepath.Join(dir, "c.rtf"), "skipped")
	writeFile(t, filepath.Join(dir, "d.png"), "skipped")

	docs, stats, err := Scan(context.Background(), dir, false)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	paths := []string{docs[0].Path, docs[1].Path}
	assert.Contains(t, paths, filepath.Join(dir, "a.txt"))
	assert.Contains(t, paths, filepath.Join(dir, "nested", "b.docx"))
	assert.Equal(t, uint32(2), stats.Matched)

	for _, d := range docs {
		assert.NotEmpty(t, d.Content, "scan reads file content eagerly")
	}
}

func TestScanSkipsHiddenEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "visible.txt"), "x")
	writeFile(t, filepath.Join(dir, ".hidden.txt"), "x")
	writeFile(t, filepath.Join(dir, ".cache", "inner.txt"), "x")

	docs, stats, err := Scan(context.Background(), dir, true)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, filepath.Join(dir, "visible.txt"), docs[0].Path)
	assert.Equal(t, uint32(1), stats.Matched)
}

func TestScanSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.txt")
	writeFile(t, path, "body")

	docs, stats, err := Scan(context.Background(), path, false)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, path, docs[0].Path)
	assert.Equal(t, loader.FormatTXT, docs[0].Format)
	assert.Equal(t, uint32(1), stats.Matched)
}

func TestScanSingleUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.rtf")
	writeFile(t, path, "body")

	_, _, err := Scan(context.Background(), path, false)
	require.Error(t, err)
	var unsupported *loader.UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestScanMissingRoot(t *testing.T) {
	_, _, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), false)
	assert.Error(t, err)
}

func TestScanEmptyPath(t *testing.T) {
	_, _, err := Scan(context.Background(), "   ", false)
	assert.Error(t, err)
}

func TestScanCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Scan(ctx, dir, false)
	assert.ErrorIs(t, err, context.Canceled)
}
