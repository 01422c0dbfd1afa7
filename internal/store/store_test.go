package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/On-Analytics/cv-extractor/internal/postprocess"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndListRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := &postprocess.Record{
		SourceFile: "cv.pdf",
		SchemaID:   "cv",
		Fields: map[string]any{
			"name":   "Ada",
			"skills": []any{"Python"},
		},
	}
	require.NoError(t, s.SaveRecord(ctx, rec))
	require.NoError(t, s.SaveFailure(ctx, "broken.pdf", "cv", "cannot extract text"))
	require.NoError(t, s.SaveFailure(ctx, "other.pdf", "invoice", "unsupported format"))

	rows, err := s.List(ctx, "cv")
	require.NoError(t, err)
	require.Len(t, rows, 2, "List filters by schema id")

	ok := rows[0]
	assert.Equal(t, "cv.pdf", ok.SourceFile)
	assert.Equal(t, "ok", ok.Status)
	assert.Empty(t, ok.Error)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(ok.Payload, &payload))
	assert.Equal(t, "Ada", payload["name"])
	assert.Equal(t, "cv.pdf", payload["source_file"])

	failed := rows[1]
	assert.Equal(t, "broken.pdf", failed.SourceFile)
	assert.Equal(t, "failed", failed.Status)
	assert.Equal(t, "cannot extract text", failed.Error)
	assert.Nil(t, failed.Payload)
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)
	rows, err := s.List(context.Background(), "cv")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
