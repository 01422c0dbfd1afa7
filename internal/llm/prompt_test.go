package llm

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/On-Analytics/cv-extractor/internal/loader"
	"github.com/On-Analytics/cv-extractor/internal/schema"
)

func testDefinition(t *testing.T) *schema.Definition {
	t.Helper()
	def, err := schema.CV()
	require.NoError(t, err)
	return def
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	def := testDefinition(t)
	text := &loader.ExtractedText{
		DocumentID: uuid.MustParse("7a9e2f4c-0000-0000-0000-000000000001"),
		SourceFile: "cv.pdf",
		Text:       "John Doe\nSoftware Engineer at Acme Corp",
	}

	a := BuildPrompt(def, text)
	b := BuildPrompt(def, text)

	assert.Equal(t, a.System, b.System)
	assert.Equal(t, a.User, b.User)
	assert.Equal(t, a.JSONSchema, b.JSONSchema)
}

func TestBuildPromptEnumeratesEveryField(t *testing.T) {
	def := testDefinition(t)
	text := &loader.ExtractedText{SourceFile: "cv.txt", Text: "some text"}

	p := BuildPrompt(def, text)

	for _, f := range def.Fields {
		assert.Contains(t, p.System, "- "+f.Name+" (", "field %s missing from prompt", f.Name)
	}
	// Nested object members are enumerated one level down.
	assert.Contains(t, p.System, "start_date")
	assert.Contains(t, p.System, "institution")
}

func TestBuildPromptInstructsNullFilling(t *testing.T) {
	def := testDefinition(t)
	p := BuildPrompt(def, &loader.ExtractedText{SourceFile: "cv.txt", Text: "x"})

	assert.Contains(t, p.System, "null")
	assert.Contains(t, p.System, "Never omit a key")
	assert.True(t, strings.HasPrefix(p.User, "Passage:\n"))
	assert.Contains(t, p.User, "x")
}

func TestAmendForRepair(t *testing.T) {
	def := testDefinition(t)
	base := BuildPrompt(def, &loader.ExtractedText{SourceFile: "cv.txt", Text: "passage body"})

	amended := AmendForRepair(base, "field 'skills' must be an array")

	assert.Equal(t, base.System, amended.System, "system message must not change")
	assert.Equal(t, base.JSONSchema, amended.JSONSchema)
	assert.Contains(t, amended.User, "passage body")
	assert.Contains(t, amended.User, "field 'skills' must be an array")
	assert.Contains(t, amended.User, "corrected JSON object")
}
