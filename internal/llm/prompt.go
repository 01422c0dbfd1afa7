package llm

import (
	"strings"

	"github.com/On-Analytics/cv-extractor/internal/loader"
	"github.com/On-Analytics/cv-extractor/internal/schema"
)

// BuildPrompt composes the extraction prompt for one document against one
// schema. Pure function of its inputs: identical (definition, text) pairs
// always yield byte-identical prompts.
//
// The prompt enumerates every schema field with its type and description and
// instructs explicit null-filling for anything absent from the passage; the
// postprocessor relies on full field coverage in the response shape.
func BuildPrompt(def *schema.Definition, text *loader.ExtractedText) ExtractionPrompt {
	var sys strings.Builder
	sys.WriteString("You are a document parser for documents of class: ")
	sys.WriteString(def.Title)
	sys.WriteString(". Return ONLY a JSON object that matches the provided JSON Schema.\n\n")
	sys.WriteString("Extract exactly the following fields:\n")
	for _, f := range def.Fields {
		writeFieldLine(&sys, f, 0)
	}
	sys.WriteString("\nFollow these instructions:\n")
	sys.WriteString("- Do NOT guess or infer values that are not present in the document.\n")
	sys.WriteString("- Do NOT use placeholders like 'N/A', 'Not specified', 'City', 'Company Name'.\n")
	sys.WriteString("- Every field above MUST appear in the output; set it to null (or an empty list for list fields) when the document does not contain it. Never omit a key.\n")
	sys.WriteString("- Date ranges stay as written in the document; do not split them unless the schema declares separate start/end fields.\n")

	var user strings.Builder
	user.WriteString("Passage:\n")
	user.WriteString(text.Text)

	return ExtractionPrompt{
		SchemaID:   def.ID,
		DocumentID: text.DocumentID,
		SourceFile: text.SourceFile,
		System:     sys.String(),
		User:       user.String(),
		JSONSchema: def.JSONSchema(),
	}
}

func writeFieldLine(sb *strings.Builder, f schema.Field, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString("- ")
	sb.WriteString(f.Name)
	sb.WriteString(" (")
	sb.WriteString(schema.TypeLabel(f.Type))
	sb.WriteString(")")
	if f.Description != "" {
		sb.WriteString(": ")
		sb.WriteString(f.Description)
	}
	sb.WriteString("\n")

	// One level of nested enumeration keeps object members self-describing.
	nested := f.Type.Fields
	if f.Type.Kind == schema.KindArray && f.Type.Item != nil {
		nested = f.Type.Item.Fields
	}
	if depth == 0 {
		for _, sub := range nested {
			writeFieldLine(sb, sub, depth+1)
		}
	}
}

// AmendForRepair returns a copy of p with the validation failure appended to
// the user message, asking the model to correct the specific violation.
// The system message and schema stay untouched.
func AmendForRepair(p ExtractionPrompt, validationErr string) ExtractionPrompt {
	var b strings.Builder
	b.WriteString(p.User)
	b.WriteString("\n\nYour previous response was not valid against the schema. Validation error:\n")
	b.WriteString(validationErr)
	b.WriteString("\nReturn a corrected JSON object that fixes this specific violation. Keep all other values unchanged.")
	p.User = b.String()
	return p
}
