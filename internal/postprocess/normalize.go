// Package postprocess normalizes a validated raw structure into the final
// ExtractionRecord. It never talks to the LLM and never fails the pipeline:
// values it cannot make sense of degrade to null rather than raising.
package postprocess

import (
	"encoding/json"
	"strings"

	"github.com/On-Analytics/cv-extractor/internal/schema"
)

// Record is the terminal artifact for one document: a field map conforming
// to its schema definition plus the originating file.
type Record struct {
	SourceFile string
	SchemaID   string
	Fields     map[string]any
}

// MarshalJSON flattens the field map and adds the source_file identifier so
// every output element carries its provenance.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["source_file"] = r.SourceFile
	return json.Marshal(out)
}

// Normalize walks the schema definition over the raw structure:
//   - string fields are whitespace-trimmed (empty strings become null)
//   - list fields are deduplicated preserving first-seen order
//   - numeric fields coerce to float64 (integer or fractional input)
//   - every declared field is present in the result, null when unresolved
func Normalize(raw map[string]any, def *schema.Definition, sourceFile string) *Record {
	fields := make(map[string]any, len(def.Fields))
	for _, f := range def.Fields {
		fields[f.Name] = normalizeValue(raw[f.Name], f.Type)
	}
	return &Record{
		SourceFile: sourceFile,
		SchemaID:   def.ID,
		Fields:     fields,
	}
}

func normalizeValue(v any, t schema.FieldType) any {
	if v == nil {
		if t.Kind == schema.KindArray {
			return []any{}
		}
		return nil
	}

	switch t.Kind {
	case schema.KindString:
		s, ok := v.(string)
		if !ok {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return s

	case schema.KindNumber, schema.KindInteger:
		switch n := v.(type) {
		case float64:
			return n
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil
			}
			return f
		default:
			return nil
		}

	case schema.KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil
		}
		return b

	case schema.KindObject:
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		out := make(map[string]any, len(t.Fields))
		for _, f := range t.Fields {
			out[f.Name] = normalizeValue(m[f.Name], f.Type)
		}
		return out

	case schema.KindArray:
		items, ok := v.([]any)
		if !ok {
			return []any{}
		}
		seen := make(map[string]struct{}, len(items))
		out := make([]any, 0, len(items))
		for _, item := range items {
			n := normalizeValue(item, *t.Item)
			if n == nil {
				continue
			}
			key := dedupeKey(n)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, n)
		}
		return out

	default:
		return nil
	}
}

// dedupeKey renders a normalized list item into a stable comparison key.
func dedupeKey(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
