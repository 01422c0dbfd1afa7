package schema

import (
	"fmt"
	"strings"
)

// Kind enumerates the value kinds a field may declare.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
)

// FieldType describes the shape of a single field: a primitive, a nested
// object (Fields set), or an array of Item.
type FieldType struct {
	Kind   Kind
	Item   *FieldType
	Fields []Field
}

// Field is one named entry in a Definition. Order is significant: prompts and
// exports enumerate fields in declaration order.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
}

// Definition is the declarative description of the expected output for one
// document class. Immutable once resolved from the registry.
type Definition struct {
	ID     string
	Title  string
	Fields []Field
}

// Validate checks the definition is well formed: non-empty id, at least one
// field, unique field names, and complete type descriptors all the way down.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("schema definition has empty id")
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("schema %q declares no fields", d.ID)
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for _, f := range d.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("schema %q has a field with empty name", d.ID)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("schema %q declares field %q twice", d.ID, f.Name)
		}
		seen[f.Name] = struct{}{}
		if err := validateType(f.Name, f.Type); err != nil {
			return fmt.Errorf("schema %q: %w", d.ID, err)
		}
	}
	return nil
}

func validateType(path string, t FieldType) error {
	switch t.Kind {
	case KindString, KindNumber, KindInteger, KindBoolean:
		return nil
	case KindObject:
		if len(t.Fields) == 0 {
			return fmt.Errorf("field %q is an object with no fields", path)
		}
		sub := make(map[string]struct{}, len(t.Fields))
		for _, f := range t.Fields {
			if strings.TrimSpace(f.Name) == "" {
				return fmt.Errorf("field %q has a nested field with empty name", path)
			}
			if _, dup := sub[f.Name]; dup {
				return fmt.Errorf("field %q declares nested field %q twice", path, f.Name)
			}
			sub[f.Name] = struct{}{}
			if err := validateType(path+"."+f.Name, f.Type); err != nil {
				return err
			}
		}
		return nil
	case KindArray:
		if t.Item == nil {
			return fmt.Errorf("field %q is an array with no item type", path)
		}
		return validateType(path+"[]", *t.Item)
	default:
		return fmt.Errorf("field %q has unknown kind %q", path, t.Kind)
	}
}

// JSONSchema renders the definition as a JSON-Schema (draft 2020-12 subset)
// generic map. Every field is nullable so the model can fill absent values
// with explicit nulls instead of omitting keys; additionalProperties is
// disabled to keep the response shape closed.
func (d *Definition) JSONSchema() map[string]any {
	props := make(map[string]any, len(d.Fields))
	required := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		props[f.Name] = typeSchema(f.Type, f.Description)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	s := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func typeSchema(t FieldType, description string) map[string]any {
	var s map[string]any
	switch t.Kind {
	case KindObject:
		sub := make(map[string]any, len(t.Fields))
		for _, f := range t.Fields {
			sub[f.Name] = typeSchema(f.Type, f.Description)
		}
		s = map[string]any{
			"type":                 []any{"object", "null"},
			"additionalProperties": false,
			"properties":           sub,
		}
	case KindArray:
		s = map[string]any{
			"type":  []any{"array", "null"},
			"items": typeSchema(*t.Item, ""),
		}
	default:
		s = map[string]any{"type": []any{string(t.Kind), "null"}}
	}
	if description != "" {
		s["description"] = description
	}
	return s
}

// TypeLabel returns a short human-readable label for prompt enumeration,
// e.g. "string", "list of object{city, country, region}".
func TypeLabel(t FieldType) string {
	switch t.Kind {
	case KindObject:
		names := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Name
		}
		return "object{" + strings.Join(names, ", ") + "}"
	case KindArray:
		return "list of " + TypeLabel(*t.Item)
	default:
		return string(t.Kind)
	}
}
