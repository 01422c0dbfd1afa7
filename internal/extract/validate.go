package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// validateAgainstSchema validates data against schemaMap and decodes it into
// a generic map on success. Any failure (JSON parse, non-object payload, or
// schema mismatch) comes back as *ValidationError.
func validateAgainstSchema(schemaMap map[string]any, data []byte) (map[string]any, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &ValidationError{Cause: fmt.Errorf("response is not valid JSON: %w", err)}
	}
	if err := compiled.Validate(v); err != nil {
		return nil, &ValidationError{Cause: err}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ValidationError{Cause: fmt.Errorf("response is not a JSON object")}
	}
	return obj, nil
}
