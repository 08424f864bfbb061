package config

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validate checks instance (already unmarshalled into a generic value)
// against schema, returning an error rather than exiting the process,
// since Load's caller decides whether a given document error is fatal to
// the whole run or just to one scenario.
func Validate(name, schema string, instance any) error {
	sch, err := jsonschema.CompileString(name, schema)
	if err != nil {
		return fmt.Errorf("config: compile %s: %w", name, err)
	}
	if err := sch.Validate(instance); err != nil {
		return fmt.Errorf("config: %s: %w", name, err)
	}
	return nil
}

// toGeneric round-trips v through JSON to the any-typed representation
// jsonschema.Validate expects.
func toGeneric(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("config: marshal for validation: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("config: unmarshal for validation: %w", err)
	}
	return out, nil
}
