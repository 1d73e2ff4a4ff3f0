package common

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildConfigSchema returns the JSON-Schema (draft 2020-12 subset) for the
// persisted config file, as a generic map.
func buildConfigSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"mail_root":        map[string]any{"type": "string", "minLength": 1},
			"scan_folder":      map[string]any{"type": "string", "minLength": 1},
			"processed_folder": map[string]any{"type": "string", "minLength": 1},
			"temp_folder":      map[string]any{"type": "string", "minLength": 1},
			"dest_root":        map[string]any{"type": "string", "minLength": 1},
			"ocr_language":     map[string]any{"type": "string", "minLength": 1},
			"ocr_dpi":          map[string]any{"type": "integer", "minimum": 1},
			"ocr_max_pages":    map[string]any{"type": "integer", "minimum": 0},
			"rename_files":     map[string]any{"type": "boolean"},
			"doc_prefix":       map[string]any{"type": "string", "minLength": 1},
			"history_dsn":      map[string]any{"type": "string"},
		},
	}
}

// buildAliasSchema returns the JSON-Schema for the alias file: a flat
// object of raw-text fragment -> canonical supplier name.
func buildAliasSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"additionalProperties": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
	}
}

// ValidateConfigJSON validates raw config-file bytes against the config schema.
func ValidateConfigJSON(data []byte) error {
	return validateAgainstSchema(buildConfigSchema(), data)
}

// ValidateAliasJSON validates raw alias-file bytes against the alias schema.
func ValidateAliasJSON(data []byte) error {
	return validateAgainstSchema(buildAliasSchema(), data)
}

func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
