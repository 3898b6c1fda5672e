package integrity

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// statsSchema describes the persisted progress record. Counter drift is
// repaired by the migration pass; the schema only rejects records whose
// shape can't be trusted at all.
var statsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"attempted": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "boolean"},
		},
		"correctAnswers": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "boolean"},
		},
		"incorrectAnswers": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
		},
		"learnedQuestions": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "number"},
		},
		"flaggedQuestions": map[string]any{
			"type":                 "object",
			"additionalProperties": map[string]any{"type": "number"},
		},
		"correct":       map[string]any{"type": "integer", "minimum": 0},
		"wrong":         map[string]any{"type": "integer", "minimum": 0},
		"totalSessions": map[string]any{"type": "integer", "minimum": 0},
	},
	"required": []any{
		"attempted", "correctAnswers", "incorrectAnswers",
		"learnedQuestions", "flaggedQuestions",
		"correct", "wrong", "totalSessions",
	},
}

// StatsPredicate returns a predicate validating the progress record shape.
func StatsPredicate() Predicate {
	return SchemaPredicate("stats-record", statsSchema)
}

// SchemaPredicate compiles def (once, cached by name) and returns a
// predicate that validates raw JSON against it.
func SchemaPredicate(name string, def map[string]any) Predicate {
	return func(raw json.RawMessage) bool {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return false
		}
		compiled, err := compiledSchema(name, def)
		if err != nil {
			return false
		}
		return compiled.Validate(parsed) == nil
	}
}

// IsBool accepts any JSON boolean.
func IsBool(raw json.RawMessage) bool {
	var v bool
	return json.Unmarshal(raw, &v) == nil
}

// IsString accepts any JSON string.
func IsString(raw json.RawMessage) bool {
	var v string
	return json.Unmarshal(raw, &v) == nil
}

// IsNumber accepts any JSON number.
func IsNumber(raw json.RawMessage) bool {
	var v float64
	return json.Unmarshal(raw, &v) == nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The jsonschema library expects a parsed JSON value (any), not raw
	// bytes. Marshal then unmarshal to get a clean any representation.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
