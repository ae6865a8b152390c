// Package schema describes the named arguments accepted by tools, function steps and
// workflows, and validates dynamically typed maps against them.
//
// Schemas are JSON Schemas (github.com/google/jsonschema-go). The usual way to get one
// is to derive it from a Go struct:
//
//	type Args struct {
//		Text  string `json:"text" jsonschema:"the text to analyze"`
//		Limit int    `json:"limit,omitempty"`
//	}
//	s := schema.MustFor[Args]()
//	err := s.Validate(map[string]any{"text": "hello"})
//
// Fields without omitempty are required. Keys that the schema does not declare are
// ignored by Validate and dropped by Filter.
package schema

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema is a resolved JSON Schema describing an object with named properties.
type Schema struct {
	js       *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// For derives the schema of the Go type T, normally a struct.
func For[T any]() (*Schema, error) {
	js, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer schema: %w", err)
	}
	return New(js)
}

// MustFor is like For but panics on error. Intended for package-level schemas.
func MustFor[T any]() *Schema {
	s, err := For[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// New wraps a hand-written JSON Schema.
func New(js *jsonschema.Schema) (*Schema, error) {
	if js == nil {
		js = &jsonschema.Schema{Type: "object"}
	}
	resolved, err := js.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema: %w", err)
	}
	return &Schema{js: js, resolved: resolved}, nil
}

// Object builds a schema from property schemas and the list of required names.
func Object(properties map[string]*jsonschema.Schema, required ...string) (*Schema, error) {
	return New(&jsonschema.Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	})
}

// JSONSchema returns the underlying JSON Schema. It must not be modified.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	return s.js
}

// Fields returns the declared property names in sorted order.
func (s *Schema) Fields() []string {
	return slices.Sorted(maps.Keys(s.js.Properties))
}

// Required returns the names of the required properties.
func (s *Schema) Required() []string {
	return slices.Clone(s.js.Required)
}

// Has reports whether name is a declared property.
func (s *Schema) Has(name string) bool {
	_, ok := s.js.Properties[name]
	return ok
}

// Filter returns the entries of values whose keys are declared properties.
func (s *Schema) Filter(values map[string]any) map[string]any {
	out := make(map[string]any, len(s.js.Properties))
	for name := range s.js.Properties {
		if v, ok := values[name]; ok {
			out[name] = v
		}
	}
	return out
}

// Missing returns the required properties absent from values, in declaration order.
func (s *Schema) Missing(values map[string]any) []string {
	var missing []string
	for _, name := range s.js.Required {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Validate checks the declared properties of values against the schema.
// Undeclared keys are ignored.
func (s *Schema) Validate(values map[string]any) error {
	filtered := s.Filter(values)
	if missing := s.Missing(filtered); len(missing) > 0 {
		return &ValidationError{Field: missing[0], Message: "field required"}
	}

	normalized, err := normalize(filtered)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := s.resolved.Validate(normalized); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// ValidateValue checks an arbitrary JSON-compatible value against the schema.
func (s *Schema) ValidateValue(v any) error {
	normalized, err := normalize(v)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if m, ok := normalized.(map[string]any); ok {
		return s.Validate(m)
	}
	if err := s.resolved.Validate(normalized); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// Decode converts values into out, typically a pointer to the struct the schema was
// derived from.
func (s *Schema) Decode(values any, out any) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// Properties returns the property schemas as plain JSON values.
func (s *Schema) Properties() map[string]any {
	out := make(map[string]any, len(s.js.Properties))
	for name, prop := range s.js.Properties {
		var v any
		data, err := json.Marshal(prop)
		if err == nil && json.Unmarshal(data, &v) == nil {
			out[name] = v
		}
	}
	return out
}

// JSON renders the schema as indented JSON.
func (s *Schema) JSON() string {
	data, err := json.MarshalIndent(s.js, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// normalize converts Go values into the form encoding/json produces when decoding,
// which is what the validator expects.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON compatible: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
