package schema

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// Example builds a placeholder object with one entry per declared property, used to
// show the model the expected shape of an answer.
func (s *Schema) Example() map[string]any {
	return exampleObject(s.js)
}

func exampleObject(js *jsonschema.Schema) map[string]any {
	out := make(map[string]any, len(js.Properties))
	for name, prop := range js.Properties {
		out[name] = exampleValue(prop)
	}
	return out
}

func exampleValue(js *jsonschema.Schema) any {
	if js == nil {
		return nil
	}
	if len(js.Enum) > 0 {
		return js.Enum[0]
	}
	switch typeOf(js) {
	case "string":
		return "string"
	case "integer":
		return 0
	case "number":
		return 0.0
	case "boolean":
		return true
	case "array":
		return []any{exampleValue(js.Items)}
	case "object":
		return exampleObject(js)
	default:
		return nil
	}
}

// typeOf returns the single non-null type of a schema, if any.
func typeOf(js *jsonschema.Schema) string {
	if js.Type != "" {
		return js.Type
	}
	for _, t := range js.Types {
		if t != "null" {
			return t
		}
	}
	return ""
}
