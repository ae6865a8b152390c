package parser

import "fmt"

// OutputType names the type a final answer is coerced to.
type OutputType string

const (
	String       OutputType = "string"
	Integer      OutputType = "integer"
	Float        OutputType = "float"
	Boolean      OutputType = "boolean"
	Object       OutputType = "object"
	Struct       OutputType = "struct"
	Date         OutputType = "date"
	Timestamp    OutputType = "timestamp"
	ArrayString  OutputType = "array-string"
	ArrayInteger OutputType = "array-integer"
	ArrayFloat   OutputType = "array-float"
	ArrayObject  OutputType = "array-object"
	ArrayStruct  OutputType = "array-struct"
)

var outputTypes = []OutputType{
	String, Integer, Float, Boolean, Object, Struct, Date, Timestamp,
	ArrayString, ArrayInteger, ArrayFloat, ArrayObject, ArrayStruct,
}

// ParseOutputType converts a name such as "array-integer" into an OutputType.
func ParseOutputType(s string) (OutputType, error) {
	for _, t := range outputTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOutputType, s)
}

// IsArray reports whether the type is one of the array forms.
func (t OutputType) IsArray() bool {
	switch t {
	case ArrayString, ArrayInteger, ArrayFloat, ArrayObject, ArrayStruct:
		return true
	}
	return false
}

// Elem returns the element type of an array type, or t itself.
func (t OutputType) Elem() OutputType {
	switch t {
	case ArrayString:
		return String
	case ArrayInteger:
		return Integer
	case ArrayFloat:
		return Float
	case ArrayObject:
		return Object
	case ArrayStruct:
		return Struct
	}
	return t
}

// NeedsSchema reports whether answers of this type are validated against a schema.
func (t OutputType) NeedsSchema() bool {
	switch t.Elem() {
	case Object, Struct:
		return true
	}
	return false
}

// PromptingStrategy controls whether the model reasons before answering.
type PromptingStrategy string

const (
	// SingleCompletion asks for the answer directly.
	SingleCompletion PromptingStrategy = "single-completion"
	// ChainOfThought asks for a thought alongside every answer or tool call.
	ChainOfThought PromptingStrategy = "chain-of-thought"
)

// ParsePromptingStrategy converts a strategy name into a PromptingStrategy.
func ParsePromptingStrategy(s string) (PromptingStrategy, error) {
	switch PromptingStrategy(s) {
	case SingleCompletion, ChainOfThought:
		return PromptingStrategy(s), nil
	}
	return "", fmt.Errorf("unknown prompting strategy %q", s)
}
