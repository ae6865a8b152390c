package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools"

	"github.com/smallnest/langworkflow/schema"
)

var (
	// ErrInvalidInput is returned by Call when the input is not a JSON object.
	ErrInvalidInput = errors.New("tool input must be a JSON object")
)

// Func is the function behind a Tool. Args contains only declared arguments.
type Func func(ctx context.Context, args map[string]any) (any, error)

// Tool is a named function with a described argument schema that an agent can call.
type Tool struct {
	name        string
	description string
	args        *schema.Schema
	open        bool
	fn          Func
}

var _ tools.Tool = (*Tool)(nil)

// New creates a tool. A nil args schema declares no arguments; whatever the model
// passes reaches fn unchecked.
func New(name, description string, args *schema.Schema, fn Func) *Tool {
	open := args == nil
	if open {
		args, _ = schema.Object(nil)
	}
	return &Tool{
		name:        name,
		description: description,
		args:        args,
		open:        open,
		fn:          fn,
	}
}

// NewTyped creates a tool from a typed function. The argument schema is derived from In.
//
//	type WeatherArgs struct {
//		City string `json:"city" jsonschema:"city name"`
//	}
//	weather, err := tool.NewTyped("weather", "Current weather for a city",
//		func(ctx context.Context, in WeatherArgs) (string, error) { ... })
func NewTyped[In, Out any](name, description string, fn func(ctx context.Context, in In) (Out, error)) (*Tool, error) {
	args, err := schema.For[In]()
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}
	return New(name, description, args, func(ctx context.Context, values map[string]any) (any, error) {
		var in In
		if err := args.Decode(values, &in); err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}), nil
}

// Name returns the tool name.
func (t *Tool) Name() string { return t.name }

// Description returns the tool description.
func (t *Tool) Description() string { return t.description }

// Schema returns the argument schema.
func (t *Tool) Schema() *schema.Schema { return t.args }

// Invoke validates args against the schema and calls the tool with the declared ones.
// A tool created without a schema gets args as they are.
func (t *Tool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	if t.open {
		return t.fn(ctx, args)
	}
	if err := t.args.Validate(args); err != nil {
		return nil, fmt.Errorf("tool %s: %w", t.name, err)
	}
	return t.fn(ctx, t.args.Filter(args))
}

// Call implements tools.Tool. The input is a JSON object of arguments and the result
// is rendered with FormatResult.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	args := map[string]any{}
	if strings.TrimSpace(input) != "" {
		if err := json.Unmarshal([]byte(input), &args); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	res, err := t.Invoke(ctx, args)
	if err != nil {
		return "", err
	}
	return FormatResult(res), nil
}

// String renders the tool card listed in an agent's instructions.
func (t *Tool) String() string {
	props, _ := json.Marshal(t.args.Properties())
	return fmt.Sprintf("Tool Name: %s\nTool Description: %s\nTool Input: %s", t.name, t.description, props)
}

// FormatResult renders a tool result for the model: strings verbatim, everything else
// as JSON.
func FormatResult(v any) string {
	switch r := v.(type) {
	case nil:
		return "null"
	case string:
		return r
	case fmt.Stringer:
		return r.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
