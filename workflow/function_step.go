package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallnest/langworkflow/schema"
	"github.com/smallnest/langworkflow/tool"
)

// FunctionStep calls a function with the state entries declared by its input schema.
type FunctionStep struct {
	name   string
	inputs *schema.Schema
	fn     tool.Func
}

// NewFunctionStep creates a function step. fn receives only the declared fields.
// A nil schema passes no arguments.
func NewFunctionStep(name string, inputs *schema.Schema, fn tool.Func) *FunctionStep {
	if inputs == nil {
		inputs, _ = schema.Object(nil)
	}
	return &FunctionStep{name: name, inputs: inputs, fn: fn}
}

// Function creates a function step from a typed function. The state entries named by
// the json tags of In are decoded into it.
//
//	type sortArgs struct {
//		Numbers []int `json:"extract_numbers"`
//	}
//	sortStep, err := workflow.Function("sort", func(ctx context.Context, in sortArgs) (any, error) {
//		return slices.Sorted(slices.Values(in.Numbers)), nil
//	})
func Function[In any](name string, fn func(ctx context.Context, in In) (any, error)) (*FunctionStep, error) {
	inputs, err := schema.For[In]()
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", name, err)
	}
	return NewFunctionStep(name, inputs, func(ctx context.Context, args map[string]any) (any, error) {
		var in In
		if err := inputs.Decode(args, &in); err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}), nil
}

func (s *FunctionStep) Name() string   { return s.name }
func (s *FunctionStep) Kind() StepKind { return KindFunction }

// Inputs returns the input schema.
func (s *FunctionStep) Inputs() *schema.Schema { return s.inputs }

// Run implements Step.
func (s *FunctionStep) Run(ctx context.Context, state *State) (any, error) {
	args := s.inputs.Filter(state.Values())
	if missing := s.inputs.Missing(args); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, strings.Join(missing, ", "))
	}
	return s.fn(ctx, args)
}
