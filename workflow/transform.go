package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// TransformOp is the operation of a transformation step.
type TransformOp string

const (
	OpMap    TransformOp = "map"
	OpFilter TransformOp = "filter"
	OpReduce TransformOp = "reduce"
)

// TransformStep reads a sequence from the state and maps, filters or reduces it.
type TransformStep struct {
	name  string
	field string
	op    TransformOp
	apply func(items []any) (any, error)
}

func (s *TransformStep) Name() string   { return s.name }
func (s *TransformStep) Kind() StepKind { return KindTransform }

// Op returns the operation.
func (s *TransformStep) Op() TransformOp { return s.op }

// Field returns the state key the step reads.
func (s *TransformStep) Field() string { return s.field }

// Run implements Step.
func (s *TransformStep) Run(ctx context.Context, state *State) (any, error) {
	v, ok := state.Get(s.field)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, s.field)
	}
	items, err := sequence(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is %T", err, s.field, v)
	}
	return s.apply(items)
}

// Map applies fn to every element of field.
func Map[T, U any](name, field string, fn func(T) U) *TransformStep {
	return &TransformStep{name: name, field: field, op: OpMap, apply: func(items []any) (any, error) {
		out := make([]U, 0, len(items))
		for i, item := range items {
			x, err := convert[T](i, item)
			if err != nil {
				return nil, err
			}
			out = append(out, fn(x))
		}
		return out, nil
	}}
}

// Filter keeps the elements of field for which keep is true, in their original order.
func Filter[T any](name, field string, keep func(T) bool) *TransformStep {
	return &TransformStep{name: name, field: field, op: OpFilter, apply: func(items []any) (any, error) {
		out := make([]T, 0, len(items))
		for i, item := range items {
			x, err := convert[T](i, item)
			if err != nil {
				return nil, err
			}
			if keep(x) {
				out = append(out, x)
			}
		}
		return out, nil
	}}
}

// Reduce folds the elements of field from the left, starting with the first element.
// An empty sequence is an error.
func Reduce[T any](name, field string, fn func(acc, x T) T) *TransformStep {
	return &TransformStep{name: name, field: field, op: OpReduce, apply: func(items []any) (any, error) {
		if len(items) == 0 {
			return nil, ErrEmptySequence
		}
		acc, err := convert[T](0, items[0])
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(items); i++ {
			x, err := convert[T](i, items[i])
			if err != nil {
				return nil, err
			}
			acc = fn(acc, x)
		}
		return acc, nil
	}}
}

// MapExpr is Map with an expr-lang expression over the element x, such as "x * 2".
func MapExpr(name, field, code string) (*TransformStep, error) {
	prog, err := compile(code)
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", name, err)
	}
	return &TransformStep{name: name, field: field, op: OpMap, apply: func(items []any) (any, error) {
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := expr.Run(prog, map[string]any{"x": item})
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}}, nil
}

// FilterExpr is Filter with a boolean expr-lang expression over the element x, such as "x > 10".
func FilterExpr(name, field, code string) (*TransformStep, error) {
	prog, err := compile(code, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", name, err)
	}
	return &TransformStep{name: name, field: field, op: OpFilter, apply: func(items []any) (any, error) {
		out := make([]any, 0, len(items))
		for _, item := range items {
			v, err := expr.Run(prog, map[string]any{"x": item})
			if err != nil {
				return nil, err
			}
			keep, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("filter expression must return a boolean, got %T", v)
			}
			if keep {
				out = append(out, item)
			}
		}
		return out, nil
	}}, nil
}

// ReduceExpr is Reduce with an expr-lang expression over the accumulator acc and the
// element x, such as "acc + x".
func ReduceExpr(name, field, code string) (*TransformStep, error) {
	prog, err := compile(code)
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", name, err)
	}
	return &TransformStep{name: name, field: field, op: OpReduce, apply: func(items []any) (any, error) {
		if len(items) == 0 {
			return nil, ErrEmptySequence
		}
		acc := items[0]
		for _, item := range items[1:] {
			v, err := expr.Run(prog, map[string]any{"acc": acc, "x": item})
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	}}, nil
}

func compile(code string, opts ...expr.Option) (*vm.Program, error) {
	opts = append([]expr.Option{expr.AllowUndefinedVariables()}, opts...)
	prog, err := expr.Compile(code, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", code, err)
	}
	return prog, nil
}

// sequence returns the elements of a slice or array.
func sequence(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, ErrNotSequence
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

// convert returns item as a T. Values of other types are converted through JSON, so
// JSON numbers can be read as ints and JSON objects as structs.
func convert[T any](i int, item any) (T, error) {
	if x, ok := item.(T); ok {
		return x, nil
	}
	var x T
	data, err := json.Marshal(item)
	if err == nil {
		err = json.Unmarshal(data, &x)
	}
	if err != nil {
		return x, fmt.Errorf("%w: element %d is %T", ErrElementType, i, item)
	}
	return x, nil
}
