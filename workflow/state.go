package workflow

import (
	"maps"
	"slices"
)

// State is the map shared by the steps of one workflow invocation. It is seeded with
// the caller inputs and every step writes its output under its own name.
// State is not safe for concurrent use.
type State struct {
	values map[string]any
	steps  []string
}

// NewState returns a state seeded with a copy of inputs.
func NewState(inputs map[string]any) *State {
	values := make(map[string]any, len(inputs))
	maps.Copy(values, inputs)
	return &State{values: values}
}

// Get returns the value stored under key.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key.
func (s *State) Set(key string, value any) {
	s.values[key] = value
}

// Values returns a copy of the state.
func (s *State) Values() map[string]any {
	return maps.Clone(s.values)
}

// Keys returns the keys in sorted order.
func (s *State) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Len returns the number of entries.
func (s *State) Len() int {
	return len(s.values)
}

// Steps returns the names of the steps that wrote to the state, in execution order.
func (s *State) Steps() []string {
	return slices.Clone(s.steps)
}

func (s *State) record(step string, output any) {
	s.values[step] = output
	s.steps = append(s.steps, step)
}
