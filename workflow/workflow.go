package workflow

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/smallnest/langworkflow/log"
	"github.com/smallnest/langworkflow/schema"
	"github.com/smallnest/langworkflow/telemetry"
)

// Output is the result of a workflow invocation.
type Output struct {
	RunID string
	// Inputs is a copy of the caller inputs, including keys the input schema does not
	// declare.
	Inputs map[string]any
	// Output is the state entry named by the workflow output key.
	Output any
	// State is the final state, with one entry per step besides the inputs.
	State *State
}

// Workflow runs a fixed list of steps in order over a shared state.
type Workflow struct {
	name        string
	description string
	inputs      *schema.Schema
	output      string
	steps       []Step

	logger    log.Logger
	listeners []StepListener
	tracer    trace.Tracer
	metrics   *telemetry.Metrics
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger. The default is the package logger.
func WithLogger(l log.Logger) Option {
	return func(w *Workflow) {
		w.logger = l
	}
}

// WithListener adds a step listener.
func WithListener(l StepListener) Option {
	return func(w *Workflow) {
		w.listeners = append(w.listeners, l)
	}
}

// WithTracer records runs and steps as spans.
func WithTracer(t trace.Tracer) Option {
	return func(w *Workflow) {
		w.tracer = t
	}
}

// WithMetrics records step counts and durations.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// New creates a workflow. inputs validates the caller inputs and limits the state to
// the declared fields; a nil schema accepts any inputs and seeds the state with all of
// them. output names the state entry returned by Invoke, normally the last step.
//
// Step names should be unique; a later step with the same name overwrites the output
// of an earlier one.
func New(name, description string, inputs *schema.Schema, output string, steps []Step, opts ...Option) *Workflow {
	w := &Workflow{
		name:        name,
		description: description,
		inputs:      inputs,
		output:      output,
		steps:       steps,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = log.GetDefaultLogger()
	}

	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		if seen[s.Name()] {
			w.logger.Warn("workflow %s: duplicate step name %s, later output overwrites earlier", name, s.Name())
		}
		seen[s.Name()] = true
	}
	if !seen[output] && (inputs == nil || !inputs.Has(output)) {
		w.logger.Warn("workflow %s: output %s is neither a step nor an input", name, output)
	}
	return w
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Description returns the workflow description.
func (w *Workflow) Description() string { return w.description }

// Inputs returns the input schema, nil when the workflow accepts any inputs.
func (w *Workflow) Inputs() *schema.Schema { return w.inputs }

// OutputKey returns the name of the state entry returned by Invoke.
func (w *Workflow) OutputKey() string { return w.output }

// Steps returns the steps in execution order.
func (w *Workflow) Steps() []Step {
	out := make([]Step, len(w.steps))
	copy(out, w.steps)
	return out
}

// Invoke validates inputs and then runs every step in order, storing each output in
// the state under the step name.
//
// Invalid inputs fail before any step runs. A failing step stops the run with a
// *StepError; nothing is retried or rolled back.
func (w *Workflow) Invoke(ctx context.Context, inputs map[string]any) (*Output, error) {
	runID := uuid.NewString()
	ctx, span := telemetry.StartRun(ctx, w.tracer, runID, w.name)
	out, err := w.run(ctx, runID, inputs)
	span.End(err)
	w.metrics.ObserveRun(w.name, err)
	return out, err
}

func (w *Workflow) run(ctx context.Context, runID string, inputs map[string]any) (*Output, error) {
	seed := inputs
	if w.inputs != nil {
		if err := w.inputs.Validate(inputs); err != nil {
			return nil, fmt.Errorf("workflow %s: %w", w.name, err)
		}
		seed = w.inputs.Filter(inputs)
	}

	w.logger.Debug("workflow %s run %s started with %d steps", w.name, runID, len(w.steps))
	state := NewState(seed)

	for _, step := range w.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.runStep(ctx, step, state); err != nil {
			return nil, err
		}
	}

	value, ok := state.Get(w.output)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputNotFound, w.output)
	}
	w.logger.Debug("workflow %s run %s finished", w.name, runID)
	return &Output{RunID: runID, Inputs: maps.Clone(inputs), Output: value, State: state}, nil
}

func (w *Workflow) runStep(ctx context.Context, step Step, state *State) error {
	kind := string(step.Kind())
	ctx, span := telemetry.StartStep(ctx, w.tracer, step.Name(), kind)
	w.notify(ctx, StepEventStart, step, state, nil)
	w.logger.Debug("running %s step %s", kind, step.Name())

	start := time.Now()
	output, err := step.Run(ctx, state)
	w.metrics.ObserveStep(w.name, kind, time.Since(start), err)
	span.End(err)

	if err != nil {
		w.notify(ctx, StepEventError, step, state, err)
		return &StepError{Step: step.Name(), Err: err}
	}

	state.record(step.Name(), output)
	w.notify(ctx, StepEventComplete, step, state, nil)
	w.logger.Debug("%s step %s finished in %s", kind, step.Name(), time.Since(start))
	return nil
}

func (w *Workflow) notify(ctx context.Context, event StepEvent, step Step, state *State, err error) {
	for _, l := range w.listeners {
		l.OnStepEvent(ctx, event, step, state, err)
	}
}
