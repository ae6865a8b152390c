package workflow

import (
	"context"

	"github.com/smallnest/langworkflow/log"
)

// StepEvent is the type of a step event.
type StepEvent string

const (
	// StepEventStart is sent before a step runs.
	StepEventStart StepEvent = "start"
	// StepEventComplete is sent after a step succeeded and its output was stored.
	StepEventComplete StepEvent = "complete"
	// StepEventError is sent when a step failed.
	StepEventError StepEvent = "error"
)

// StepListener is notified of step events. Listeners run synchronously on the
// workflow goroutine.
type StepListener interface {
	OnStepEvent(ctx context.Context, event StepEvent, step Step, state *State, err error)
}

// StepListenerFunc is a function adapter for StepListener.
type StepListenerFunc func(ctx context.Context, event StepEvent, step Step, state *State, err error)

// OnStepEvent implements StepListener.
func (f StepListenerFunc) OnStepEvent(ctx context.Context, event StepEvent, step Step, state *State, err error) {
	f(ctx, event, step, state, err)
}

// LoggingListener logs step events.
type LoggingListener struct {
	logger       log.Logger
	includeState bool
}

// NewLoggingListener creates a listener logging to logger, or to the package logger
// when logger is nil.
func NewLoggingListener(logger log.Logger) *LoggingListener {
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &LoggingListener{logger: logger}
}

// WithState makes the listener log the state keys after each step.
func (l *LoggingListener) WithState(enabled bool) *LoggingListener {
	l.includeState = enabled
	return l
}

// OnStepEvent implements StepListener.
func (l *LoggingListener) OnStepEvent(ctx context.Context, event StepEvent, step Step, state *State, err error) {
	switch event {
	case StepEventStart:
		l.logger.Info("START %s step %s", step.Kind(), step.Name())
	case StepEventComplete:
		if l.includeState {
			l.logger.Info("COMPLETE %s step %s, state keys: %v", step.Kind(), step.Name(), state.Keys())
		} else {
			l.logger.Info("COMPLETE %s step %s", step.Kind(), step.Name())
		}
	case StepEventError:
		l.logger.Error("ERROR in %s step %s: %v", step.Kind(), step.Name(), err)
	}
}
