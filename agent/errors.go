package agent

import "errors"

var (
	// ErrNoModel is returned by New when the model is nil.
	ErrNoModel = errors.New("agent requires a model")

	// ErrNoChoices is returned when the model response has no choices.
	ErrNoChoices = errors.New("model returned no choices")

	// ErrDuplicateTool is returned by New when two tools share a name.
	ErrDuplicateTool = errors.New("duplicate tool name")
)
