package parser

import "errors"

var (
	// ErrInvalidOutput wraps every failure to understand a model response.
	// The message of such errors is addressed to the model.
	ErrInvalidOutput = errors.New("invalid output")

	// ErrSchemaRequired is returned when an object or struct output type has no schema.
	ErrSchemaRequired = errors.New("output schema required")

	// ErrUnknownOutputType is returned for unrecognized output type names.
	ErrUnknownOutputType = errors.New("unknown output type")
)
