package services

import "fmt"

// PipelineErrorKind separates "no usable route could be produced" from
// "an upstream provider was unavailable" so callers can react differently.
type PipelineErrorKind string

const (
	// ErrKindInvalidInput covers preference validation and candidate
	// geometry failures. These should not occur with valid input.
	ErrKindInvalidInput PipelineErrorKind = "invalid_input"
	// ErrKindNoRoute means every attempt failed to resolve a route.
	ErrKindNoRoute PipelineErrorKind = "no_route"
	// ErrKindSelection means the waypoint selector broke its structural
	// contract (wrong count, invalid or duplicate indices, unparseable
	// response).
	ErrKindSelection PipelineErrorKind = "selection"
	// ErrKindProvider means an upstream service was unavailable in a way
	// the pipeline cannot degrade around (geocoding, selector transport).
	ErrKindProvider PipelineErrorKind = "provider"
)

// PipelineError is the only error type GenerateRoute returns.
type PipelineError struct {
	Kind PipelineErrorKind
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("route pipeline (%s): %v", e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func pipelineErr(kind PipelineErrorKind, format string, args ...any) *PipelineError {
	return &PipelineError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
