package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/schemainfer/pkg/infer"
	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeInferenceFailed = "INFERENCE_FAILED"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapInferenceError converts an inference failure to a coded error. Values
// outside the JSON model are reported as invalid input.
func WrapInferenceError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	var unsupported *infer.UnsupportedValueError
	var syntaxErr *jsonvalue.SyntaxError
	switch {
	case errors.As(err, &unsupported), errors.As(err, &syntaxErr):
		coded = &CodedError{
			Code:    ErrCodeInvalidInput,
			Message: "data is not a supported JSON document",
			Cause:   err,
		}
	default:
		coded = &CodedError{
			Code:    ErrCodeInferenceFailed,
			Message: "schema inference failed",
			Cause:   err,
		}
	}

	slog.Warn("schema inference error",
		slog.String("code", coded.Code),
		slog.String("error", err.Error()),
	)

	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
