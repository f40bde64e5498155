package tools

import (
	"fmt"

	"github.com/usestring/schemainfer/internal/config"
	"github.com/usestring/schemainfer/internal/query"
	"github.com/usestring/schemainfer/internal/validate"
	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config *config.Config

	// Validator treats "format" as an annotation; FormatValidator asserts it.
	Validator       *validate.Validator
	FormatValidator *validate.Validator

	Query *query.Engine
}

// ParseJSON parses a JSON document passed as a string tool argument. The
// argument name is used in error messages. Documents larger than
// Config.MaxInputBytes are rejected before parsing.
func (d *Deps) ParseJSON(arg, text string) (jsonvalue.Value, error) {
	if text == "" {
		return jsonvalue.Value{}, ErrInvalidInput(arg + " is required")
	}
	if limit := d.maxInputBytes(); limit > 0 && len(text) > limit {
		return jsonvalue.Value{}, ErrInvalidInput(fmt.Sprintf("%s is %d bytes, limit is %d", arg, len(text), limit))
	}
	v, err := jsonvalue.ParseString(text)
	if err != nil {
		return jsonvalue.Value{}, &CodedError{
			Code:    ErrCodeInvalidInput,
			Message: arg + " is not valid JSON",
			Cause:   err,
		}
	}
	return v, nil
}

func (d *Deps) maxInputBytes() int {
	if d.Config == nil {
		return 0
	}
	return d.Config.MaxInputBytes
}

// validator picks the validator for the requested format handling.
func (d *Deps) validator(assertFormats bool) *validate.Validator {
	if assertFormats && d.FormatValidator != nil {
		return d.FormatValidator
	}
	return d.Validator
}
