// Package testcase loads schema inference test cases from JSON or YAML files.
//
// A file is an array of cases. Each case has an input_data document, an
// optional opaque id and an optional expected_schema. Files are validated
// against FileSchema before decoding.
package testcase

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/usestring/schemainfer/internal/validate"
	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// Format is the encoding of a test-case file.
type Format string

// Supported file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Case is one test case.
type Case struct {
	// ID is the case's id member; invalid when the case has none.
	ID        jsonvalue.Value
	InputData jsonvalue.Value
	// ExpectedSchema is invalid when the case carries no reference schema.
	ExpectedSchema jsonvalue.Value
}

// HasExpected reports whether the case carries a reference schema.
func (c Case) HasExpected() bool {
	return c.ExpectedSchema.IsValid()
}

// Label is a short human-readable name for the case: its id, or its position
// when it has none.
func (c Case) Label(index int) string {
	switch c.ID.Kind() {
	case jsonvalue.KindInvalid:
		return "#" + strconv.Itoa(index)
	case jsonvalue.KindString:
		return c.ID.Str()
	default:
		return c.ID.Compact()
	}
}

// FileError reports a file that does not satisfy FileSchema.
type FileError struct {
	Path     string
	Problems []string
}

func (e *FileError) Error() string {
	name := e.Path
	if name == "" {
		name = "test cases"
	}
	return fmt.Sprintf("%s: invalid test case file: %s", name, strings.Join(e.Problems, "; "))
}

// Load reads and validates the test-case file at path.
func Load(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading test cases: %w", err)
	}

	cases, err := Parse(data, FormatFor(path))
	if err != nil {
		var fileErr *FileError
		if errors.As(err, &fileErr) {
			fileErr.Path = path
			return nil, fileErr
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Parse decodes and validates test cases from data.
func Parse(data []byte, format Format) ([]Case, error) {
	var (
		doc jsonvalue.Value
		err error
	)
	switch format {
	case FormatYAML:
		doc, err = parseYAML(data)
	case FormatJSON:
		doc, err = jsonvalue.Parse(data)
	default:
		return nil, fmt.Errorf("unknown test case format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing test cases: %w", err)
	}

	fileSchema, err := FileSchemaValue()
	if err != nil {
		return nil, err
	}
	if res := validate.New().Validate(fileSchema, doc); !res.Valid {
		return nil, &FileError{Problems: res.Errors}
	}

	return decode(doc), nil
}

// decode maps a validated document onto cases.
func decode(doc jsonvalue.Value) []Case {
	items := doc.Items()
	cases := make([]Case, 0, len(items))
	for _, item := range items {
		var c Case
		c.ID, _ = item.Get("id")
		c.InputData, _ = item.Get("input_data")
		c.ExpectedSchema, _ = item.Get("expected_schema")
		cases = append(cases, c)
	}
	return cases
}
