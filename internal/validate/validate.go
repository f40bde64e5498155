// Package validate checks JSON instances against JSON Schemas.
package validate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/schemainfer/internal/cache"
	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// ErrMissingInput is reported when the schema or the instance is absent.
var ErrMissingInput = errors.New("schema and data are both required")

// resourceURL names the schema document inside a compiler.
const resourceURL = "schema.json"

// draft07Formats are the format names defined by draft-07. Unless format
// assertion is enabled they are replaced with validators that accept anything,
// so "format" stays an annotation.
var draft07Formats = []string{
	"date-time", "date", "time", "email", "idn-email", "hostname", "idn-hostname",
	"ipv4", "ipv6", "uri", "uri-reference", "iri", "iri-reference", "uri-template",
	"json-pointer", "relative-json-pointer", "regex",
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// Result is the outcome of validating one instance.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator validates instances against schemas, reusing compiled schemas
// through an optional cache. It is safe for concurrent use.
type Validator struct {
	cache        *cache.SchemaCache
	assertFormat bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithCache reuses compiled schemas across calls.
func WithCache(c *cache.SchemaCache) Option {
	return func(v *Validator) { v.cache = c }
}

// WithFormatAssertion makes "format" an assertion instead of an annotation.
func WithFormatAssertion() Option {
	return func(v *Validator) { v.assertFormat = true }
}

// New creates a validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Compile compiles a schema document, consulting the cache first.
func (v *Validator) Compile(schema jsonvalue.Value) (*jsonschema.Schema, error) {
	if !schema.IsValid() {
		return nil, ErrMissingInput
	}

	var key string
	if v.cache != nil {
		key = cache.Key(v.cacheText(schema))
		if compiled, ok := v.cache.Get(key); ok {
			return compiled, nil
		}
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)
	if v.assertFormat {
		compiler.AssertFormat()
	} else {
		for _, name := range draft07Formats {
			compiler.RegisterFormat(&jsonschema.Format{
				Name:     name,
				Validate: func(any) error { return nil },
			})
		}
	}

	// Add the schema as a resource (doc must be valid json value, not io.Reader)
	if err := compiler.AddResource(resourceURL, schema.Interface()); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	if v.cache != nil {
		v.cache.Put(key, compiled)
	}
	return compiled, nil
}

// cacheText is the cache identity of a schema under this validator's settings.
func (v *Validator) cacheText(schema jsonvalue.Value) []byte {
	prefix := "annotate:"
	if v.assertFormat {
		prefix = "assert:"
	}
	return []byte(prefix + schema.Compact())
}

// Check returns nil when instance satisfies schema. Errors are ErrMissingInput,
// a compile error, or a *jsonschema.ValidationError.
func (v *Validator) Check(schema, instance jsonvalue.Value) error {
	if !schema.IsValid() || !instance.IsValid() {
		return ErrMissingInput
	}
	compiled, err := v.Compile(schema)
	if err != nil {
		return err
	}
	return compiled.Validate(instance.Interface())
}

// Validate reports whether instance satisfies schema. It never fails: missing
// input, uncompilable schemas and violations all yield Valid == false.
func (v *Validator) Validate(schema, instance jsonvalue.Value) *Result {
	err := v.Check(schema, instance)
	if err == nil {
		return &Result{Valid: true}
	}
	return &Result{
		Valid:  false,
		Errors: extractValidationErrors(err),
	}
}

// extractValidationErrors extracts human-readable error messages from a validation error.
func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		if msgs := extractDetailedErrors(validationErr); len(msgs) > 0 {
			return msgs
		}
	}
	return []string{err.Error()}
}

// extractDetailedErrors flattens leaf errors into "path: message" lines,
// deduplicated and sorted by instance path.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	paths := make([]string, 0, len(errorsByPath))
	for path := range errorsByPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var result []string
	for _, path := range paths {
		seen := make(map[string]bool)
		for _, msg := range errorsByPath[path] {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	return result
}

// collectErrors recursively collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errMsg := err.ErrorKind.LocalizedString(printer)
		// $ref and reference wrappers carry no information of their own.
		if !strings.HasPrefix(errMsg, "$ref ") && !strings.HasPrefix(errMsg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], errMsg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
