// Package schemadiff compares an inferred JSON Schema against a reference
// schema and reports path-addressed differences.
//
// Comparison works on the JSON form of both schemas, so a hand-authored
// reference is accepted as-is. Subtrees where either side is not a JSON object
// are skipped without a record.
package schemadiff

import (
	"github.com/usestring/schemainfer/pkg/jsonvalue"
	"github.com/usestring/schemainfer/pkg/schema"
)

// Issue names the kind of a Difference.
type Issue string

// Difference kinds, in the order the checks run for a single node.
const (
	IssueTypeMismatch           Issue = "type_mismatch"
	IssueMissingFormat          Issue = "missing_format"
	IssueFormatMismatch         Issue = "format_mismatch"
	IssueMissingArrayConstraint Issue = "missing_array_constraint"
	IssueRequiredFieldsMismatch Issue = "required_fields_mismatch"
	IssueMissingProperty        Issue = "missing_property"
	IssueExtraProperty          Issue = "extra_property"
	IssueMissingMixedTypes      Issue = "missing_mixed_types"
)

// arrayConstraints are checked in this order.
var arrayConstraints = []string{"minItems", "maxItems", "uniqueItems"}

// Result is the outcome of a comparison.
type Result struct {
	Passed      bool         `json:"passed"`
	Differences []Difference `json:"differences"`
}

// Diff compares inferred against expected. Neither input is modified.
func Diff(inferred, expected jsonvalue.Value) *Result {
	c := &comparer{differences: []Difference{}}
	c.compare(inferred, expected, "")
	return &Result{
		Passed:      len(c.differences) == 0,
		Differences: c.differences,
	}
}

// DiffDocuments compares an inferred document against a reference schema.
func DiffDocuments(inferred *schema.Document, expected jsonvalue.Value) *Result {
	return Diff(inferred.Value(), expected)
}

type comparer struct {
	differences []Difference
}

func (c *comparer) add(d Difference) {
	c.differences = append(c.differences, d)
}

func (c *comparer) compare(inferred, expected jsonvalue.Value, path string) {
	if inferred.Kind() != jsonvalue.KindObject || expected.Kind() != jsonvalue.KindObject {
		return
	}

	inferredType, _ := inferred.Get("type")
	expectedType, _ := expected.Get("type")
	// An absent type member equals an explicit null one.
	if !jsonvalue.Equal(orNull(inferredType), orNull(expectedType)) {
		c.add(Difference{
			Path:     path,
			Issue:    IssueTypeMismatch,
			Inferred: inferredType,
			Expected: expectedType,
		})
	}

	if isType(expectedType, schema.TypeString) {
		c.compareFormat(inferred, expected, path)
	}

	if isType(expectedType, schema.TypeArray) {
		for _, name := range arrayConstraints {
			want, ok := expected.Get(name)
			if ok && !inferred.Has(name) {
				c.add(Difference{
					Path:       path,
					Issue:      IssueMissingArrayConstraint,
					Constraint: name,
					Expected:   want,
				})
			}
		}
	}

	inferredRequired := requiredSet(inferred)
	expectedRequired := requiredSet(expected)
	missing := expectedRequired.minus(inferredRequired)
	extra := inferredRequired.minus(expectedRequired)
	if len(missing) > 0 || len(extra) > 0 {
		c.add(Difference{
			Path:    path,
			Issue:   IssueRequiredFieldsMismatch,
			Missing: missing,
			Extra:   extra,
		})
	}

	c.compareProperties(inferred, expected, path)

	if isType(expectedType, schema.TypeArray) {
		expectedItems, _ := expected.Get("items")
		inferredItems, _ := inferred.Get("items")
		if alts, ok := oneOf(expectedItems); ok {
			if _, has := oneOf(inferredItems); !has {
				c.add(Difference{
					Path:     path + ".items",
					Issue:    IssueMissingMixedTypes,
					Expected: alts,
				})
			}
		}
	}
}

func (c *comparer) compareFormat(inferred, expected jsonvalue.Value, path string) {
	want, ok := expected.Get("format")
	if !ok {
		return
	}
	got, ok := inferred.Get("format")
	if !ok {
		c.add(Difference{
			Path:           path,
			Issue:          IssueMissingFormat,
			ExpectedFormat: want,
		})
		return
	}
	if !jsonvalue.Equal(got, want) {
		c.add(Difference{
			Path:     path,
			Issue:    IssueFormatMismatch,
			Inferred: got,
			Expected: want,
		})
	}
}

// compareProperties visits inferred's property names in order, then the names
// only expected declares, in expected's order.
func (c *comparer) compareProperties(inferred, expected jsonvalue.Value, path string) {
	inferredProps := properties(inferred)
	expectedProps := properties(expected)

	for _, m := range inferredProps.Members() {
		childPath := joinPath(path, m.Key)
		if want, ok := expectedProps.Get(m.Key); ok {
			c.compare(m.Value, want, childPath)
			continue
		}
		c.add(Difference{
			Path:     childPath,
			Issue:    IssueExtraProperty,
			Inferred: m.Value,
		})
	}

	for _, m := range expectedProps.Members() {
		if inferredProps.Has(m.Key) {
			continue
		}
		c.add(Difference{
			Path:     joinPath(path, m.Key),
			Issue:    IssueMissingProperty,
			Expected: m.Value,
		})
	}
}

func isType(v jsonvalue.Value, t schema.Type) bool {
	return v.Kind() == jsonvalue.KindString && v.Str() == string(t)
}

// properties returns the properties member, or an empty object when it is
// absent or not an object.
func properties(v jsonvalue.Value) jsonvalue.Value {
	if props, ok := v.Get("properties"); ok && props.Kind() == jsonvalue.KindObject {
		return props
	}
	return jsonvalue.Object()
}

func oneOf(items jsonvalue.Value) (jsonvalue.Value, bool) {
	if items.Kind() != jsonvalue.KindObject {
		return jsonvalue.Value{}, false
	}
	return items.Get("oneOf")
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
