package schemadiff

import (
	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// Difference is one discrepancy between the inferred and expected schema.
// Which fields are meaningful depends on Issue; MarshalJSON emits only those.
type Difference struct {
	// Path is the dot-joined property path from the root, "" at the root.
	Path  string
	Issue Issue

	// Inferred and Expected hold the compared values. An invalid Value means
	// the member was absent and is rendered as null.
	Inferred jsonvalue.Value
	Expected jsonvalue.Value

	ExpectedFormat jsonvalue.Value // missing_format
	Constraint     string          // missing_array_constraint

	// required_fields_mismatch. Missing follows expected's required order,
	// Extra follows inferred's.
	Missing []string
	Extra   []string
}

// Value returns the JSON form of the record: path and issue followed by the
// issue's own fields.
func (d Difference) Value() jsonvalue.Value {
	members := []jsonvalue.Member{
		{Key: "path", Value: jsonvalue.String(d.Path)},
		{Key: "issue", Value: jsonvalue.String(string(d.Issue))},
	}

	switch d.Issue {
	case IssueTypeMismatch, IssueFormatMismatch:
		members = append(members,
			jsonvalue.Member{Key: "inferred", Value: orNull(d.Inferred)},
			jsonvalue.Member{Key: "expected", Value: orNull(d.Expected)},
		)
	case IssueMissingFormat:
		members = append(members, jsonvalue.Member{Key: "expected_format", Value: orNull(d.ExpectedFormat)})
	case IssueMissingArrayConstraint:
		members = append(members,
			jsonvalue.Member{Key: "constraint", Value: jsonvalue.String(d.Constraint)},
			jsonvalue.Member{Key: "expected", Value: orNull(d.Expected)},
		)
	case IssueRequiredFieldsMismatch:
		members = append(members,
			jsonvalue.Member{Key: "missing", Value: stringArray(d.Missing)},
			jsonvalue.Member{Key: "extra", Value: stringArray(d.Extra)},
		)
	case IssueExtraProperty:
		members = append(members, jsonvalue.Member{Key: "inferred", Value: orNull(d.Inferred)})
	case IssueMissingProperty, IssueMissingMixedTypes:
		members = append(members, jsonvalue.Member{Key: "expected", Value: orNull(d.Expected)})
	}
	return jsonvalue.Object(members...)
}

// MarshalJSON implements json.Marshaler.
func (d Difference) MarshalJSON() ([]byte, error) {
	return d.Value().MarshalJSON()
}

// Value returns the JSON form of the result.
func (r *Result) Value() jsonvalue.Value {
	diffs := make([]jsonvalue.Value, 0, len(r.Differences))
	for _, d := range r.Differences {
		diffs = append(diffs, d.Value())
	}
	return jsonvalue.Object(
		jsonvalue.Member{Key: "passed", Value: jsonvalue.Bool(r.Passed)},
		jsonvalue.Member{Key: "differences", Value: jsonvalue.Array(diffs...)},
	)
}

// Count returns the number of differences per issue.
func (r *Result) Count() map[Issue]int {
	counts := make(map[Issue]int)
	for _, d := range r.Differences {
		counts[d.Issue]++
	}
	return counts
}

func orNull(v jsonvalue.Value) jsonvalue.Value {
	if !v.IsValid() {
		return jsonvalue.Null()
	}
	return v
}

func stringArray(ss []string) jsonvalue.Value {
	items := make([]jsonvalue.Value, 0, len(ss))
	for _, s := range ss {
		items = append(items, jsonvalue.String(s))
	}
	return jsonvalue.Array(items...)
}

// nameSet is an insertion-ordered set of property names.
type nameSet struct {
	order []string
	index map[string]struct{}
}

// requiredSet collects the string entries of a schema's required member.
// A missing or non-array member yields an empty set.
func requiredSet(v jsonvalue.Value) nameSet {
	s := nameSet{index: make(map[string]struct{})}
	required, _ := v.Get("required")
	for _, item := range required.Items() {
		if item.Kind() != jsonvalue.KindString {
			continue
		}
		name := item.Str()
		if _, dup := s.index[name]; dup {
			continue
		}
		s.index[name] = struct{}{}
		s.order = append(s.order, name)
	}
	return s
}

// minus returns the names in s that are not in other, in s's order. The
// result is never nil.
func (s nameSet) minus(other nameSet) []string {
	out := []string{}
	for _, name := range s.order {
		if _, ok := other.index[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
