package schemadiff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/schemainfer/pkg/infer"
	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

func diffJSON(t *testing.T, inferred, expected string) string {
	t.Helper()
	res := Diff(jsonvalue.MustParse(inferred), jsonvalue.MustParse(expected))
	return res.Value().Compact()
}

func TestDiff_MissingFormat(t *testing.T) {
	res := Diff(
		jsonvalue.MustParse(`{"type":"string"}`),
		jsonvalue.MustParse(`{"type":"string","format":"email"}`),
	)
	require.Len(t, res.Differences, 1)
	assert.False(t, res.Passed)

	d := res.Differences[0]
	assert.Equal(t, "", d.Path)
	assert.Equal(t, IssueMissingFormat, d.Issue)
	assert.Equal(t, `{"path":"","issue":"missing_format","expected_format":"email"}`, d.Value().Compact())
}

func TestDiff_MissingPropertyAndRequired(t *testing.T) {
	got := diffJSON(t,
		`{"type":"object","properties":{"a":{"type":"integer"}},"required":["a"]}`,
		`{"type":"object","properties":{"a":{"type":"integer"},"b":{"type":"string"}},"required":["a","b"]}`,
	)
	assert.Equal(t,
		`{"passed":false,"differences":[`+
			`{"path":"","issue":"required_fields_mismatch","missing":["b"],"extra":[]},`+
			`{"path":"b","issue":"missing_property","expected":{"type":"string"}}]}`,
		got,
	)
}

func TestDiff_Identical(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"type":"string","format":"date"}`,
		`{"type":"array","items":{"oneOf":[{"type":"integer"},{"type":"string"}]}}`,
		`{"type":"array","items":{"type":"number"},"minItems":1,"maxItems":10,"uniqueItems":true}`,
		`{"type":"object","properties":{"a":{"type":"object","properties":{"b":{"type":"null"}},"required":["b"]}},"required":["a"],"$schema":"x"}`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			s := jsonvalue.MustParse(input)
			res := Diff(s, s)
			assert.True(t, res.Passed)
			assert.NotNil(t, res.Differences)
			assert.Empty(t, res.Differences)
		})
	}
}

func TestDiff_InferredAgainstItself(t *testing.T) {
	doc, err := infer.InferJSON([]byte(`{"user": {"email": "a@b.c", "tags": ["x", 1], "scores": [1, 2]}, "when": "2024-01-01"}`))
	require.NoError(t, err)

	res := DiffDocuments(doc, doc.Value())
	assert.True(t, res.Passed)
}

func TestDiff_TypeMismatch(t *testing.T) {
	tests := []struct {
		name     string
		inferred string
		expected string
		want     string
	}{
		{
			name:     "different types",
			inferred: `{"type":"integer"}`,
			expected: `{"type":"string"}`,
			want:     `{"path":"","issue":"type_mismatch","inferred":"integer","expected":"string"}`,
		},
		{
			name:     "absent on inferred",
			inferred: `{}`,
			expected: `{"type":"boolean"}`,
			want:     `{"path":"","issue":"type_mismatch","inferred":null,"expected":"boolean"}`,
		},
		{
			name:     "absent on expected",
			inferred: `{"type":"null"}`,
			expected: `{}`,
			want:     `{"path":"","issue":"type_mismatch","inferred":"null","expected":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Diff(jsonvalue.MustParse(tt.inferred), jsonvalue.MustParse(tt.expected))
			require.Len(t, res.Differences, 1)
			assert.Equal(t, tt.want, res.Differences[0].Value().Compact())
		})
	}
}

func TestDiff_AbsentTypeEqualsNullType(t *testing.T) {
	for _, pair := range [][2]string{
		{`{}`, `{"type":null}`},
		{`{"type":null}`, `{}`},
		{`{}`, `{}`},
	} {
		res := Diff(jsonvalue.MustParse(pair[0]), jsonvalue.MustParse(pair[1]))
		assert.True(t, res.Passed, "%s vs %s", pair[0], pair[1])
		assert.Empty(t, res.Differences)
	}
}

func TestDiff_FormatMismatch(t *testing.T) {
	assert.Equal(t,
		`{"passed":false,"differences":[{"path":"","issue":"format_mismatch","inferred":"date","expected":"email"}]}`,
		diffJSON(t, `{"type":"string","format":"date"}`, `{"type":"string","format":"email"}`),
	)

	// Format is only checked when the expected node is a string.
	assert.Equal(t,
		`{"passed":false,"differences":[{"path":"","issue":"type_mismatch","inferred":"string","expected":"integer"}]}`,
		diffJSON(t, `{"type":"string"}`, `{"type":"integer","format":"email"}`),
	)

	// An extra format on the inferred side is not reported.
	assert.Equal(t, `{"passed":true,"differences":[]}`,
		diffJSON(t, `{"type":"string","format":"email"}`, `{"type":"string"}`))
}

func TestDiff_MissingArrayConstraints(t *testing.T) {
	got := diffJSON(t,
		`{"type":"array","items":{"type":"integer"}}`,
		`{"type":"array","items":{"type":"integer"},"uniqueItems":true,"maxItems":5,"minItems":2}`,
	)
	assert.Equal(t,
		`{"passed":false,"differences":[`+
			`{"path":"","issue":"missing_array_constraint","constraint":"minItems","expected":2},`+
			`{"path":"","issue":"missing_array_constraint","constraint":"maxItems","expected":5},`+
			`{"path":"","issue":"missing_array_constraint","constraint":"uniqueItems","expected":true}]}`,
		got,
	)

	// Present with a different value is not a difference.
	assert.Equal(t, `{"passed":true,"differences":[]}`, diffJSON(t,
		`{"type":"array","items":{},"minItems":1}`,
		`{"type":"array","items":{},"minItems":3}`,
	))
}

func TestDiff_ItemsAreNotRecursed(t *testing.T) {
	assert.Equal(t, `{"passed":true,"differences":[]}`, diffJSON(t,
		`{"type":"array","items":{"type":"integer"}}`,
		`{"type":"array","items":{"type":"string","format":"email"}}`,
	))
}

func TestDiff_MissingMixedTypes(t *testing.T) {
	got := diffJSON(t,
		`{"type":"object","properties":{"tags":{"type":"array","items":{"type":"string"}}},"required":["tags"]}`,
		`{"type":"object","properties":{"tags":{"type":"array","items":{"oneOf":[{"type":"string"},{"type":"integer"}]}}},"required":["tags"]}`,
	)
	assert.Equal(t,
		`{"passed":false,"differences":[{"path":"tags.items","issue":"missing_mixed_types","expected":[{"type":"string"},{"type":"integer"}]}]}`,
		got,
	)

	// At the root the path keeps its leading separator.
	res := Diff(
		jsonvalue.MustParse(`{"type":"array","items":{}}`),
		jsonvalue.MustParse(`{"type":"array","items":{"oneOf":[]}}`),
	)
	require.Len(t, res.Differences, 1)
	assert.Equal(t, ".items", res.Differences[0].Path)

	// Any oneOf on the inferred side satisfies the check.
	assert.Equal(t, `{"passed":true,"differences":[]}`, diffJSON(t,
		`{"type":"array","items":{"oneOf":[{"type":"null"}]}}`,
		`{"type":"array","items":{"oneOf":[{"type":"string"},{"type":"integer"}]}}`,
	))
}

func TestDiff_RequiredSets(t *testing.T) {
	tests := []struct {
		name     string
		inferred string
		expected string
		want     string
	}{
		{
			name:     "order ignored",
			inferred: `{"required":["a","b"]}`,
			expected: `{"required":["b","a"]}`,
			want:     `{"passed":true,"differences":[]}`,
		},
		{
			name:     "duplicates ignored",
			inferred: `{"required":["a","a"]}`,
			expected: `{"required":["a"]}`,
			want:     `{"passed":true,"differences":[]}`,
		},
		{
			name:     "both sides",
			inferred: `{"required":["x","a","y"]}`,
			expected: `{"required":["b","a","c"]}`,
			want:     `{"passed":false,"differences":[{"path":"","issue":"required_fields_mismatch","missing":["b","c"],"extra":["x","y"]}]}`,
		},
		{
			name:     "absent is empty",
			inferred: `{"required":["a"]}`,
			expected: `{}`,
			want:     `{"passed":false,"differences":[{"path":"","issue":"required_fields_mismatch","missing":[],"extra":["a"]}]}`,
		},
		{
			name:     "malformed is empty",
			inferred: `{"required":"a"}`,
			expected: `{"required":[]}`,
			want:     `{"passed":true,"differences":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diffJSON(t, tt.inferred, tt.expected))
		})
	}
}

func TestDiff_PropertyTraversalOrder(t *testing.T) {
	res := Diff(
		jsonvalue.MustParse(`{"type":"object","properties":{
			"z":{"type":"string"},
			"shared":{"type":"object","properties":{"deep":{"type":"integer"}},"required":["deep"]},
			"extra":{"type":"null"}
		},"required":["z","shared","extra"]}`),
		jsonvalue.MustParse(`{"type":"object","properties":{
			"m":{"type":"boolean"},
			"shared":{"type":"object","properties":{"deep":{"type":"number"}},"required":["deep"]},
			"z":{"type":"string","format":"date"}
		},"required":["m","shared","z"]}`),
	)

	type entry struct {
		path  string
		issue Issue
	}
	var got []entry
	for _, d := range res.Differences {
		got = append(got, entry{d.Path, d.Issue})
	}

	assert.Equal(t, []entry{
		{"", IssueRequiredFieldsMismatch},
		{"z", IssueMissingFormat},
		{"shared.deep", IssueTypeMismatch},
		{"extra", IssueExtraProperty},
		{"m", IssueMissingProperty},
	}, got)
}

func TestDiff_SeveralChecksOnOneNode(t *testing.T) {
	got := diffJSON(t,
		`{"type":"object","properties":{},"required":["a"]}`,
		`{"type":"array","items":{"oneOf":[{"type":"string"}]},"minItems":1}`,
	)
	assert.Equal(t,
		`{"passed":false,"differences":[`+
			`{"path":"","issue":"type_mismatch","inferred":"object","expected":"array"},`+
			`{"path":"","issue":"missing_array_constraint","constraint":"minItems","expected":1},`+
			`{"path":"","issue":"required_fields_mismatch","missing":[],"extra":["a"]},`+
			`{"path":".items","issue":"missing_mixed_types","expected":[{"type":"string"}]}]}`,
		got,
	)
}

func TestDiff_MalformedSubtreesAreSkipped(t *testing.T) {
	tests := []struct {
		name     string
		inferred string
		expected string
	}{
		{"non-object root", `"string"`, `{"type":"string"}`},
		{"both non-object", `[1]`, `true`},
		{"non-object property", `{"properties":{"a":{"type":"integer"}}}`, `{"properties":{"a":5}}`},
		{"non-object properties", `{"properties":[]}`, `{"properties":"x"}`},
		{"non-object items", `{"type":"array","items":[]}`, `{"type":"array","items":"oneOf"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, `{"passed":true,"differences":[]}`, diffJSON(t, tt.inferred, tt.expected))
		})
	}
}

func TestDiff_Deterministic(t *testing.T) {
	inferred := `{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"integer"},"c":{"type":"array","items":{}}},"required":["a","b","c"]}`
	expected := `{"type":"object","properties":{"d":{"type":"string"},"b":{"type":"number"},"c":{"type":"array","items":{"oneOf":[]},"maxItems":3}},"required":["d","b","e"]}`

	first := diffJSON(t, inferred, expected)
	for range 10 {
		assert.Equal(t, first, diffJSON(t, inferred, expected))
	}
}

func TestDiff_DoesNotMutateInputs(t *testing.T) {
	inferred := jsonvalue.MustParse(`{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]}`)
	expected := jsonvalue.MustParse(`{"type":"object","properties":{"b":{"type":"string"}},"required":["b"]}`)
	before := inferred.Compact() + expected.Compact()

	Diff(inferred, expected)
	assert.Equal(t, before, inferred.Compact()+expected.Compact())
}

func TestResult_JSONAndCount(t *testing.T) {
	res := Diff(
		jsonvalue.MustParse(`{"type":"object","properties":{"a":{"type":"integer"}},"required":["a"]}`),
		jsonvalue.MustParse(`{"type":"object","properties":{"b":{"type":"integer"}},"required":["b"]}`),
	)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, res.Value().Compact(), string(data))

	assert.Equal(t, map[Issue]int{
		IssueRequiredFieldsMismatch: 1,
		IssueExtraProperty:          1,
		IssueMissingProperty:        1,
	}, res.Count())
}
