package runner

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/schemainfer/internal/testcase"
	"github.com/usestring/schemainfer/internal/validate"
	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newRunner(opts ...Option) *Runner {
	return New(validate.New(), append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func caseOf(id, input, expected string) testcase.Case {
	c := testcase.Case{InputData: jsonvalue.MustParse(input)}
	if id != "" {
		c.ID = jsonvalue.String(id)
	}
	if expected != "" {
		c.ExpectedSchema = jsonvalue.MustParse(expected)
	}
	return c
}

func TestRun_FixtureFile(t *testing.T) {
	cases, err := testcase.Load(filepath.Join("..", "testcase", "testdata", "cases.json"))
	require.NoError(t, err)

	results, err := newRunner(WithWorkers(2)).Run(context.Background(), cases)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// user_profile matches its expected schema exactly.
	assert.Equal(t, "user_profile", results[0].TestCaseID.Str())
	assert.True(t, results[0].ValidationSuccess)
	assert.True(t, results[0].Passed())

	// scores repeat a value, so uniqueItems is false but the constraint is present.
	assert.True(t, results[1].Compared)
	assert.True(t, results[1].Passed(), results[1].SchemaComparison.Value().Compact())

	// No expected schema: never compared, never passed.
	assert.False(t, results[2].Compared)
	assert.False(t, results[2].Passed())
	assert.Nil(t, results[2].SchemaComparison)
}

func TestRunCase_Mismatch(t *testing.T) {
	res := newRunner().RunCase(0, caseOf("c1",
		`{"a": 1}`,
		`{"type":"object","properties":{"a":{"type":"integer"},"b":{"type":"string"}},"required":["a","b"]}`,
	))

	assert.True(t, res.ValidationSuccess)
	require.NotNil(t, res.SchemaComparison)
	assert.False(t, res.Passed())
	assert.Len(t, res.SchemaComparison.Differences, 2)
}

func TestRunCase_ValidationFailureIsRecorded(t *testing.T) {
	res := newRunner().RunCase(0, caseOf("", `[1, "a", 2]`, ""))

	require.NotNil(t, res.InferredSchema)
	assert.False(t, res.ValidationSuccess)
	assert.NotEmpty(t, res.ValidationErrors)
}

func TestRunCase_InferenceError(t *testing.T) {
	c := testcase.Case{
		ID:             jsonvalue.String("broken"),
		ExpectedSchema: jsonvalue.MustParse(`{"type":"string"}`),
	}
	res := newRunner().RunCase(3, c)

	assert.Nil(t, res.InferredSchema)
	assert.Contains(t, res.InferenceError, "unsupported type")
	assert.False(t, res.ValidationSuccess)
	assert.True(t, res.Compared)
	assert.False(t, res.Passed())

	assert.Equal(t,
		`{"test_case_id":"broken","input_data":null,"inferred_schema":null,"inference_error":"unsupported type: invalid","validation_success":false,"schema_comparison":null,"test_passed":false}`,
		res.Value().Compact(),
	)
}

func TestResult_Value(t *testing.T) {
	res := newRunner().RunCase(0, caseOf("", `"x@y"`, `{"type":"string","format":"email"}`))

	assert.Equal(t,
		`{"test_case_id":null,"input_data":"x@y",`+
			`"inferred_schema":{"type":"string","format":"email","$schema":"http://json-schema.org/draft-07/schema#"},`+
			`"validation_success":true,`+
			`"schema_comparison":{"passed":true,"differences":[]},"test_passed":true}`,
		res.Value().Compact(),
	)

	noExpected := newRunner().RunCase(0, caseOf("id", `1`, ""))
	assert.Equal(t,
		`{"test_case_id":"id","input_data":1,"inferred_schema":{"type":"integer","$schema":"http://json-schema.org/draft-07/schema#"},"validation_success":true}`,
		noExpected.Value().Compact(),
	)
}

func TestRun_KeepsInputOrder(t *testing.T) {
	cases := make([]testcase.Case, 50)
	for i := range cases {
		cases[i] = testcase.Case{ID: jsonvalue.Int(int64(i)), InputData: jsonvalue.Int(int64(i))}
	}

	results, err := newRunner(WithWorkers(8)).Run(context.Background(), cases)
	require.NoError(t, err)
	for i, res := range results {
		assert.Equal(t, cases[i].ID.Literal(), res.TestCaseID.Literal())
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, []testcase.Case{caseOf("a", `1`, "")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Empty(t *testing.T) {
	results, err := newRunner().Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestWithWorkers_IgnoresNonPositive(t *testing.T) {
	assert.Equal(t, DefaultWorkers, newRunner(WithWorkers(0)).workers)
	assert.Equal(t, 3, newRunner(WithWorkers(3)).workers)
}
