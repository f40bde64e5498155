package runner

import (
	"github.com/usestring/schemainfer/pkg/jsonvalue"
	"github.com/usestring/schemainfer/pkg/schema"
	"github.com/usestring/schemainfer/pkg/schemadiff"
)

// Result is the outcome of one test case.
type Result struct {
	// TestCaseID is the case's id; invalid when the case had none.
	TestCaseID jsonvalue.Value
	InputData  jsonvalue.Value

	// InferredSchema is nil when inference failed; InferenceError then holds
	// the reason.
	InferredSchema *schema.Document
	InferenceError string

	ValidationSuccess bool
	ValidationErrors  []string

	// Compared is set when the case carried an expected schema. The
	// comparison itself is nil if inference failed.
	Compared         bool
	SchemaComparison *schemadiff.Result
	// ExpectedSchema is kept for reporting and is not part of Value.
	ExpectedSchema jsonvalue.Value
}

// Passed reports whether the case had an expected schema and matched it.
func (r *Result) Passed() bool {
	return r.Compared && r.SchemaComparison != nil && r.SchemaComparison.Passed
}

// Value returns the JSON form of the result. schema_comparison and
// test_passed appear only for cases that carried an expected schema.
func (r *Result) Value() jsonvalue.Value {
	members := []jsonvalue.Member{
		{Key: "test_case_id", Value: orNull(r.TestCaseID)},
		{Key: "input_data", Value: orNull(r.InputData)},
	}

	if r.InferredSchema != nil {
		members = append(members, jsonvalue.Member{Key: "inferred_schema", Value: r.InferredSchema.Value()})
	} else {
		members = append(members,
			jsonvalue.Member{Key: "inferred_schema", Value: jsonvalue.Null()},
			jsonvalue.Member{Key: "inference_error", Value: jsonvalue.String(r.InferenceError)},
		)
	}

	members = append(members, jsonvalue.Member{Key: "validation_success", Value: jsonvalue.Bool(r.ValidationSuccess)})
	if len(r.ValidationErrors) > 0 {
		errs := make([]jsonvalue.Value, 0, len(r.ValidationErrors))
		for _, e := range r.ValidationErrors {
			errs = append(errs, jsonvalue.String(e))
		}
		members = append(members, jsonvalue.Member{Key: "validation_errors", Value: jsonvalue.Array(errs...)})
	}

	if r.Compared {
		comparison := jsonvalue.Null()
		if r.SchemaComparison != nil {
			comparison = r.SchemaComparison.Value()
		}
		members = append(members,
			jsonvalue.Member{Key: "schema_comparison", Value: comparison},
			jsonvalue.Member{Key: "test_passed", Value: jsonvalue.Bool(r.Passed())},
		)
	}

	return jsonvalue.Object(members...)
}

// MarshalJSON implements json.Marshaler.
func (r *Result) MarshalJSON() ([]byte, error) {
	return r.Value().MarshalJSON()
}

func orNull(v jsonvalue.Value) jsonvalue.Value {
	if !v.IsValid() {
		return jsonvalue.Null()
	}
	return v
}
