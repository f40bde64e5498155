package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/usestring/schemainfer/internal/runner"
	"github.com/usestring/schemainfer/pkg/jsonvalue"
	"github.com/usestring/schemainfer/pkg/schemadiff"
)

// PrintSummary writes the human-readable summary of results to w: totals,
// then passing cases, then failing cases with their differences and schemas.
func PrintSummary(w io.Writer, results []*runner.Result) error {
	s := Summarize(results)
	pw := &printWriter{w: w}

	pw.printf("\n=== Test Summary ===\n")
	pw.printf("Total Tests: %d\n", s.Total)
	pw.printf("Passed Tests: %d\n", s.PassedCount())
	pw.printf("Failed Tests: %d\n", s.FailedCount())

	pw.printf("\n=== Detailed Results ===\n")

	pw.printf("\n✅ PASSING TESTS:\n")
	it := s.Passed.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		printHeader(pw, i, results[i])
	}

	pw.printf("\n❌ FAILING TESTS:\n")
	it = s.Failed.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		res := results[i]
		printHeader(pw, i, res)
		if res.InferenceError != "" {
			pw.printf("Inference Error: %s\n", res.InferenceError)
		}

		if res.SchemaComparison != nil {
			pw.printf("\nDifferences found:\n")
			for _, d := range res.SchemaComparison.Differences {
				printDifference(pw, d)
			}
		}

		if res.InferredSchema != nil {
			pw.printf("\nInferred Schema:\n%s\n", indent(res.InferredSchema.Value()))
		}
		if res.ExpectedSchema.IsValid() {
			pw.printf("\nExpected Schema:\n%s\n", indent(res.ExpectedSchema))
		}
	}

	return pw.err
}

func printHeader(pw *printWriter, index int, res *runner.Result) {
	pw.printf("\nTest Case ID: %s\n", caseID(index, res))
	pw.printf("Validation Success: %t\n", res.ValidationSuccess)
}

func printDifference(pw *printWriter, d schemadiff.Difference) {
	pw.printf("\n- Path: %s\n", d.Path)
	pw.printf("  Issue: %s\n", d.Issue)

	switch d.Issue {
	case schemadiff.IssueTypeMismatch:
		pw.printf("  Inferred: %s\n", display(d.Inferred))
		pw.printf("  Expected: %s\n", display(d.Expected))
	case schemadiff.IssueRequiredFieldsMismatch:
		pw.printf("  Missing Required Fields: %v\n", d.Missing)
		pw.printf("  Extra Required Fields: %v\n", d.Extra)
	case schemadiff.IssueMissingProperty:
		pw.printf("  Missing Property Definition: %s\n", display(d.Expected))
	case schemadiff.IssueExtraProperty:
		pw.printf("  Extra Property Definition: %s\n", display(d.Inferred))
	case schemadiff.IssueMissingFormat:
		pw.printf("  Missing String Format: %s\n", display(d.ExpectedFormat))
	case schemadiff.IssueFormatMismatch:
		pw.printf("  Inferred Format: %s\n", display(d.Inferred))
		pw.printf("  Expected Format: %s\n", display(d.Expected))
	case schemadiff.IssueMissingArrayConstraint:
		pw.printf("  Missing Array Constraint: %s\n", d.Constraint)
		pw.printf("  Expected Value: %s\n", display(d.Expected))
	case schemadiff.IssueMissingMixedTypes:
		pw.printf("  Missing Mixed Types Support\n")
		pw.printf("  Expected Types: %s\n", display(d.Expected))
	}
}

func caseID(index int, res *runner.Result) string {
	switch res.TestCaseID.Kind() {
	case jsonvalue.KindInvalid:
		return "#" + strconv.Itoa(index)
	case jsonvalue.KindString:
		return res.TestCaseID.Str()
	default:
		return res.TestCaseID.Compact()
	}
}

// display renders strings bare and everything else as compact JSON.
func display(v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.KindInvalid:
		return "null"
	case jsonvalue.KindString:
		return v.Str()
	default:
		return v.Compact()
	}
}

func indent(v jsonvalue.Value) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(v.Compact()), "", "  "); err != nil {
		return v.Compact()
	}
	return buf.String()
}

// printWriter keeps the first write error so printing code stays linear.
type printWriter struct {
	w   io.Writer
	err error
}

func (pw *printWriter) printf(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintf(pw.w, format, args...)
}
