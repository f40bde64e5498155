package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemainfer/pkg/schemadiff"
)

// CompareSchemasInput is the input for compare_schemas.
type CompareSchemasInput struct {
	Inferred string `json:"inferred" jsonschema:"Candidate schema, usually the output of infer_schema"`
	Expected string `json:"expected" jsonschema:"Reference schema the candidate is checked against"`
}

// CompareSchemasOutput is the output for compare_schemas.
type CompareSchemasOutput struct {
	Passed bool `json:"passed"`

	// Differences is the ordered list of difference records.
	Differences any `json:"differences"`

	IssueCounts map[string]int `json:"issue_counts,omitzero"`
}

// ToolCompareSchemas reports the structural differences between two schemas.
func ToolCompareSchemas(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CompareSchemasInput) (*sdkmcp.CallToolResult, CompareSchemasOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CompareSchemasInput) (*sdkmcp.CallToolResult, CompareSchemasOutput, error) {
		inferred, err := d.ParseJSON("inferred", input.Inferred)
		if err != nil {
			return nil, CompareSchemasOutput{}, err
		}
		expected, err := d.ParseJSON("expected", input.Expected)
		if err != nil {
			return nil, CompareSchemasOutput{}, err
		}

		result := schemadiff.Diff(inferred, expected)
		diffs, _ := result.Value().Get("differences")

		output := CompareSchemasOutput{
			Passed:      result.Passed,
			Differences: diffs,
		}
		if counts := result.Count(); len(counts) > 0 {
			output.IssueCounts = make(map[string]int, len(counts))
			for issue, n := range counts {
				output.IssueCounts[string(issue)] = n
			}
		}
		return nil, output, nil
	}
}
