package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ValidateSchemaInput is the input for validate_schema.
type ValidateSchemaInput struct {
	Schema        string `json:"schema" jsonschema:"JSON Schema document (draft-07 unless $schema says otherwise)"`
	Data          string `json:"data" jsonschema:"JSON document to validate"`
	AssertFormats bool   `json:"assert_formats,omitempty" jsonschema:"Treat format keywords as assertions instead of annotations (default: false)"`
}

// ValidateSchemaOutput is the output for validate_schema.
type ValidateSchemaOutput struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitzero"`
}

// ToolValidateSchema validates a JSON document against a schema.
func ToolValidateSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateSchemaInput) (*sdkmcp.CallToolResult, ValidateSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateSchemaInput) (*sdkmcp.CallToolResult, ValidateSchemaOutput, error) {
		schemaDoc, err := d.ParseJSON("schema", input.Schema)
		if err != nil {
			return nil, ValidateSchemaOutput{}, err
		}
		data, err := d.ParseJSON("data", input.Data)
		if err != nil {
			return nil, ValidateSchemaOutput{}, err
		}

		result := d.validator(input.AssertFormats).Validate(schemaDoc, data)
		return nil, ValidateSchemaOutput{
			Valid:  result.Valid,
			Errors: result.Errors,
		}, nil
	}
}
