package tools

import (
	"context"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemainfer/internal/query"
	"github.com/usestring/schemainfer/pkg/infer"
)

// InferSchemaInput is the input for infer_schema.
type InferSchemaInput struct {
	Data   string `json:"data" jsonschema:"JSON document to infer a schema from, passed as a string so integer and float literals stay distinct"`
	Select string `json:"select,omitempty" jsonschema:"Optional jq expression applied to data before inference, e.g. .items[0]. Multiple results are inferred as an array."`
}

// InferSchemaOutput is the output for infer_schema.
type InferSchemaOutput struct {
	// Schema is the draft-07 schema document, with $schema as its last key.
	Schema any `json:"schema"`

	// Warnings lists validation errors of the inferred schema against the
	// input it was inferred from.
	Warnings []string `json:"warnings,omitzero"`
}

// ToolInferSchema infers a draft-07 JSON Schema from a single example document.
func ToolInferSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, InferSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, InferSchemaOutput, error) {
		data, err := d.ParseJSON("data", input.Data)
		if err != nil {
			return nil, InferSchemaOutput{}, err
		}

		if input.Select != "" {
			if err := d.Query.ValidateExpression(input.Select); err != nil {
				return nil, InferSchemaOutput{}, ErrInvalidInput(err.Error())
			}
			data, err = d.Query.Select(data, input.Select)
			if errors.Is(err, query.ErrNoResults) {
				return nil, InferSchemaOutput{}, ErrInvalidInput("select expression matched nothing")
			}
			if err != nil {
				return nil, InferSchemaOutput{}, ErrInvalidInput(err.Error())
			}
		}

		doc, err := infer.Infer(data)
		if err != nil {
			return nil, InferSchemaOutput{}, WrapInferenceError(err)
		}

		output := InferSchemaOutput{Schema: doc.Value()}
		if result := d.validator(false).Validate(doc.Value(), data); !result.Valid {
			output.Warnings = result.Errors
		}
		return nil, output, nil
	}
}
