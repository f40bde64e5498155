package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "infer_schema",
		Description: "Infer a draft-07 JSON Schema from one example JSON document. Every observed key is required, arrays are described by their first element, arrays mixing value kinds get a oneOf, numeric arrays get minItems/maxItems/uniqueItems, and strings may be tagged with an email or date format. Use select (jq) to infer from part of the document.",
	}, ToolInferSchema(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "validate_schema",
		Description: "Validate a JSON document against a JSON Schema. Returns valid plus one error line per failing location. Formats are annotations unless assert_formats is set.",
	}, ToolValidateSchema(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "compare_schemas",
		Description: "Compare an inferred schema against a reference schema. Returns passed and an ordered list of differences (type_mismatch, missing_format, format_mismatch, missing_array_constraint, required_fields_mismatch, missing_property, extra_property, missing_mixed_types), each addressed by a dot-joined property path.",
	}, ToolCompareSchemas(d))
}
