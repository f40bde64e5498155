package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemainfer/internal/mcp/tools"
	"github.com/usestring/schemainfer/internal/testcase"
)

// Resource URIs served by the builtin resources.
const (
	// TestCaseSchemaURI is the JSON Schema of batch test-case files.
	TestCaseSchemaURI = "schemainfer://schema/testcase-file"
)

// registerResources registers the static resources and their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         TestCaseSchemaURI,
		Name:        "Test Case File Schema",
		Description: "JSON Schema for batch test-case files: an array of {id, input_data, expected_schema} objects, where only input_data is required.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceTestCaseSchema)
}

func (s *Server) handleResourceTestCaseSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	if req.Params.URI != TestCaseSchemaURI {
		return nil, tools.ErrNotFound("resource", req.Params.URI)
	}

	doc, err := testcase.FileSchemaValue()
	if err != nil {
		return nil, err
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{URI: req.Params.URI, MIMEType: tools.MimeJSON, Text: doc.String()},
		},
	}, nil
}
