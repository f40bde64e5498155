// Package mcpsrv provides an extensible MCP server for JSON schema inference.
//
// This package exposes a high-level API for creating and running an MCP server
// with the builtin infer_schema, validate_schema and compare_schemas tools and
// the test-case file schema resource. Users can extend the server with custom
// tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server with default configuration:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    Data string `json:"data"`
//	}
//
//	type MyOutput struct {
//	    Keys int `json:"keys"`
//	}
//
//	func myHandler(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	    return nil, MyOutput{Keys: 42}, nil
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithTool(&mcp.Tool{Name: "my_tool", Description: "My tool"}, myHandler),
//	)
//
// Tools that need the validator or the jq engine use [WithDepsTool].
//
// # Configuration
//
// Defaults come from the environment (LOG_LEVEL, MAX_INPUT_BYTES, ...).
// Options override them:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/schemainfer-mcp.log"),
//	    mcpsrv.WithMaxInputBytes(1 << 20),
//	)
package mcpsrv
