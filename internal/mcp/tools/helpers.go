// Package tools contains the MCP tool implementations for schema inference,
// validation and comparison.
package tools

// MIME type constant.
const MimeJSON = "application/json"
