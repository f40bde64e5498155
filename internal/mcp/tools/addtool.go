package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after CheckOutputSchema accepts its output type.
// The handler is wrapped so its text content keeps the member order of any
// jsonvalue.Value held in the output.
//
// Panics if CheckOutputSchema rejects Out.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, withOrderedText(h))
}

// withOrderedText fills the text content of a handler's result from its
// output. The SDK derives the text from structured content, which it decodes
// into map[string]any, so schema keys would come back sorted with $schema
// first. Results the handler built itself are returned untouched.
func withOrderedText[In, Out any](h sdkmcp.ToolHandlerFor[In, Out]) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input In) (*sdkmcp.CallToolResult, Out, error) {
		res, out, err := h(ctx, req, input)
		if err != nil || res != nil {
			return res, out, err
		}

		text, err := json.Marshal(out)
		if err != nil {
			return nil, out, fmt.Errorf("encoding tool output: %w", err)
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(text)}},
		}, out, nil
	}
}

// CheckOutputSchema checks, at registration time, that the output type T
// agrees with the JSON schema the MCP SDK infers from it. It panics when
//
//   - a field's type has its own MarshalJSON (jsonvalue.Value, *schema.Document,
//     json.RawMessage). The generator describes the Go struct, not the JSON
//     the method writes, so the output would fail its own schema. Declare such
//     fields as any.
//   - the zero value fails the inferred schema, typically a nil slice that
//     encodes as null where the schema says array.
//
// The untyped any output is always accepted, and inference failures are left
// for the SDK to report.
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := customEncodedFields(rt, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		panic(fmt.Sprintf(
			"AddTool %q: output type %s has fields with their own JSON encoding at %s\n"+
				"  the inferred schema describes the Go struct, not the encoded JSON\n"+
				"  Fix: declare the field as any and store the value in it",
			toolName, rt, strings.Join(paths, ", "),
		))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return
	}
	var zero map[string]any
	if err := json.Unmarshal(data, &zero); err != nil {
		return
	}
	if err := resolved.Validate(&zero); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of output type %s fails its schema: %v\n"+
				"  JSON: %s\n"+
				"  Fix: add `omitzero` to slice fields that default to nil",
			toolName, rt, err, data,
		))
	}
}

var marshalerType = reflect.TypeFor[json.Marshaler]()

func encodesItself(t reflect.Type) bool {
	if t.Kind() == reflect.Interface {
		return false
	}
	return t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType)
}

// customEncodedFields returns the dotted paths under t whose type implements
// json.Marshaler. Slice elements are "[]" and map values "[value]".
func customEncodedFields(t reflect.Type, path []string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if encodesItself(t) {
		return []string{strings.Join(path, ".")}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() {
				found = append(found, customEncodedFields(f.Type, append(path, f.Name), visiting)...)
			}
		}
	case reflect.Slice, reflect.Array:
		found = customEncodedFields(t.Elem(), append(path, "[]"), visiting)
	case reflect.Map:
		found = customEncodedFields(t.Elem(), append(path, "[value]"), visiting)
	}
	return found
}
