package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInfer_Stdin(t *testing.T) {
	res := runCLI(t, `{"email": "a@b.com"}`, "infer", "--compact")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t,
		`{"type":"object","properties":{"email":{"type":"string","format":"email"}},"required":["email"],"$schema":"http://json-schema.org/draft-07/schema#"}`+"\n",
		res.stdout,
	)
}

func TestInfer_FileIndented(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.json", `[1,2,2,3]`)

	res := runCLI(t, "", "infer", path)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "\n  \"uniqueItems\": false,\n")

	v, err := jsonvalue.ParseString(res.stdout)
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "items", "minItems", "maxItems", "uniqueItems", "$schema"}, v.Keys())
}

func TestInfer_Select(t *testing.T) {
	res := runCLI(t, `{"data": {"id": 1}}`, "infer", "-c", "--select", ".data")
	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, `{"type":"object","properties":{"id":{"type":"integer"}}`))
}

func TestInfer_InvalidJSON(t *testing.T) {
	res := runCLI(t, `{"a":`, "infer")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error: stdin:")
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	inferred := writeFile(t, dir, "inferred.json", `{"type":"string"}`)
	expected := writeFile(t, dir, "expected.json", `{"type":"string","format":"email"}`)

	res := runCLI(t, "", "diff", "-c", inferred, expected)
	assert.Equal(t, 1, res.code)
	assert.Equal(t,
		`{"passed":false,"differences":[{"path":"","issue":"missing_format","expected_format":"email"}]}`+"\n",
		res.stdout,
	)
	assert.Empty(t, res.stderr)

	res = runCLI(t, "", "diff", "-c", expected, expected)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, `{"passed":true,"differences":[]}`+"\n", res.stdout)
}

func TestDiff_FromData(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.json", `{"email": "a@b.com"}`)
	expected := writeFile(t, dir, "expected.json",
		`{"type":"object","properties":{"email":{"type":"string","format":"email"}},"required":["email"]}`)

	res := runCLI(t, "", "diff", "--from-data", data, expected)
	assert.Equal(t, 0, res.code, res.stdout)
}

func TestValidate(t *testing.T) {
	schema := writeFile(t, t.TempDir(), "schema.json", `{"type":"integer"}`)

	res := runCLI(t, `3`, "validate", schema)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "valid\n", res.stdout)

	res = runCLI(t, `"x"`, "validate", schema, "-")
	assert.Equal(t, 1, res.code)
	assert.NotEmpty(t, res.stdout)
}

func TestFormatSchema(t *testing.T) {
	res := runCLI(t, "", "format-schema", "--compact")
	require.Equal(t, 0, res.code, res.stderr)

	v, err := jsonvalue.ParseString(res.stdout)
	require.NoError(t, err)
	typ, _ := v.Get("type")
	assert.Equal(t, "array", typ.Str())
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cases := writeFile(t, dir, "cases.yaml", `
- id: match
  input_data: {a: 1}
  expected_schema:
    type: object
    properties:
      a: {type: integer}
    required: [a]
- id: mismatch
  input_data: {a: "x"}
  expected_schema:
    type: object
    properties:
      a: {type: integer}
    required: [a]
`)
	out := filepath.Join(dir, "results.json")

	res := runCLI(t, "", "run", cases, "--out", out, "--workers", "2")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "Results saved to "+out)
	assert.Contains(t, res.stdout, "Total Tests: 2")
	assert.Contains(t, res.stdout, "Passed Tests: 1")
	assert.Contains(t, res.stdout, "Issue: type_mismatch")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	results, err := jsonvalue.Parse(data)
	require.NoError(t, err)
	require.Equal(t, 2, results.Len())

	first := results.Index(0)
	id, _ := first.Get("test_case_id")
	assert.Equal(t, "match", id.Str())
	passed, _ := first.Get("test_passed")
	assert.True(t, passed.Bool())
}

func TestRun_QuietAllPassing(t *testing.T) {
	dir := t.TempDir()
	cases := writeFile(t, dir, "cases.json",
		`[{"id": 1, "input_data": [1, 2], "expected_schema": {"type": "array", "items": {"type": "integer"}}}]`)
	out := filepath.Join(dir, "results.json")

	res := runCLI(t, "", "run", "-q", "-o", out, cases)
	assert.Equal(t, 0, res.code, res.stderr)
	assert.NotContains(t, res.stdout, "Test Summary")
	assert.FileExists(t, out)
}

func TestRun_BadFile(t *testing.T) {
	cases := writeFile(t, t.TempDir(), "cases.json", `{"not": "an array"}`)

	res := runCLI(t, "", "run", cases, "-o", filepath.Join(t.TempDir(), "out.json"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error:")
}

func TestVersionAndUsage(t *testing.T) {
	res := runCLI(t, "", "--version")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, Version+"\n", res.stdout)

	res = runCLI(t, "", "no-such-command")
	assert.NotEqual(t, 0, res.code)
}
