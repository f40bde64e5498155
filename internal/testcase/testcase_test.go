package testcase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

func TestLoad_JSON(t *testing.T) {
	cases, err := Load(filepath.Join("testdata", "cases.json"))
	require.NoError(t, err)
	require.Len(t, cases, 3)

	assert.Equal(t, "user_profile", cases[0].Label(0))
	assert.Equal(t, []string{"name", "email", "joined", "age"}, cases[0].InputData.Keys())
	assert.True(t, cases[0].HasExpected())

	assert.Equal(t, "2", cases[1].Label(1))
	assert.Equal(t, jsonvalue.KindInteger, cases[1].ID.Kind())

	assert.Equal(t, "#2", cases[2].Label(2))
	assert.False(t, cases[2].ID.IsValid())
	assert.False(t, cases[2].HasExpected())
	assert.Equal(t, `["a",1,true]`, cases[2].InputData.Compact())
}

func TestLoad_YAML(t *testing.T) {
	cases, err := Load(filepath.Join("testdata", "cases.yaml"))
	require.NoError(t, err)
	require.Len(t, cases, 2)

	order := cases[0]
	assert.Equal(t, "order", order.Label(0))
	assert.Equal(t, `{"total":12.50,"items":3,"placed":"03/15/2024","tags":["a",1]}`, order.InputData.Compact())

	total, _ := order.InputData.Get("total")
	assert.Equal(t, jsonvalue.KindNumber, total.Kind())
	items, _ := order.InputData.Get("items")
	assert.Equal(t, jsonvalue.KindInteger, items.Kind())

	props, _ := order.ExpectedSchema.Get("properties")
	assert.Equal(t, []string{"total", "items", "placed", "tags"}, props.Keys())

	assert.Equal(t, jsonvalue.KindNull, cases[1].InputData.Kind())
	assert.False(t, cases[1].HasExpected())
}

func TestParse_YAMLScalars(t *testing.T) {
	cases, err := Parse([]byte(`
- input_data:
    hex: 0x1F
    big: 1e3
    yes_string: "yes"
    flag: true
    none: ~
    anchor: &a {k: 1}
    alias: *a
`), FormatYAML)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	assert.Equal(t,
		`{"hex":31,"big":1e3,"yes_string":"yes","flag":true,"none":null,"anchor":{"k":1},"alias":{"k":1}}`,
		cases[0].InputData.Compact(),
	)
}

func TestParse_RejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"not an array", `{"input_data": 1}`, FormatJSON},
		{"missing input_data", `[{"id": 1}]`, FormatJSON},
		{"case is not an object", `[1]`, FormatJSON},
		{"expected_schema not an object", `[{"input_data": 1, "expected_schema": "string"}]`, FormatJSON},
		{"yaml missing input_data", "- id: x\n", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			var fileErr *FileError
			require.ErrorAs(t, err, &fileErr)
			assert.NotEmpty(t, fileErr.Problems)
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	_, err := Parse([]byte(`[{"input_data": `), FormatJSON)
	var syntaxErr *jsonvalue.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)

	_, err = Parse([]byte("- [unclosed\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(""), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(`[]`), Format("toml"))
	assert.Error(t, err)
}

func TestLoad_ErrorNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "x"}]`), 0o644))

	_, err := Load(path)
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, path, fileErr.Path)
	assert.Contains(t, err.Error(), path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFor("cases.yml"))
	assert.Equal(t, FormatYAML, FormatFor("CASES.YAML"))
	assert.Equal(t, FormatJSON, FormatFor("cases.json"))
	assert.Equal(t, FormatJSON, FormatFor("cases"))
}

func TestFileSchemaValue(t *testing.T) {
	v, err := FileSchemaValue()
	require.NoError(t, err)

	typ, _ := v.Get("type")
	assert.Equal(t, "array", typ.Str())
	items, _ := v.Get("items")
	required, _ := items.Get("required")
	assert.Equal(t, `["input_data"]`, required.Compact())
}
