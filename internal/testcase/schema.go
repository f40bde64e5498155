package testcase

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/usestring/schemainfer/pkg/jsonvalue"
)

// FileSchemaID identifies the test-case file schema.
const FileSchemaID = "https://schemainfer.usestring.dev/testcases.schema.json"

// FileSchema returns the JSON Schema every test-case file must satisfy: an
// array of objects, each with an input_data member. Unknown members are
// allowed.
func FileSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("id", &jsonschema.Schema{
		Description: "Opaque identifier echoed into results. Any JSON value.",
	})
	props.Set("input_data", &jsonschema.Schema{
		Description: "Example JSON document the schema is inferred from.",
	})
	props.Set("expected_schema", &jsonschema.Schema{
		Type:        "object",
		Description: "Reference JSON Schema the inferred schema is compared against.",
	})

	return &jsonschema.Schema{
		Version:     "http://json-schema.org/draft-07/schema#",
		ID:          FileSchemaID,
		Title:       "Schema inference test cases",
		Type:        "array",
		Description: "Test cases run by schemainfer.",
		Items: &jsonschema.Schema{
			Type:       "object",
			Properties: props,
			Required:   []string{"input_data"},
		},
	}
}

var (
	fileSchemaOnce  sync.Once
	fileSchemaValue jsonvalue.Value
	fileSchemaErr   error
)

// FileSchemaValue returns FileSchema in JSON form.
func FileSchemaValue() (jsonvalue.Value, error) {
	fileSchemaOnce.Do(func() {
		data, err := json.Marshal(FileSchema())
		if err != nil {
			fileSchemaErr = fmt.Errorf("marshaling file schema: %w", err)
			return
		}
		fileSchemaValue, fileSchemaErr = jsonvalue.Parse(data)
	})
	return fileSchemaValue, fileSchemaErr
}
