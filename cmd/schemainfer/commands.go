package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/usestring/schemainfer/internal/cache"
	"github.com/usestring/schemainfer/internal/config"
	"github.com/usestring/schemainfer/internal/query"
	"github.com/usestring/schemainfer/internal/report"
	"github.com/usestring/schemainfer/internal/runner"
	"github.com/usestring/schemainfer/internal/testcase"
	"github.com/usestring/schemainfer/internal/validate"
	"github.com/usestring/schemainfer/pkg/infer"
	"github.com/usestring/schemainfer/pkg/jsonvalue"
	"github.com/usestring/schemainfer/pkg/schemadiff"
)

// RunCmd runs a test-case file.
type RunCmd struct {
	Cases         string `arg:"" help:"Test-case file (.json, .yaml or .yml)." type:"existingfile"`
	Out           string `help:"Where to write the results." short:"o" default:"inference_results.json" type:"path"`
	Workers       int    `help:"Parallel workers (default: RUNNER_WORKERS)." short:"w"`
	Quiet         bool   `help:"Do not print the summary." short:"q"`
	AssertFormats bool   `help:"Treat format keywords as assertions during self-validation."`
}

func (c *RunCmd) Run(e *env) error {
	cases, err := testcase.Load(c.Cases)
	if err != nil {
		return err
	}

	v, err := newValidator(e.cfg, c.AssertFormats)
	if err != nil {
		return err
	}

	workers := c.Workers
	if workers <= 0 {
		workers = e.cfg.RunnerWorkers
	}
	results, err := runner.New(v, runner.WithWorkers(workers)).Run(e.ctx, cases)
	if err != nil {
		return err
	}

	if err := report.WriteResults(c.Out, results); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Schema inference completed. Results saved to %s\n", c.Out)

	if !c.Quiet {
		if err := report.PrintSummary(e.stdout, results); err != nil {
			return err
		}
	}
	if !report.Summarize(results).AllPassed() {
		return errCheckFailed
	}
	return nil
}

// InferCmd infers the schema of one document.
type InferCmd struct {
	File    string `arg:"" optional:"" help:"JSON file to read; stdin when omitted or -."`
	Select  string `help:"jq expression applied to the document before inference." short:"s"`
	Compact bool   `help:"Print the schema on one line." short:"c"`
}

func (c *InferCmd) Run(e *env) error {
	data, err := readDocument(e, c.File)
	if err != nil {
		return err
	}

	if c.Select != "" {
		data, err = query.NewEngine().Select(data, c.Select)
		if err != nil {
			return fmt.Errorf("select: %w", err)
		}
	}

	doc, err := infer.Infer(data)
	if err != nil {
		return err
	}
	return writeJSON(e.stdout, doc.Value(), c.Compact)
}

// DiffCmd compares two schemas.
type DiffCmd struct {
	Inferred string `arg:"" help:"Candidate schema file, or example data with --from-data." type:"existingfile"`
	Expected string `arg:"" help:"Reference schema file." type:"existingfile"`
	FromData bool   `help:"Infer the candidate schema from the first file instead of reading it as a schema."`
	Compact  bool   `help:"Print the result on one line." short:"c"`
}

func (c *DiffCmd) Run(e *env) error {
	inferred, err := readDocument(e, c.Inferred)
	if err != nil {
		return err
	}
	expected, err := readDocument(e, c.Expected)
	if err != nil {
		return err
	}

	var result *schemadiff.Result
	if c.FromData {
		doc, err := infer.Infer(inferred)
		if err != nil {
			return err
		}
		result = schemadiff.DiffDocuments(doc, expected)
	} else {
		result = schemadiff.Diff(inferred, expected)
	}

	if err := writeJSON(e.stdout, result.Value(), c.Compact); err != nil {
		return err
	}
	if !result.Passed {
		return errCheckFailed
	}
	return nil
}

// ValidateCmd validates a document against a schema.
type ValidateCmd struct {
	Schema        string `arg:"" help:"Schema file." type:"existingfile"`
	Data          string `arg:"" optional:"" help:"JSON file to validate; stdin when omitted or -."`
	AssertFormats bool   `help:"Treat format keywords as assertions."`
}

func (c *ValidateCmd) Run(e *env) error {
	schemaDoc, err := readDocument(e, c.Schema)
	if err != nil {
		return err
	}
	data, err := readDocument(e, c.Data)
	if err != nil {
		return err
	}

	v, err := newValidator(e.cfg, c.AssertFormats)
	if err != nil {
		return err
	}
	result := v.Validate(schemaDoc, data)
	if result.Valid {
		fmt.Fprintln(e.stdout, "valid")
		return nil
	}
	for _, msg := range result.Errors {
		fmt.Fprintln(e.stdout, msg)
	}
	return errCheckFailed
}

// FormatSchemaCmd prints the test-case file schema.
type FormatSchemaCmd struct {
	Compact bool `help:"Print the schema on one line." short:"c"`
}

func (c *FormatSchemaCmd) Run(e *env) error {
	doc, err := testcase.FileSchemaValue()
	if err != nil {
		return err
	}
	return writeJSON(e.stdout, doc, c.Compact)
}

func newValidator(cfg *config.Config, assertFormats bool) (*validate.Validator, error) {
	var opts []validate.Option
	if cfg.ValidatorCacheSize > 0 {
		c, err := cache.NewSchemaCache(cfg.ValidatorCacheSize)
		if err != nil {
			return nil, err
		}
		opts = append(opts, validate.WithCache(c))
	}
	if assertFormats {
		opts = append(opts, validate.WithFormatAssertion())
	}
	return validate.New(opts...), nil
}

// readDocument parses the JSON file at path, or stdin for "" and "-".
func readDocument(e *env, path string) (jsonvalue.Value, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(e.stdin)
		path = "stdin"
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("reading %s: %w", path, err)
	}

	v, err := jsonvalue.Parse(data)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func writeJSON(w io.Writer, v jsonvalue.Value, compact bool) error {
	out := []byte(v.Compact())
	if !compact {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err != nil {
			return err
		}
		out = buf.Bytes()
	}
	out = append(out, '\n')
	_, err := w.Write(out)
	return err
}
