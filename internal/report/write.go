package report

import (
	"bufio"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"

	"github.com/usestring/schemainfer/internal/runner"
)

// EncodeResults writes results to w as an indented JSON array.
func EncodeResults(w io.Writer, results []*runner.Result) error {
	if results == nil {
		results = []*runner.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return nil
}

// WriteResults writes results to the file at path, replacing it.
func WriteResults(path string, results []*runner.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if err := EncodeResults(bw, results); err != nil {
		return err
	}
	return bw.Flush()
}
