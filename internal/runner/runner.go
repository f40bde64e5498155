// Package runner executes schema inference test cases.
//
// For each case the runner infers a schema from input_data, validates the
// input against the inferred schema, and compares the inferred schema with
// expected_schema when one is present. A failing case never stops the batch.
package runner

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/schemainfer/internal/testcase"
	"github.com/usestring/schemainfer/internal/validate"
	"github.com/usestring/schemainfer/pkg/infer"
	"github.com/usestring/schemainfer/pkg/schemadiff"
)

// DefaultWorkers is the worker count used when none is configured.
const DefaultWorkers = 4

// Runner runs test cases on a bounded worker pool.
type Runner struct {
	validator *validate.Validator
	workers   int
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of cases processed concurrently.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New creates a runner validating with v.
func New(v *validate.Validator, opts ...Option) *Runner {
	r := &Runner{
		validator: v,
		workers:   DefaultWorkers,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes all cases and returns one result per case in input order.
// The only error is the context's, when it is cancelled before all cases ran.
func (r *Runner) Run(ctx context.Context, cases []testcase.Case) ([]*Result, error) {
	start := time.Now()
	results := make([]*Result, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, c := range cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.RunCase(i, c)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	passed := 0
	for _, res := range results {
		if res.Passed() {
			passed++
		}
	}
	r.logger.Info("test cases complete",
		slog.Int("total", len(results)),
		slog.Int("passed", passed),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return results, nil
}

// RunCase processes a single case. index is the case's position in its file
// and only labels log lines.
func (r *Runner) RunCase(index int, c testcase.Case) *Result {
	label := c.Label(index)
	res := &Result{
		TestCaseID:     c.ID,
		InputData:      c.InputData,
		ExpectedSchema: c.ExpectedSchema,
	}

	doc, err := infer.Infer(c.InputData)
	if err != nil {
		res.InferenceError = err.Error()
		r.logger.Warn("inference failed",
			slog.String("case", label),
			slog.String("error", err.Error()),
		)
		if c.HasExpected() {
			res.Compared = true
		}
		return res
	}
	res.InferredSchema = doc

	validation := r.validator.Validate(doc.Value(), c.InputData)
	res.ValidationSuccess = validation.Valid
	res.ValidationErrors = validation.Errors
	if !validation.Valid {
		r.logger.Debug("input does not validate against inferred schema",
			slog.String("case", label),
			slog.Any("errors", validation.Errors),
		)
	}

	if c.HasExpected() {
		res.Compared = true
		res.SchemaComparison = schemadiff.DiffDocuments(doc, c.ExpectedSchema)
		if !res.SchemaComparison.Passed {
			r.logger.Warn("schema mismatch",
				slog.String("case", label),
				slog.Int("differences", len(res.SchemaComparison.Differences)),
			)
		}
	}

	return res
}
