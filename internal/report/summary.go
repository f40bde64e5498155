// Package report summarizes and writes test case results.
package report

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/schemainfer/internal/runner"
	"github.com/usestring/schemainfer/pkg/schemadiff"
)

// Summary aggregates a batch of results. Each bitmap holds result indices.
type Summary struct {
	Total int

	Passed           *roaring.Bitmap // compared and matched
	Failed           *roaring.Bitmap // everything not in Passed
	Compared         *roaring.Bitmap // carried an expected schema
	ValidationFailed *roaring.Bitmap // input rejected by its inferred schema
	InferenceFailed  *roaring.Bitmap

	// IssueCounts counts differences per issue over all compared cases.
	IssueCounts map[schemadiff.Issue]int
}

// Summarize builds the summary of results.
func Summarize(results []*runner.Result) *Summary {
	s := &Summary{
		Total:            len(results),
		Passed:           roaring.New(),
		Compared:         roaring.New(),
		ValidationFailed: roaring.New(),
		InferenceFailed:  roaring.New(),
		IssueCounts:      make(map[schemadiff.Issue]int),
	}

	for i, res := range results {
		idx := uint32(i)
		if res.Passed() {
			s.Passed.Add(idx)
		}
		if res.Compared {
			s.Compared.Add(idx)
		}
		if !res.ValidationSuccess {
			s.ValidationFailed.Add(idx)
		}
		if res.InferredSchema == nil {
			s.InferenceFailed.Add(idx)
		}
		if res.SchemaComparison != nil {
			for issue, n := range res.SchemaComparison.Count() {
				s.IssueCounts[issue] += n
			}
		}
	}

	s.Failed = roaring.Flip(s.Passed, 0, uint64(s.Total))
	return s
}

// PassedCount returns the number of passing cases.
func (s *Summary) PassedCount() int { return int(s.Passed.GetCardinality()) }

// FailedCount returns the number of failing cases.
func (s *Summary) FailedCount() int { return int(s.Failed.GetCardinality()) }

// AllPassed reports whether every case passed. An empty batch passes.
func (s *Summary) AllPassed() bool { return s.Failed.IsEmpty() }
