package fixhtml

import (
	"git.home.luguber.info/inful/doxyphp/internal/foundation"
	"git.home.luguber.info/inful/doxyphp/internal/foundation/errors"
	"git.home.luguber.info/inful/doxyphp/internal/metrics"
)

// Status is the outcome of processing one HTML file.
type Status string

const (
	StatusFixed      Status = "fixed"
	StatusParseError Status = "parse_error"
	StatusWriteError Status = "write_error"
)

// FileResult describes what happened to one file.
type FileResult struct {
	Path   string
	Status Status
	// Rewrites counts nodes changed, keyed by query.
	Rewrites map[string]int
	Err      *errors.ClassifiedError
}

// TotalRewrites sums Rewrites over all queries.
func (r FileResult) TotalRewrites() int {
	total := 0
	for _, n := range r.Rewrites {
		total += n
	}
	return total
}

type fileOutcome = foundation.Result[FileResult, *errors.ClassifiedError]

// Report aggregates the results of a Fixer run.
type Report struct {
	Files []FileResult
	// Skipped counts files filtered out by extension or source suffix.
	Skipped int
}

// Count returns the number of files with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

// Rewrites sums node rewrites per query across all files.
func (r *Report) Rewrites() map[string]int {
	totals := make(map[string]int)
	for _, f := range r.Files {
		for q, n := range f.Rewrites {
			totals[q] += n
		}
	}
	return totals
}

// Warnings returns the errors of all files that were not fixed.
func (r *Report) Warnings() []*errors.ClassifiedError {
	var out []*errors.ClassifiedError
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f.Err)
		}
	}
	return out
}

// add folds a per-file outcome into the report.
func (r *Report) add(path string, outcome fileOutcome) FileResult {
	var res FileResult
	outcome.Match(
		func(fixed FileResult) { res = fixed },
		func(err *errors.ClassifiedError) {
			res = FileResult{Path: path, Status: statusFor(err), Err: err}
		},
	)
	r.Files = append(r.Files, res)
	return res
}

func statusFor(err *errors.ClassifiedError) Status {
	if err.IsCategory(errors.CategoryWrite) {
		return StatusWriteError
	}
	return StatusParseError
}

func metricStatus(s Status) metrics.StatusLabel {
	switch s {
	case StatusFixed:
		return metrics.StatusFixed
	case StatusWriteError:
		return metrics.StatusWriteError
	default:
		return metrics.StatusParseError
	}
}
