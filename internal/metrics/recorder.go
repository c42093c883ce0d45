package metrics

// StatusLabel enumerates per-file outcomes for counters.
type StatusLabel string

const (
	StatusFixed      StatusLabel = "fixed"
	StatusSkipped    StatusLabel = "skipped"
	StatusParseError StatusLabel = "parse_error"
	StatusWriteError StatusLabel = "write_error"
)

// Recorder defines observability hooks for the HTML post-processor.
type Recorder interface {
	IncFileResult(status StatusLabel)
	AddRewrites(query string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncFileResult(StatusLabel) {}
func (NoopRecorder) AddRewrites(string, int)   {}
