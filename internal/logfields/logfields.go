package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID    = "run_id"
	KeyFile     = "file"
	KeyDir      = "dir"
	KeyLine     = "line"
	KeyRule     = "rule"
	KeyQuery    = "query"
	KeyStatus   = "status"
	KeyCount    = "count"
	KeyConfig   = "config"
	KeyError    = "error"
	KeyDuration = "duration_ms"
	KeyCommand  = "command"
	KeyVariable = "variable"
	KeyRewrites = "rewrites"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func File(path string) slog.Attr      { return slog.String(KeyFile, path) }
func Dir(path string) slog.Attr       { return slog.String(KeyDir, path) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Rule(name string) slog.Attr      { return slog.String(KeyRule, name) }
func Query(sel string) slog.Attr      { return slog.String(KeyQuery, sel) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Config(path string) slog.Attr    { return slog.String(KeyConfig, path) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDuration, ms) }
func Command(name string) slog.Attr   { return slog.String(KeyCommand, name) }
func Variable(name string) slog.Attr  { return slog.String(KeyVariable, name) }
func Rewrites(n int) slog.Attr        { return slog.Int(KeyRewrites, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
