package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySource     = "source"
	KeySubsite    = "subsite"
	KeyLink       = "link"
	KeyPhase      = "phase"
	KeyCategory   = "category"
	KeyCount      = "count"
	KeyLine       = "line"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Subsite(name string) slog.Attr   { return slog.String(KeySubsite, name) }
func Link(target string) slog.Attr    { return slog.String(KeyLink, target) }
func Phase(name string) slog.Attr     { return slog.String(KeyPhase, name) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
