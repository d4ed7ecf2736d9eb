package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the exit code for an error. Exit code 1 is left to
// the caller for "audit completed with findings".
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	classified, ok := AsClassified(err)
	if !ok {
		return 10
	}

	switch classified.Category() {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7
	case CategoryNotFound:
		return 4
	case CategoryFileSystem, CategoryTable:
		return 11
	default:
		return 10
	}
}

// FormatError formats an error for user-facing display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return classified.Error()
	}

	switch classified.Category() {
	case CategoryConfig:
		return fmt.Sprintf("Navigation error: %s", describe(classified))
	case CategoryValidation:
		return fmt.Sprintf("Invalid options: %s", describe(classified))
	case CategoryFileSystem:
		return fmt.Sprintf("Filesystem error: %s", describe(classified))
	case CategoryTable:
		return fmt.Sprintf("Reference table error: %s", describe(classified))
	default:
		return "Internal error occurred (use -v for details)"
	}
}

func describe(err *ClassifiedError) string {
	if path, ok := err.Context().GetString("path"); ok && path != "" {
		return fmt.Sprintf("%s (%s)", err.Message(), path)
	}
	return err.Message()
}

// Report logs the error and writes the user-facing message to w. It returns
// the exit code the process should use.
func (a *CLIErrorAdapter) Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	a.logError(err)
	_, _ = fmt.Fprintln(w, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	attrs := []slog.Attr{slog.String("category", string(classified.Category()))}
	for key, value := range classified.Context() {
		attrs = append(attrs, slog.Any(key, value))
	}
	if classified.Cause() != nil {
		attrs = append(attrs, slog.String("cause", classified.Cause().Error()))
	}
	a.logger.LogAttrs(context.Background(), slogLevelFromSeverity(classified.Severity()), classified.Message(), attrs...)
}

func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
