package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter writes a report for presentation.
type Formatter interface {
	Format(w io.Writer, report *Report) error
}

// NewFormatter returns the formatter for format ("text" or "json").
func NewFormatter(format string) Formatter {
	if format == "json" {
		return NewJSONFormatter()
	}
	return NewTextFormatter()
}

// TextFormatter formats reports as human-readable text.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter { return &TextFormatter{} }

// Format writes the finding lists grouped by category followed by the counts.
func (f *TextFormatter) Format(w io.Writer, report *Report) error {
	p := &printer{w: w}

	p.printf("Auditing navigation: %s\n", report.NavPath)
	if report.Git != nil {
		p.printf("Revision: %s\n", report.Git)
	}
	p.println(strings.Repeat("━", 60))

	for _, c := range report.Categories {
		items := itemLines(report, c)
		if len(items) == 0 {
			continue
		}
		p.printf("%s (%d)\n", c, report.Counts[c])
		for _, item := range items {
			p.printf("  %s\n", item)
		}
		p.println()
	}

	if len(report.DocumentErrors) > 0 {
		p.printf("unreadable (%d)\n", len(report.DocumentErrors))
		for _, de := range report.DocumentErrors {
			p.printf("  %s: %s\n", de.Path, de.Error)
		}
		p.println()
	}

	p.println(strings.Repeat("━", 60))
	p.printf("Results (%d documents):\n", report.Documents)
	for _, c := range report.Categories {
		p.printf("  %-16s %d\n", c, report.Counts[c])
	}
	p.printf("  %-16s %d\n", "total", report.Total)
	p.println()
	if report.Clean() {
		p.println("✨ Navigation and links are consistent.")
	} else {
		p.printf("❌ %d finding%s.\n", report.Total, pluralize(report.Total))
	}
	return p.err
}

func itemLines(report *Report, c Category) []string {
	switch c {
	case CategoryNavMissing:
		return report.NavMissing
	case CategoryGhost:
		return report.Ghost
	case CategoryHelpMissing:
		return report.HelpMissing
	case CategoryOrphanImages:
		return report.OrphanImages
	case CategoryFootnotes:
		return report.Footnotes
	case CategoryBrokenLinks:
		lines := make([]string, 0, len(report.BrokenLinks))
		for _, l := range report.BrokenLinks {
			line := fmt.Sprintf("%s:%d -> %s", l.Source, l.Line, l.Target)
			if l.FromExternalTable {
				line += " [reference table]"
			}
			lines = append(lines, line)
		}
		return lines
	case CategoryMissingImages:
		lines := make([]string, 0, len(report.MissingImages))
		for _, img := range report.MissingImages {
			lines = append(lines, fmt.Sprintf("%s:%d -> %s", img.Source, img.Line, img.Target))
		}
		return lines
	case CategoryNavDuplicates:
		lines := make([]string, 0, len(report.NavDuplicates))
		for _, d := range report.NavDuplicates {
			lines = append(lines, fmt.Sprintf("%s (%s)", d.Path, strings.Join(d.Trails, ", ")))
		}
		return lines
	}
	return nil
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// printer remembers the first write error so the formatting code stays flat.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) println(args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintln(p.w, args...)
	}
}

// JSONFormatter formats reports as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

// Format writes the report as JSON.
func (f *JSONFormatter) Format(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
