package audit

import (
	"time"

	"git.home.luguber.info/inful/navaudit/internal/git"
)

// BrokenLink is a link that no resolution phase could map to a file.
type BrokenLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Line   int    `json:"line"`
	// FromExternalTable marks links found in documents that are targets of
	// the external-reference table.
	FromExternalTable bool `json:"from_external_table"`
}

// MissingImage is an image reference with no file behind it.
type MissingImage struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Line   int    `json:"line"`
}

// NavDuplicate is a file declared by more than one nav entry.
type NavDuplicate struct {
	Path   string   `json:"path"`
	Trails []string `json:"trails"`
}

// DocumentError records a document or directory that could not be read.
// The run continues without it.
type DocumentError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Report is the result of one audit run. Finding lists are sorted by
// source and then target, and are nil for unselected categories and in
// summary-only mode.
type Report struct {
	RunID      string        `json:"run_id"`
	Root       string        `json:"root"`
	NavPath    string        `json:"nav_path"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"-"`
	DurationMS float64       `json:"duration_ms"`
	Git        *git.Info     `json:"git,omitempty"`

	Categories []Category       `json:"categories"`
	Counts     map[Category]int `json:"counts"`
	Total      int              `json:"total"`
	Documents  int              `json:"documents"`

	NavMissing     []string        `json:"nav_missing,omitempty"`
	Ghost          []string        `json:"ghost,omitempty"`
	HelpMissing    []string        `json:"help_missing,omitempty"`
	BrokenLinks    []BrokenLink    `json:"broken_links,omitempty"`
	MissingImages  []MissingImage  `json:"missing_images,omitempty"`
	OrphanImages   []string        `json:"orphan_images,omitempty"`
	Footnotes      []string        `json:"footnotes,omitempty"`
	NavDuplicates  []NavDuplicate  `json:"nav_duplicates,omitempty"`
	DocumentErrors []DocumentError `json:"document_errors,omitempty"`
}

// Clean reports whether the run produced no findings.
func (r *Report) Clean() bool { return r.Total == 0 }

// Count returns the finding count of c, or zero when c was not selected.
func (r *Report) Count(c Category) int { return r.Counts[c] }

func (r *Report) clearItems() {
	r.NavMissing = nil
	r.Ghost = nil
	r.HelpMissing = nil
	r.BrokenLinks = nil
	r.MissingImages = nil
	r.OrphanImages = nil
	r.Footnotes = nil
	r.NavDuplicates = nil
}
