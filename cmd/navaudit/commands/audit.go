package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/navaudit/internal/audit"
	"git.home.luguber.info/inful/navaudit/internal/config"
	"git.home.luguber.info/inful/navaudit/internal/logfields"
	"git.home.luguber.info/inful/navaudit/internal/metrics"
)

// AuditFlags are shared by the audit and watch commands.
type AuditFlags struct {
	MkdocsYAML string `name:"mkdocs-yaml" short:"m" help:"Root navigation declaration" default:"mkdocs.yml" type:"path"`
	HelpURLs   string `name:"help-urls" help:"External-reference table (HELP_URL entries)" type:"path"`

	NavMissing    bool `help:"Report nav entries whose file does not exist"`
	Ghost         bool `help:"Report documents unreachable from the nav"`
	HelpMissing   bool `help:"Report reference table entries pointing nowhere"`
	BrokenLinks   bool `help:"Report links that do not resolve"`
	MissingImages bool `help:"Report image references with no file"`
	OrphanImages  bool `help:"Report images nothing references"`
	Footnotes     bool `help:"Report documents using footnote syntax (opt-in)"`
	NavDuplicates bool `help:"Report files declared more than once in the nav (opt-in)"`

	Summary     bool   `short:"s" help:"Print counts only"`
	Quiet       bool   `short:"q" help:"Print nothing; rely on the exit status"`
	Format      string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Exclude     string `short:"e" help:"Comma-separated, case-insensitive path substrings to skip"`
	Concurrency int    `help:"Parallel document workers (0 = number of CPUs)" default:"-1"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile-collector file" type:"path"`
}

func (f *AuditFlags) categories() []audit.Category {
	flags := []struct {
		on bool
		c  audit.Category
	}{
		{f.NavMissing, audit.CategoryNavMissing},
		{f.Ghost, audit.CategoryGhost},
		{f.HelpMissing, audit.CategoryHelpMissing},
		{f.BrokenLinks, audit.CategoryBrokenLinks},
		{f.MissingImages, audit.CategoryMissingImages},
		{f.OrphanImages, audit.CategoryOrphanImages},
		{f.Footnotes, audit.CategoryFootnotes},
		{f.NavDuplicates, audit.CategoryNavDuplicates},
	}
	var out []audit.Category
	for _, fl := range flags {
		if fl.on {
			out = append(out, fl.c)
		}
	}
	return out
}

// selectedCategories returns the categories named by flags or, when no
// category flag is set, by the configuration file.
func (f *AuditFlags) selectedCategories(cfg *config.Config) ([]audit.Category, error) {
	if flagged := f.categories(); len(flagged) > 0 {
		return flagged, nil
	}
	out := make([]audit.Category, 0, len(cfg.Categories))
	for _, name := range cfg.Categories {
		c, err := audit.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// options merges the flags over cfg.
func (f *AuditFlags) options(cfg *config.Config) (audit.Options, error) {
	if f.Exclude != "" {
		cfg.Exclude = config.ParseExclude(f.Exclude)
	}
	if f.Concurrency >= 0 {
		cfg.Concurrency = f.Concurrency
	}
	categories, err := f.selectedCategories(cfg)
	if err != nil {
		return audit.Options{}, err
	}
	return audit.Options{
		NavPath:     f.MkdocsYAML,
		TablePath:   f.HelpURLs,
		Categories:  categories,
		SummaryOnly: f.Summary,
		Config:      cfg,
	}, nil
}

// runOnce performs one audit and presents it. It returns ErrFindings when
// the report is not clean.
func (f *AuditFlags) runOnce(ctx context.Context, opts audit.Options) error {
	var rec *metrics.PrometheusRecorder
	if f.MetricsFile != "" {
		rec = metrics.NewPrometheusRecorder(prometheus.NewRegistry())
		opts.Recorder = rec
	}

	outcome := audit.Execute(ctx, opts)
	if !outcome.IsOk() {
		return outcome.Err()
	}
	report := outcome.Value()

	if !f.Quiet {
		if err := audit.NewFormatter(f.Format).Format(os.Stdout, report); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	}
	if rec != nil {
		if err := rec.WriteTextfile(f.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(f.MetricsFile), logfields.Error(err))
		}
	}
	if !report.Clean() {
		return ErrFindings
	}
	return nil
}

// AuditCmd implements the 'audit' command.
type AuditCmd struct {
	AuditFlags `embed:""`
}

// Run executes the audit command.
func (a *AuditCmd) Run(ctx context.Context, _ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	opts, err := a.options(cfg)
	if err != nil {
		return err
	}
	return a.runOnce(ctx, opts)
}
