// Package audit runs the navigation and link audit over a monorepo of
// MkDocs sites and produces a categorized, deterministic Report.
//
// A run loads and merges the navigation, derives the URL space, scans the
// content roots, resolves every link and image reference and derives the
// findings of each selected category. Per-document read failures are
// recorded on the report; only problems with the navigation declaration,
// the reference table file or the options abort a run.
package audit

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/navaudit/internal/config"
	"git.home.luguber.info/inful/navaudit/internal/foundation"
	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
	"git.home.luguber.info/inful/navaudit/internal/git"
	"git.home.luguber.info/inful/navaudit/internal/helptable"
	"git.home.luguber.info/inful/navaudit/internal/logfields"
	"git.home.luguber.info/inful/navaudit/internal/metrics"
	"git.home.luguber.info/inful/navaudit/internal/mkdocs"
	"git.home.luguber.info/inful/navaudit/internal/pathspace"
	"git.home.luguber.info/inful/navaudit/internal/probe"
	"git.home.luguber.info/inful/navaudit/internal/resolve"
	"git.home.luguber.info/inful/navaudit/internal/util/sets"
)

// Options configures one audit run.
type Options struct {
	// NavPath is the root navigation declaration (mkdocs.yml).
	NavPath string
	// TablePath is the optional external-reference table.
	TablePath string
	// Categories selects what to compute; empty selects DefaultCategories.
	Categories []Category
	// SummaryOnly drops the itemized finding lists and keeps the counts.
	SummaryOnly bool
	// Config supplies layout and scanning settings; nil selects config.Default().
	Config *config.Config
	// Recorder receives run metrics; nil selects metrics.NoopRecorder.
	Recorder metrics.Recorder
}

// Engine runs audits with fixed options. Every Run is independent.
type Engine struct {
	opts Options
	cfg  *config.Config
	rec  metrics.Recorder
}

// New validates opts and returns an Engine.
func New(opts Options) (*Engine, error) {
	if opts.NavPath == "" {
		return nil, ferrors.ValidationError("navigation declaration path is required").Build()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Engine{opts: opts, cfg: cfg, rec: rec}, nil
}

// Run audits the tree once.
func Run(ctx context.Context, opts Options) (*Report, error) {
	e, err := New(opts)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}

// Outcome is the result handed to presentation: a report on success, or
// the fatal error with no partial counts on failure.
type Outcome = foundation.Result[*Report]

// Execute runs an audit and wraps the result as an Outcome.
func Execute(ctx context.Context, opts Options) Outcome {
	report, err := Run(ctx, opts)
	return foundation.FromTuple(report, err)
}

// run holds the state of a single audit; nothing in it outlives Run.
type run struct {
	opts     Options
	cfg      *config.Config
	rec      metrics.Recorder
	selected sets.Set[Category]

	root         string
	docsRoot     string
	prober       *probe.Prober
	ps           *pathspace.PathSpace
	resolver     *resolve.Resolver
	contentRoots []string

	// tableTargets holds the resolved files of the reference table.
	tableTargets sets.Set[string]
	helpMissing  []string

	mu        sync.Mutex
	docErrors []DocumentError
}

// Run executes the audit. It returns a fatal error and no report when the
// navigation declaration or reference table cannot be used.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	runID := uuid.NewString()
	categories := selection(e.opts.Categories)

	r := &run{
		opts:         e.opts,
		cfg:          e.cfg,
		rec:          e.rec,
		selected:     sets.New(categories...),
		tableTargets: sets.New[string](),
	}

	slog.Info("Starting audit", logfields.RunID(runID), logfields.Path(e.opts.NavPath))

	if err := r.stage("nav", r.loadNav); err != nil {
		return nil, err
	}
	var c corpus
	_ = r.stage("scan", func() error {
		c = r.scan()
		return nil
	})
	if err := r.stage("table", r.loadTable); err != nil {
		return nil, err
	}

	docs := r.documents(c.docs)
	var results []docResult
	if err := r.stage("resolve", func() error {
		var err error
		results, err = r.processDocuments(ctx, docs)
		return err
	}); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "audit cancelled").Build()
	}
	var stylesheetImages []string
	_ = r.stage("stylesheets", func() error {
		stylesheetImages = r.scanStylesheets(c.stylesheets)
		return nil
	})

	report := &Report{
		RunID:      runID,
		Root:       r.root,
		NavPath:    e.opts.NavPath,
		StartedAt:  started,
		Categories: categories,
		Counts:     make(map[Category]int, len(categories)),
		Documents:  len(docs),
	}
	_ = r.stage("findings", func() error {
		r.findings(report, c, results, stylesheetImages)
		return nil
	})

	report.DocumentErrors = r.sortedErrors()
	for _, cat := range categories {
		report.Total += report.Counts[cat]
		r.rec.SetFindings(string(cat), report.Counts[cat])
	}
	if e.opts.SummaryOnly {
		report.clearItems()
	}
	if info, err := git.Describe(r.root); err == nil {
		report.Git = info
	} else {
		slog.Debug("No git metadata for audited tree", logfields.Error(err))
	}

	report.Duration = time.Since(started)
	report.DurationMS = float64(report.Duration.Microseconds()) / 1000
	r.rec.ObserveAuditDuration(report.Duration)

	slog.Info("Audit complete",
		logfields.RunID(runID),
		logfields.Count(report.Total),
		slog.Int("documents", report.Documents),
		logfields.DurationMS(report.DurationMS))
	return report, nil
}

func (r *run) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	r.rec.ObserveStageDuration(name, d)
	slog.Debug("Audit stage finished", logfields.Stage(name), logfields.DurationMS(float64(d.Microseconds())/1000))
	return err
}

func (r *run) loadNav() error {
	navCfg, err := mkdocs.Load(r.opts.NavPath, r.cfg.ContentDir)
	if err != nil {
		if !ferrors.IsClassified(err) {
			err = ferrors.WrapError(err, ferrors.CategoryConfig, "cannot load navigation").
				Fatal().WithContext("path", r.opts.NavPath).Build()
		}
		return err
	}

	p, err := probe.New(navCfg.Root, r.cfg.ContentDir, r.cfg.ProbeCacheSize)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "cannot create filesystem prober").Fatal().Build()
	}
	r.prober = p
	r.root = p.Root()
	r.docsRoot = filepath.Join(r.root, r.cfg.ContentDir)
	r.ps = pathspace.Build(navCfg, p)
	r.contentRoots = r.collectContentRoots(mkdocs.Splices(navCfg.Nav))
	r.resolver = resolve.New(r.ps, r.contentRoots, r.cfg.Extension)

	slog.Debug("Navigation loaded",
		slog.Int("members", len(r.ps.Members())),
		slog.Int("trails", r.ps.Trails()),
		slog.Int("content_roots", len(r.contentRoots)))
	return nil
}

// loadTable resolves every reference table entry. Unresolvable entries and
// entries whose macros cannot be expanded are help_missing findings.
func (r *run) loadTable() error {
	if r.opts.TablePath == "" {
		return nil
	}
	table, err := helptable.Load(r.opts.TablePath)
	if err != nil {
		return err
	}
	for _, entry := range table.Entries {
		if entry.Err != nil {
			slog.Warn("Unusable reference table entry", slog.String("key", entry.Key), logfields.Line(entry.Line), logfields.Error(entry.Err))
			r.helpMissing = append(r.helpMissing, entry.Expr)
			continue
		}
		res := r.resolver.ResolveTableTarget(entry.Target)
		if !res.Resolved() {
			r.helpMissing = append(r.helpMissing, helptable.ContentPath(entry.Target, r.cfg.ContentDir, r.cfg.Extension))
			continue
		}
		r.tableTargets.Add(res.Path)
	}
	slog.Debug("Reference table loaded",
		logfields.Path(r.opts.TablePath),
		slog.Int("entries", len(table.Entries)),
		logfields.Count(len(r.helpMissing)))
	return nil
}

// documents returns the scanned documents plus every existing nav member
// and table target outside the scanned roots, sorted.
func (r *run) documents(scanned []string) []string {
	all := sets.New(scanned...)
	for _, m := range r.ps.Members() {
		if r.prober.IsFile(m) && !r.excluded(m) {
			all.Add(m)
		}
	}
	for p := range r.tableTargets {
		if !r.excluded(p) {
			all.Add(p)
		}
	}
	return sets.Sorted(all)
}

func (r *run) recordError(p string, err error) {
	slog.Warn("Cannot read path", logfields.Path(r.relRoot(p)), logfields.Error(err))
	r.rec.IncDocumentErrors()
	r.mu.Lock()
	r.docErrors = append(r.docErrors, DocumentError{Path: r.display(p), Error: err.Error()})
	r.mu.Unlock()
}
