package audit

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/navaudit/internal/util/sets"
)

func (r *run) findings(report *Report, c corpus, results []docResult, stylesheetImages []string) {
	for _, res := range results {
		if res.err != nil {
			r.recordError(res.path, res.err)
		}
	}

	if r.selected.Has(CategoryNavMissing) {
		report.NavMissing = r.navMissing()
		report.Counts[CategoryNavMissing] = len(report.NavMissing)
	}
	if r.selected.Has(CategoryGhost) {
		report.Ghost = r.ghosts(c.docs, results)
		report.Counts[CategoryGhost] = len(report.Ghost)
	}
	if r.selected.Has(CategoryHelpMissing) {
		report.HelpMissing = r.displayList(nil, r.helpMissing)
		report.Counts[CategoryHelpMissing] = len(report.HelpMissing)
	}
	if r.selected.Has(CategoryBrokenLinks) {
		report.BrokenLinks = r.brokenLinks(results)
		report.Counts[CategoryBrokenLinks] = len(report.BrokenLinks)
	}
	if r.selected.Has(CategoryMissingImages) {
		report.MissingImages = r.missingImages(results)
		report.Counts[CategoryMissingImages] = len(report.MissingImages)
	}
	if r.selected.Has(CategoryOrphanImages) {
		report.OrphanImages = r.orphanImages(c.images, results, stylesheetImages)
		report.Counts[CategoryOrphanImages] = len(report.OrphanImages)
	}
	if r.selected.Has(CategoryFootnotes) {
		var paths []string
		for _, res := range results {
			if res.footnotes {
				paths = append(paths, res.path)
			}
		}
		report.Footnotes = r.displayList(paths, nil)
		report.Counts[CategoryFootnotes] = len(report.Footnotes)
	}
	if r.selected.Has(CategoryNavDuplicates) {
		report.NavDuplicates = r.navDuplicates()
		report.Counts[CategoryNavDuplicates] = len(report.NavDuplicates)
	}
}

func (r *run) navMissing() []string {
	var missing []string
	for _, m := range r.ps.Members() {
		if !r.prober.IsFile(m) {
			missing = append(missing, m)
		}
	}
	return r.displayList(missing, nil)
}

// ghosts returns the scanned documents that cannot be reached from the nav
// or the reference table by following resolved links. Print variants are
// never ghosts.
func (r *run) ghosts(scanned []string, results []docResult) []string {
	edges := make(map[string][]string, len(results))
	for _, res := range results {
		for _, l := range res.links {
			if l.result.Resolved() {
				edges[res.path] = append(edges[res.path], l.result.Path)
			}
		}
	}

	reached := sets.New[string]()
	var queue []string
	push := func(p string) {
		if !reached.Has(p) {
			reached.Add(p)
			queue = append(queue, p)
		}
	}
	roots := sets.New(r.ps.Members()...)
	roots.AddAll(r.tableTargets)
	for _, p := range sets.Sorted(roots) {
		push(p)
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, next := range edges[p] {
			push(next)
		}
	}

	var ghosts []string
	for _, doc := range scanned {
		if reached.Has(doc) {
			continue
		}
		if r.cfg.PrintSuffix != "" && strings.HasSuffix(filepath.Base(doc), r.cfg.PrintSuffix) {
			continue
		}
		ghosts = append(ghosts, doc)
	}
	return r.displayList(ghosts, nil)
}

func (r *run) brokenLinks(results []docResult) []BrokenLink {
	var out []BrokenLink
	for _, res := range results {
		if r.excluded(res.path) {
			continue
		}
		fromTable := r.tableTargets.Has(res.path)
		for _, l := range res.links {
			if l.result.Resolved() {
				continue
			}
			out = append(out, BrokenLink{
				Source:            r.display(res.path),
				Target:            l.ref.Target,
				Line:              l.ref.Line,
				FromExternalTable: fromTable,
			})
		}
	}
	slices.SortFunc(out, func(a, b BrokenLink) int {
		return cmp.Or(cmp.Compare(a.Source, b.Source), cmp.Compare(a.Target, b.Target), cmp.Compare(a.Line, b.Line))
	})
	return out
}

func (r *run) missingImages(results []docResult) []MissingImage {
	var out []MissingImage
	for _, res := range results {
		if r.excluded(res.path) {
			continue
		}
		for _, img := range res.images {
			if img.result.Resolved() {
				continue
			}
			out = append(out, MissingImage{Source: r.display(res.path), Target: img.ref.Target, Line: img.ref.Line})
		}
	}
	slices.SortFunc(out, func(a, b MissingImage) int {
		return cmp.Or(cmp.Compare(a.Source, b.Source), cmp.Compare(a.Target, b.Target), cmp.Compare(a.Line, b.Line))
	})
	return out
}

// orphanImages returns the scanned images that no document or stylesheet
// references.
func (r *run) orphanImages(images []string, results []docResult, stylesheetImages []string) []string {
	referenced := sets.New(stylesheetImages...)
	for _, res := range results {
		for _, img := range res.images {
			if img.result.Resolved() {
				referenced.Add(img.result.Path)
			}
		}
	}
	orphans := sets.New(images...).Difference(referenced)
	return r.displayList(sets.Sorted(orphans), nil)
}

func (r *run) navDuplicates() []NavDuplicate {
	var out []NavDuplicate
	for _, d := range r.ps.Duplicates() {
		if r.excluded(d.FSPath) {
			continue
		}
		out = append(out, NavDuplicate{Path: r.display(d.FSPath), Trails: d.Trails})
	}
	slices.SortFunc(out, func(a, b NavDuplicate) int { return cmp.Compare(a.Path, b.Path) })
	return out
}

// displayList renders filesystem paths for display, drops excluded ones,
// appends already-rendered items, and returns the sorted, deduplicated
// result.
func (r *run) displayList(paths []string, rendered []string) []string {
	out := sets.New[string]()
	for _, p := range paths {
		if !r.excluded(p) {
			out.Add(r.display(p))
		}
	}
	for _, s := range rendered {
		if !r.excludedDisplay(s) {
			out.Add(s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return sets.Sorted(out)
}

func (r *run) excludedDisplay(s string) bool {
	s = strings.ToLower(s)
	for _, sub := range r.cfg.Exclude {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func (r *run) sortedErrors() []DocumentError {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.docErrors)
	slices.SortFunc(out, func(a, b DocumentError) int { return cmp.Compare(a.Path, b.Path) })
	return out
}
