package audit

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/navaudit/internal/logfields"
	"git.home.luguber.info/inful/navaudit/internal/markdown"
	"git.home.luguber.info/inful/navaudit/internal/resolve"
)

// resolvedRef is one reference of a document together with its resolution.
type resolvedRef struct {
	ref    markdown.Reference
	result resolve.Result
}

// docResult is the outcome of processing one document. Results are written
// by index so no locking is needed between workers.
type docResult struct {
	path      string
	links     []resolvedRef
	images    []resolvedRef
	footnotes bool
	err       error
}

// processDocuments extracts and resolves the references of every document
// with bounded parallelism. The returned slice is in input order.
func (r *run) processDocuments(ctx context.Context, docs []string) ([]docResult, error) {
	results := make([]docResult, len(docs))

	limit := r.cfg.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.processDocument(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *run) processDocument(path string) docResult {
	res := docResult{path: path}

	// #nosec G304 -- documents come from the audited tree
	content, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}
	doc, err := markdown.Extract(content, markdown.Options{})
	if err != nil {
		res.err = err
		return res
	}
	res.footnotes = doc.Footnotes

	for _, ref := range doc.Links {
		link, ok := markdown.Normalise(ref.Target, r.cfg.Extension)
		if !ok || link.External {
			continue
		}
		result := r.resolver.Resolve(path, link)
		r.traceLink(path, ref, result)
		res.links = append(res.links, resolvedRef{ref: ref, result: result})
	}
	for _, ref := range doc.Images {
		target, ok := markdown.NormaliseImage(ref.Target)
		if !ok {
			continue
		}
		res.images = append(res.images, resolvedRef{ref: ref, result: r.resolver.ResolveImage(path, target)})
	}
	return res
}

func (r *run) traceLink(source string, ref markdown.Reference, result resolve.Result) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{
		logfields.Source(r.display(source)),
		logfields.Link(ref.Target),
		logfields.Line(ref.Line),
		logfields.Phase(result.Phase.String()),
	}
	if result.Resolved() {
		slog.Debug("Resolved link", append(attrs, logfields.Path(r.display(result.Path)))...)
		return
	}
	slog.Debug("Broken link", attrs...)
}

// scanStylesheets resolves every url(...) image reference of the stylesheets
// and returns the image files they name.
func (r *run) scanStylesheets(stylesheets []string) []string {
	var found []string
	for _, sheet := range stylesheets {
		// #nosec G304 -- stylesheets come from the audited tree
		content, err := os.ReadFile(sheet)
		if err != nil {
			r.recordError(sheet, err)
			continue
		}
		for _, ref := range markdown.ExtractStylesheet(content) {
			target, ok := markdown.NormaliseImage(ref.Target)
			if !ok {
				continue
			}
			if res := r.resolver.ResolveImage(sheet, target); res.Resolved() {
				found = append(found, res.Path)
			}
		}
	}
	return found
}
