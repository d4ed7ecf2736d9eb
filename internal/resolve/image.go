package resolve

import (
	"path/filepath"
	"slices"
	"strings"
)

// ResolveImage resolves an image target (already normalised) referenced from
// the document or stylesheet at sourcePath. Relative targets are tried
// against the source directory and then each content root; root-relative
// targets against the source's content root and then each content root.
func (r *Resolver) ResolveImage(sourcePath, target string) Result {
	sourcePath = filepath.Clean(sourcePath)
	rel := filepath.FromSlash(strings.TrimLeft(target, "/"))

	var bases []string
	if !strings.HasPrefix(target, "/") {
		bases = append(bases, filepath.Dir(sourcePath))
	}
	if loc, ok := r.ps.Locate(sourcePath); ok {
		bases = append(bases, loc.ContentRoot)
	}
	for _, root := range r.contentRoots {
		if !slices.Contains(bases, root) {
			bases = append(bases, root)
		}
	}

	for i, base := range bases {
		candidate := filepath.Clean(filepath.Join(base, rel))
		if r.prober.IsFile(candidate) {
			phase := PhaseContentRoot
			if i == 0 && !strings.HasPrefix(target, "/") {
				phase = PhaseParentDir
			}
			return Result{Path: candidate, Phase: phase}
		}
	}
	return Broken
}
