package audit

import (
	"slices"

	"git.home.luguber.info/inful/navaudit/internal/foundation"
	ferrors "git.home.luguber.info/inful/navaudit/internal/foundation/errors"
)

// Category names a class of finding.
type Category string

const (
	CategoryNavMissing    Category = "nav_missing"
	CategoryGhost         Category = "ghost"
	CategoryHelpMissing   Category = "help_missing"
	CategoryBrokenLinks   Category = "broken_links"
	CategoryMissingImages Category = "missing_images"
	CategoryOrphanImages  Category = "orphan_images"

	// Opt-in categories, computed only when requested.
	CategoryFootnotes     Category = "footnotes"
	CategoryNavDuplicates Category = "nav_duplicates"
)

// DefaultCategories are computed when no category is requested.
var DefaultCategories = []Category{
	CategoryNavMissing,
	CategoryGhost,
	CategoryHelpMissing,
	CategoryBrokenLinks,
	CategoryMissingImages,
	CategoryOrphanImages,
}

// AllCategories lists every category in report order.
var AllCategories = append(slices.Clone(DefaultCategories), CategoryFootnotes, CategoryNavDuplicates)

var categoryNames = func() *foundation.Normalizer[Category] {
	m := make(map[string]Category, len(AllCategories))
	for _, c := range AllCategories {
		m[string(c)] = c
	}
	return foundation.NewNormalizer(m)
}()

// ParseCategory accepts a category name in any case with either '_' or '-'
// separators.
func ParseCategory(name string) (Category, error) {
	c, err := categoryNames.NormalizeWithError(name)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryValidation, "unknown audit category").
			WithContext("category", name).Build()
	}
	return c, nil
}

// selection returns the requested categories in report order, or the
// defaults when none are requested.
func selection(requested []Category) []Category {
	if len(requested) == 0 {
		return slices.Clone(DefaultCategories)
	}
	var out []Category
	for _, c := range AllCategories {
		if slices.Contains(requested, c) {
			out = append(out, c)
		}
	}
	return out
}
