package mkdocs

import "errors"

// Sentinel errors for navigation parsing and merging. They are wrapped in
// config-category classified errors.
var (
	// ErrMissingNav indicates the declaration has no top-level nav list.
	ErrMissingNav = errors.New("navigation declaration has no nav list")

	// ErrUnknownEntry indicates a nav item matched none of the supported shapes.
	ErrUnknownEntry = errors.New("unrecognized nav entry")

	// ErrIncludeCycle indicates an include chain returned to a declaration already being merged.
	ErrIncludeCycle = errors.New("include cycle detected")

	// ErrDanglingInclude indicates an include points at a file that does not exist.
	ErrDanglingInclude = errors.New("include target does not exist")

	// ErrUnreadable indicates a declaration file could not be read or decoded.
	ErrUnreadable = errors.New("navigation declaration unreadable")
)
