package resolve

// Phase identifies which resolution strategy produced a result.
type Phase int

const (
	// PhaseNone means the reference is broken.
	PhaseNone Phase = iota
	// PhaseNavPair resolves against the source's URL trail in the nav map.
	PhaseNavPair
	// PhaseURLSpace maps the link through rendered URL space back to disk.
	PhaseURLSpace
	// PhaseSubsite retries the nav-relative URL under every content root.
	PhaseSubsite
	// PhaseContentRoot resolves against the source's own content root.
	PhaseContentRoot
	// PhaseParentDir resolves against the source's containing directory.
	PhaseParentDir
	// PhaseExternal marks references that are never checked.
	PhaseExternal
)

func (p Phase) String() string {
	switch p {
	case PhaseNavPair:
		return "nav_pair"
	case PhaseURLSpace:
		return "url_space"
	case PhaseSubsite:
		return "subsite"
	case PhaseContentRoot:
		return "content_root"
	case PhaseParentDir:
		return "parent_dir"
	case PhaseExternal:
		return "external"
	default:
		return "broken"
	}
}

// Model names the base used by a URL-space resolution.
type Model int

const (
	ModelNone Model = iota
	// ModelPageAsDirectory treats the source page's URL as a directory.
	ModelPageAsDirectory
	// ModelParentDirectory uses the parent of the source page's URL.
	ModelParentDirectory
)

func (m Model) String() string {
	switch m {
	case ModelPageAsDirectory:
		return "page_as_directory"
	case ModelParentDirectory:
		return "parent_directory"
	default:
		return ""
	}
}

// Result is the outcome of resolving one reference.
type Result struct {
	// Path is the absolute filesystem target, empty when broken or external.
	Path  string
	Phase Phase
	Model Model
}

// Resolved reports whether the reference was found (external references
// count as resolved).
func (r Result) Resolved() bool { return r.Phase != PhaseNone }

// Broken is the zero Result.
var Broken = Result{}
