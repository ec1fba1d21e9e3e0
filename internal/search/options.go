package search

import "strings"

// TagOpen and TagClose wrap smc's own output when it appears inside a
// conversation (e.g. when the tool is run from within a session). Messages
// containing the open tag are excluded from matching by default so searches
// don't resurface their own prior results.
const (
	TagOpen  = "<smc-cc-cli>"
	TagClose = "</smc-cc-cli>"
)

// Options controls a corpus search: the query terms, how they combine, the
// filter chain, and the shared hit budget.
type Options struct {
	Queries []string
	Regex   bool
	AndMode bool

	Role    string // exact role token
	Tool    string // tool name substring, case-insensitive
	Project string // project name substring, case-insensitive
	After   string // inclusive lower bound, compared lexicographically
	Before  string // inclusive upper bound, compared lexicographically
	Branch  string // git branch substring, case-insensitive

	// MaxResults is the shared hit budget across all files; 0 means
	// unbounded. Concurrent workers may overshoot it slightly.
	MaxResults int

	// IncludeSelf re-admits messages containing smc's own output wrapper.
	IncludeSelf bool

	// ExcludeSession drops files whose session ID starts with this prefix.
	ExcludeSession string
}

// QueryDisplay renders the query terms for headers and status lines.
func (o Options) QueryDisplay() string {
	return strings.Join(o.Queries, ", ")
}

// FilterDisplay renders the active filters as "key=value" pairs, in a fixed
// order, for markdown headers.
func (o Options) FilterDisplay() []string {
	var filters []string
	if o.Role != "" {
		filters = append(filters, "role="+o.Role)
	}
	if o.Tool != "" {
		filters = append(filters, "tool="+o.Tool)
	}
	if o.Project != "" {
		filters = append(filters, "project="+o.Project)
	}
	if o.After != "" {
		filters = append(filters, "after="+o.After)
	}
	if o.Before != "" {
		filters = append(filters, "before="+o.Before)
	}
	if o.Branch != "" {
		filters = append(filters, "branch="+o.Branch)
	}
	return filters
}
