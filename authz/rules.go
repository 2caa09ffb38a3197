package authz

// Kind classifies an operation's effect on persistent state.
type Kind int

const (
	ReadOnly Kind = iota // never gated
	Mutating             // requires an active intent
)

// RuleSet classifies operations by name.
type RuleSet struct {
	kinds   map[string]Kind
	unknown Kind
}

// Kind returns the classification for the named operation.
func (r *RuleSet) Kind(operation string) Kind {
	if k, ok := r.kinds[operation]; ok {
		return k
	}
	return r.unknown
}

// DefaultRules classifies the standard agent tool set. Unknown
// operations count as mutating so nothing bypasses the gate by being
// unnamed.
func DefaultRules() *RuleSet {
	return &RuleSet{
		kinds: map[string]Kind{
			// read-only tools pass the gate untouched
			"Read":      ReadOnly,
			"Glob":      ReadOnly,
			"Grep":      ReadOnly,
			"WebSearch": ReadOnly,
			"WebFetch":  ReadOnly,
			// mutating tools require a declared intent
			"Write":        Mutating,
			"Edit":         Mutating,
			"NotebookEdit": Mutating,
			"Bash":         Mutating,
		},
		unknown: Mutating,
	}
}
