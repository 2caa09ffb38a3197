// Package intent loads authorization grants from the declarative
// intent source and answers point lookups by id. The source is
// human-edited; the store never writes to it.
package intent

// Status of an intent in its external lifecycle.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusBlocked    Status = "BLOCKED"
	StatusCompleted  Status = "COMPLETED"
	StatusAbandoned  Status = "ABANDONED"
)

// Terminal reports whether the intent can never be worked on again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Activatable reports whether a declare call may activate the intent.
func (s Status) Activatable() bool {
	return s == StatusPending || s == StatusInProgress
}

// Intent is a named authorization grant scoping what an actor may
// mutate. Constraints and acceptance criteria are advisory text passed
// through for display; only OwnedScope is enforced mechanically.
type Intent struct {
	ID                 string   `yaml:"id" json:"id"`
	Name               string   `yaml:"name" json:"name"`
	Status             Status   `yaml:"status" json:"status"`
	OwnedScope         []string `yaml:"owned_scope" json:"owned_scope"`
	Constraints        []string `yaml:"constraints" json:"constraints"`
	AcceptanceCriteria []string `yaml:"acceptance_criteria" json:"acceptance_criteria"`
}
