package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// EntityType identifies who produced a mutation.
type EntityType string

const (
	EntityAI    EntityType = "AI"
	EntityHuman EntityType = "HUMAN"
)

// MutationClass categorizes why a mutation happened.
type MutationClass string

const (
	ClassASTRefactor     MutationClass = "AST_REFACTOR"
	ClassIntentEvolution MutationClass = "INTENT_EVOLUTION"
	ClassBugFix          MutationClass = "BUG_FIX"
	ClassUnknown         MutationClass = "UNKNOWN"
)

// Contributor identifies the actor behind a file mutation.
type Contributor struct {
	EntityType      EntityType `json:"entity_type"`
	ModelIdentifier string     `json:"model_identifier"`
}

// Range pins a content hash to the line span it covered when written.
// The hash is position-independent: the range is where the content sat
// at record time, not a constraint on where it must stay.
type Range struct {
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	ContentHash string `json:"content_hash"`
}

// Related is a typed link back to a spec or intent.
type Related struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// FileEntry is one file's portion of an audit record.
type FileEntry struct {
	RelativePath  string        `json:"relative_path"`
	Contributor   Contributor   `json:"contributor"`
	Ranges        []Range       `json:"ranges"`
	MutationClass MutationClass `json:"mutation_class"`
	Related       []Related     `json:"related"`
}

// VCSInfo carries the revision in force when the record was written.
type VCSInfo struct {
	RevisionID string `json:"revision_id"`
}

// AuditRecord is one append-only ledger line. Once appended it is
// immutable; the ledger never rewrites or deletes records.
type AuditRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	// IntentID is null when the mutation happened with no active
	// intent. That should not occur when the gate is enforced, but it
	// must stay representable.
	IntentID *string     `json:"intent_id"`
	VCS      VCSInfo     `json:"vcs"`
	Files    []FileEntry `json:"files"`
}

// HashContent returns the digest of the exact content bytes, tagged
// with the algorithm name. Deterministic and position-independent.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// LineCount counts newline-delimited segments, so "hello" is one line
// and a trailing newline opens a final empty segment.
func LineCount(content []byte) int {
	return strings.Count(string(content), "\n") + 1
}
