// Package ledger appends audit records for completed mutations to a
// newline-delimited JSON file. The ledger only witnesses: it never
// authorizes, and a broken ledger never aborts or rolls back the
// mutation it was asked to record.
package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"intentgate/vcs"
)

// ExistsFunc answers whether a target already exists. Injected so
// classification stays testable without real I/O.
type ExistsFunc func(path string) bool

// Mutation describes a completed mutating operation.
type Mutation struct {
	Path        string // path relative to the workspace root
	Content     []byte // exact bytes written
	Contributor Contributor
	// Class overrides the existence heuristic when set. Callers that
	// know the pre-state should call Classify before executing and
	// pass the result here, since afterwards the target always exists.
	Class   MutationClass
	Related []Related
}

// Outcome reports whether a record landed in the ledger. Only logging
// and observability consume the failure variant; the mutation's
// success is never contingent on it.
type Outcome struct {
	Record *AuditRecord
	Err    error
}

// Recorded reports whether the append succeeded.
func (o Outcome) Recorded() bool {
	return o.Err == nil
}

// Ledger is a single-writer append-only audit store.
type Ledger struct {
	path      string
	revisions vcs.RevisionProvider
	exists    ExistsFunc
	logger    *slog.Logger
	now       func() time.Time

	mu sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithExists replaces the filesystem existence probe.
func WithExists(fn ExistsFunc) Option {
	return func(l *Ledger) { l.exists = fn }
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates a ledger writing to path. revisions may be nil, in which
// case every record carries the unknown revision.
func New(path string, revisions vcs.RevisionProvider, logger *slog.Logger, opts ...Option) *Ledger {
	if revisions == nil {
		revisions = vcs.Static("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Ledger{
		path:      path,
		revisions: revisions,
		logger:    logger,
		now:       time.Now,
		exists: func(p string) bool {
			_, err := os.Stat(p)
			return err == nil
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// Classify applies the existence heuristic: a target that does not
// exist yet is new work, an existing one is being reshaped. Must run
// before the mutation lands.
func (l *Ledger) Classify(path string) MutationClass {
	if l.exists(path) {
		return ClassASTRefactor
	}
	return ClassIntentEvolution
}

// Record witnesses a completed mutation under the given intent id
// (empty for none). Failures are logged and folded into the Outcome;
// they never propagate to the caller.
func (l *Ledger) Record(ctx context.Context, intentID string, m Mutation) Outcome {
	rec := l.build(ctx, intentID, m)
	if err := l.append(rec); err != nil {
		l.logger.Error("ledger append failed", "path", l.path, "record", rec.ID, "error", err)
		return Outcome{Record: rec, Err: err}
	}
	l.logger.Debug("mutation recorded", "record", rec.ID, "file", m.Path, "intent", intentID)
	return Outcome{Record: rec}
}

func (l *Ledger) build(ctx context.Context, intentID string, m Mutation) *AuditRecord {
	class := m.Class
	if class == "" {
		class = l.Classify(m.Path)
	}
	var intentRef *string
	if intentID != "" {
		intentRef = &intentID
	}
	related := m.Related
	if related == nil {
		related = []Related{}
	}
	return &AuditRecord{
		ID:        uuid.NewString(),
		Timestamp: l.now().UTC(),
		IntentID:  intentRef,
		VCS:       VCSInfo{RevisionID: l.revisions.CurrentRevision(ctx)},
		Files: []FileEntry{{
			RelativePath: m.Path,
			Contributor:  m.Contributor,
			Ranges: []Range{{
				StartLine:   1,
				EndLine:     LineCount(m.Content),
				ContentHash: HashContent(m.Content),
			}},
			MutationClass: class,
			Related:       related,
		}},
	}
}

// append serializes the record and writes it as one line. One write
// call per record keeps individual lines from interleave-corrupting
// even if another process appends concurrently.
func (l *Ledger) append(rec *AuditRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}
