package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intentgate/vcs"
)

func newTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".intentgate", "ledger.jsonl")
	return New(path, vcs.Static("abc123"), slog.Default(), opts...)
}

func TestHashContent_Deterministic(t *testing.T) {
	a := assert.New(t)

	// when - same bytes twice, different bytes once
	h1 := HashContent([]byte("hello"))
	h2 := HashContent([]byte("hello"))
	h3 := HashContent([]byte("hello "))

	// then
	a.Equal(h1, h2)
	a.NotEqual(h1, h3)
	a.Equal("sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", h1)
}

func TestLineCount(t *testing.T) {
	a := assert.New(t)

	a.Equal(1, LineCount([]byte("hello")))
	a.Equal(2, LineCount([]byte("a\nb")))
	a.Equal(3, LineCount([]byte("a\nb\n")))
	a.Equal(1, LineCount([]byte("")))
}

func TestLedger_Record_NewFile(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given - the target does not exist yet
	led := newTestLedger(t, WithExists(func(string) bool { return false }))

	// when
	outcome := led.Record(context.Background(), "INT-001", Mutation{
		Path:        "docs/readme.md",
		Content:     []byte("hello"),
		Contributor: Contributor{EntityType: EntityAI, ModelIdentifier: "test-model"},
	})

	// then
	r.True(outcome.Recorded())
	rec := outcome.Record
	a.NotEmpty(rec.ID)
	r.NotNil(rec.IntentID)
	a.Equal("INT-001", *rec.IntentID)
	a.Equal("abc123", rec.VCS.RevisionID)
	r.Len(rec.Files, 1)
	f := rec.Files[0]
	a.Equal("docs/readme.md", f.RelativePath)
	a.Equal(ClassIntentEvolution, f.MutationClass)
	r.Len(f.Ranges, 1)
	a.Equal(1, f.Ranges[0].StartLine)
	a.Equal(1, f.Ranges[0].EndLine)
	a.Equal("sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", f.Ranges[0].ContentHash)
}

func TestLedger_Record_ExistingFile(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given - the target already existed
	led := newTestLedger(t, WithExists(func(string) bool { return true }))

	// when
	outcome := led.Record(context.Background(), "INT-001", Mutation{
		Path:    "src/auth/login.ts",
		Content: []byte("refactored\ncontent\n"),
	})

	// then
	r.True(outcome.Recorded())
	f := outcome.Record.Files[0]
	a.Equal(ClassASTRefactor, f.MutationClass)
	a.Equal(3, f.Ranges[0].EndLine)
}

func TestLedger_Record_ClassOverride(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given - the caller already classified the mutation
	led := newTestLedger(t, WithExists(func(string) bool { return true }))

	// when
	outcome := led.Record(context.Background(), "INT-001", Mutation{
		Path:    "src/auth/token.ts",
		Content: []byte("fix"),
		Class:   ClassBugFix,
	})

	// then - the override wins over the heuristic
	r.True(outcome.Recorded())
	a.Equal(ClassBugFix, outcome.Record.Files[0].MutationClass)
}

func TestLedger_Record_NoActiveIntent(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given
	led := newTestLedger(t)

	// when - recorded with no intent id
	outcome := led.Record(context.Background(), "", Mutation{
		Path:    "orphan.txt",
		Content: []byte("x"),
	})

	// then - representable as null, not dropped
	r.True(outcome.Recorded())
	a.Nil(outcome.Record.IntentID)

	data, err := os.ReadFile(led.Path())
	r.NoError(err)
	a.Contains(string(data), `"intent_id":null`)
}

func TestLedger_AppendMonotonic(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given
	led := newTestLedger(t)

	// when - several records
	for i := 0; i < 5; i++ {
		outcome := led.Record(context.Background(), "INT-001", Mutation{
			Path:    "file.txt",
			Content: []byte(strings.Repeat("x", i+1)),
		})
		r.True(outcome.Recorded())
	}

	// then - exactly five well-formed lines, each independently parseable
	data, err := os.ReadFile(led.Path())
	r.NoError(err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	r.Len(lines, 5)
	for _, line := range lines {
		var rec AuditRecord
		a.NoError(json.Unmarshal([]byte(line), &rec))
	}
}

func TestLedger_Record_FailureSwallowed(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given - the ledger path is unwritable (it is a directory)
	dir := t.TempDir()
	led := New(dir, vcs.Static(""), slog.Default())

	// when - record must return normally, not panic or propagate
	outcome := led.Record(context.Background(), "INT-001", Mutation{
		Path:    "file.txt",
		Content: []byte("x"),
	})

	// then - failure is visible in the outcome, nowhere else
	a.False(outcome.Recorded())
	a.Error(outcome.Err)
	a.NotNil(outcome.Record)

	// then - a failed call appends zero lines
	entries, err := os.ReadDir(dir)
	r.NoError(err)
	a.Empty(entries)
}

func TestLedger_CreatesContainer(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given - the .intentgate directory does not exist yet
	led := newTestLedger(t)
	_, err := os.Stat(filepath.Dir(led.Path()))
	r.True(os.IsNotExist(err))

	// when
	outcome := led.Record(context.Background(), "INT-001", Mutation{Path: "f", Content: []byte("x")})

	// then - created idempotently on first append
	r.True(outcome.Recorded())
	_, err = os.Stat(led.Path())
	a.NoError(err)
}

func TestLedger_UnknownRevision(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given - no revision provider configured
	path := filepath.Join(t.TempDir(), "ledger.jsonl")
	led := New(path, nil, slog.Default())

	// when
	outcome := led.Record(context.Background(), "INT-001", Mutation{Path: "f", Content: []byte("x")})

	// then
	r.True(outcome.Recorded())
	a.Equal("unknown", outcome.Record.VCS.RevisionID)
}

func TestLedger_WithClock(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	// given - a pinned clock
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	led := newTestLedger(t, WithClock(func() time.Time { return at }))

	// when
	outcome := led.Record(context.Background(), "INT-001", Mutation{Path: "f", Content: []byte("x")})

	// then
	r.True(outcome.Recorded())
	a.Equal(at, outcome.Record.Timestamp)
}
