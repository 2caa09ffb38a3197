package vcs

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatic(t *testing.T) {
	a := assert.New(t)

	a.Equal("rev42", Static("rev42").CurrentRevision(context.Background()))
	a.Equal(Unknown, Static("").CurrentRevision(context.Background()))
}

func TestGit_NoRepository(t *testing.T) {
	a := assert.New(t)

	// given - a directory that is not a git checkout
	g := NewGit(t.TempDir(), slog.Default())

	// when/then - best-effort: unknown, never an error
	a.Equal(Unknown, g.CurrentRevision(context.Background()))
}

func TestGit_MissingDirectory(t *testing.T) {
	a := assert.New(t)

	// given
	g := NewGit("/nonexistent_dir_for_vcs_test", slog.Default())

	// when/then
	a.Equal(Unknown, g.CurrentRevision(context.Background()))
}
