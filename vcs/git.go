// Package vcs resolves the current revision identifier of the
// workspace. Resolution is strictly best-effort: the ledger must never
// block or fail because no version control is available.
package vcs

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Unknown is reported when no revision can be determined.
const Unknown = "unknown"

// RevisionProvider supplies the workspace's current revision id.
type RevisionProvider interface {
	CurrentRevision(ctx context.Context) string
}

// Git resolves revisions by shelling out to the git binary.
type Git struct {
	workDir string
	logger  *slog.Logger
}

// NewGit creates a provider for the given working directory.
func NewGit(workDir string, logger *slog.Logger) *Git {
	if logger == nil {
		logger = slog.Default()
	}
	return &Git{workDir: workDir, logger: logger}
}

// CurrentRevision returns the HEAD commit hash, or Unknown on any
// failure. A slow or wedged git cannot hold up the caller beyond the
// bounded timeout.
func (g *Git) CurrentRevision(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = g.workDir
	out, err := cmd.Output()
	if err != nil {
		g.logger.Debug("revision lookup failed", "dir", g.workDir, "error", err)
		return Unknown
	}
	rev := strings.TrimSpace(string(out))
	if rev == "" {
		return Unknown
	}
	return rev
}

// Static always reports the same revision. Useful in tests and for
// hosts running without a checkout.
type Static string

// CurrentRevision returns the static value, or Unknown if empty.
func (s Static) CurrentRevision(context.Context) string {
	if s == "" {
		return Unknown
	}
	return string(s)
}
