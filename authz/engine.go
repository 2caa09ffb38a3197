// Package authz decides whether a session may perform a mutating
// operation. Every proposed operation runs a fixed two-stage pipeline:
// the gate checks that a mutating operation has an active intent at
// all, the guard checks that the target falls within that intent's
// current scope. Outcomes are explicit allow/deny values, never
// thrown faults, so the caller can read the denial and self-correct.
package authz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"intentgate/intent"
	"intentgate/scope"
	"intentgate/session"
)

// Engine runs the gate and guard stages and owns the declare entry
// point. Construct one per host and inject it; there is no package
// singleton.
type Engine struct {
	intents  *intent.Store
	sessions session.Store
	rules    *RuleSet
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine creates an engine. rules may be nil for DefaultRules.
func NewEngine(intents *intent.Store, sessions session.Store, rules *RuleSet, logger *slog.Logger) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		intents:  intents,
		sessions: sessions,
		rules:    rules,
		logger:   logger,
		now:      time.Now,
	}
}

// Check decides whether the session may run the named operation
// against the target path.
func (e *Engine) Check(ctx context.Context, sessionID, operation, target string) Decision {
	// gate: read-only operations need no authorization
	if e.rules.Kind(operation) != Mutating {
		return allowed()
	}
	auth, ok := e.sessions.Get(sessionID)
	if !ok {
		return denied(ReasonNoActiveIntent,
			"no active intent for this session: declare an intent id before performing mutating operations", nil)
	}

	// guard: re-resolve the intent so scope changes in the source take
	// effect immediately, not at next declare
	it, err := e.intents.FindByID(ctx, auth.IntentID)
	if err != nil {
		return denied(ReasonIntentNotFound,
			fmt.Sprintf("intent %q no longer exists: re-declare a valid intent", auth.IntentID), nil)
	}
	if !scope.Matches(target, it.OwnedScope) {
		return denied(ReasonScopeViolation,
			fmt.Sprintf("%s is outside the scope of intent %s (authorized: %s)",
				target, it.ID, strings.Join(it.OwnedScope, ", ")),
			it.OwnedScope)
	}
	return allowed()
}

// Grant is the declare response: the intent as resolved at activation
// time, returned as structured data for onward display.
type Grant struct {
	IntentID           string        `json:"intent_id"`
	Name               string        `json:"name"`
	Status             intent.Status `json:"status"`
	OwnedScope         []string      `json:"owned_scope"`
	Constraints        []string      `json:"constraints"`
	AcceptanceCriteria []string      `json:"acceptance_criteria"`
	ActivatedAt        time.Time     `json:"activated_at"`
}

// Declare activates the intent for the session, overwriting any prior
// authorization. Declare is exempt from the gate/guard pipeline.
func (e *Engine) Declare(ctx context.Context, sessionID, intentID string) (Grant, error) {
	it, err := e.intents.FindByID(ctx, intentID)
	if err != nil {
		return Grant{}, &DeclareError{
			Reason:  ReasonIntentNotFound,
			Message: fmt.Sprintf("intent %q not found in the intent source", intentID),
		}
	}
	if !it.Status.Activatable() {
		return Grant{}, &DeclareError{
			Reason:  ReasonIntentTerminal,
			Message: fmt.Sprintf("intent %s has status %s and cannot be activated", it.ID, it.Status),
		}
	}

	activatedAt := e.now()
	e.sessions.Set(sessionID, session.Authorization{
		IntentID:           it.ID,
		IntentName:         it.Name,
		OwnedScope:         it.OwnedScope,
		Constraints:        it.Constraints,
		AcceptanceCriteria: it.AcceptanceCriteria,
		ActivatedAt:        activatedAt,
	})
	e.logger.Info("intent declared", "session", sessionID, "intent", it.ID, "scope", it.OwnedScope)

	return Grant{
		IntentID:           it.ID,
		Name:               it.Name,
		Status:             it.Status,
		OwnedScope:         it.OwnedScope,
		Constraints:        it.Constraints,
		AcceptanceCriteria: it.AcceptanceCriteria,
		ActivatedAt:        activatedAt,
	}, nil
}

// Active returns the session's current authorization, if any.
func (e *Engine) Active(sessionID string) (session.Authorization, bool) {
	return e.sessions.Get(sessionID)
}

// Clear drops the session's authorization, returning it to the
// no-intent state. Immediate: the very next gate check sees it.
func (e *Engine) Clear(sessionID string) {
	e.sessions.Delete(sessionID)
	e.logger.Info("session authorization cleared", "session", sessionID)
}
