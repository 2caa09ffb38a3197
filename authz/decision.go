package authz

// Reason identifies why a check or declare was refused.
type Reason string

const (
	ReasonNoActiveIntent Reason = "NO_ACTIVE_INTENT"
	ReasonIntentNotFound Reason = "INTENT_NOT_FOUND"
	ReasonIntentTerminal Reason = "INTENT_TERMINAL"
	ReasonScopeViolation Reason = "SCOPE_VIOLATION"
)

// Decision is the outcome of a pre-action check. Denials carry enough
// context for an autonomous caller to self-correct.
type Decision struct {
	Allowed     bool   `json:"allowed"`
	Reason      Reason `json:"reason,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	// AuthorizedScope is populated on scope violations so the caller
	// can see which patterns the active intent actually grants.
	AuthorizedScope []string `json:"authorized_scope,omitempty"`
}

func allowed() Decision {
	return Decision{Allowed: true}
}

func denied(reason Reason, explanation string, authorizedScope []string) Decision {
	return Decision{
		Reason:          reason,
		Explanation:     explanation,
		AuthorizedScope: authorizedScope,
	}
}

// DeclareError is a refused declare call.
type DeclareError struct {
	Reason  Reason
	Message string
}

func (e *DeclareError) Error() string {
	return e.Message
}
