package models

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed input: a score out of range, criteria
// that are not a list, or a publish attempt with required timeline fields
// missing. Fields names each offending field when that applies.
type ValidationError struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// PhaseViolationError: a role-authorized caller tried an action outside its
// time window. Message is the PhaseMessage naming the blocking boundary.
type PhaseViolationError struct {
	Action  Action `json:"action"`
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
}

func (e *PhaseViolationError) Error() string { return e.Message }

// AuthorizationError: the caller lacks the required role. The role itself
// is resolved by the identity middleware; the engine only reports it.
type AuthorizationError struct {
	Message string `json:"message"`
}

func (e *AuthorizationError) Error() string { return e.Message }

// ConflictError: the requested write contradicts existing state, e.g. a
// second team for the same hackathon or a duplicate registration.
type ConflictError struct {
	Message string `json:"message"`
}

func (e *ConflictError) Error() string { return e.Message }

// PersistenceError wraps a failed or timed-out transactional step. The
// recomputation it guards is idempotent, so callers may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
