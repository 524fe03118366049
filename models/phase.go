package models

import "time"

// Phase is the lifecycle stage derived from a Timeline and an instant.
// It is a computed projection — the stored Status column is only a cache.
type Phase string

const (
	PhaseDraft              Phase = "draft"
	PhaseUpcoming           Phase = "upcoming"
	PhaseRegistrationOpen   Phase = "registration-open"
	PhaseRegistrationClosed Phase = "registration-closed"
	PhaseHacking            Phase = "hacking"
	PhaseJudging            Phase = "judging"
	PhaseCompleted          Phase = "completed"
	PhaseCancelled          Phase = "cancelled"
)

// phaseOrder ranks the calendar-driven phases. Draft and cancelled sit
// outside the order: they are declared, not reached by the clock.
var phaseOrder = map[Phase]int{
	PhaseUpcoming:           1,
	PhaseRegistrationOpen:   2,
	PhaseRegistrationClosed: 3,
	PhaseHacking:            4,
	PhaseJudging:            5,
	PhaseCompleted:          6,
}

// Rank returns the position of a calendar phase in the lifecycle order,
// or 0 for draft/cancelled.
func (p Phase) Rank() int { return phaseOrder[p] }

// started reports whether a milestone has begun: boundaries are inclusive
// of the lower bound, so an instant equal to the start belongs to the
// window it opens.
func started(at *time.Time, now time.Time) bool {
	return at != nil && !now.Before(*at)
}

// ended reports whether a milestone is over: exclusive of the upper bound,
// so an instant equal to the end already belongs to the next window.
func ended(at *time.Time, now time.Time) bool {
	return at != nil && !now.Before(*at)
}

// ResolvePhase derives the current phase from the timeline and an explicit
// clock reading. It is total: out-of-order or missing timestamps degrade to
// the most conservative phase instead of failing. First matching rule wins.
func ResolvePhase(t Timeline, now time.Time) Phase {
	// Cancellation is terminal and overrides every timestamp.
	if t.DeclaredStatus == StatusCancelled {
		return PhaseCancelled
	}
	if t.DeclaredStatus == StatusDraft {
		return PhaseDraft
	}
	if !started(t.RegistrationStart, now) {
		return PhaseUpcoming
	}
	if t.RegistrationEnd != nil && !ended(t.RegistrationEnd, now) {
		return PhaseRegistrationOpen
	}
	if !started(t.HackingStart, now) {
		return PhaseRegistrationClosed
	}
	if !ended(t.HackingEnd, now) {
		return PhaseHacking
	}
	if !ended(t.JudgingEnd, now) {
		return PhaseJudging
	}
	return PhaseCompleted
}
