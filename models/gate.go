package models

import (
	"fmt"
	"time"
)

// Action names a phase-sensitive operation checked against the gate.
type Action string

const (
	ActionFormTeams Action = "form_teams"
	ActionSubmit    Action = "submit"
	ActionJudge     Action = "judge"
)

// CanFormTeams reports whether teams may be created or changed: any time
// from registration opening until the hacking window closes.
func CanFormTeams(t Timeline, now time.Time) bool {
	switch ResolvePhase(t, now) {
	case PhaseRegistrationOpen, PhaseRegistrationClosed, PhaseHacking:
		return true
	}
	return false
}

// CanSubmit reports whether a project may be submitted. The submission
// deadline is a hard stop stricter than the phase: even while the phase is
// still hacking, an instant at or past the deadline closes submissions.
func CanSubmit(t Timeline, now time.Time) bool {
	switch ResolvePhase(t, now) {
	case PhaseHacking, PhaseJudging:
	default:
		return false
	}
	if t.SubmissionDeadline != nil && ended(t.SubmissionDeadline, now) {
		return false
	}
	return true
}

// CanJudge reports whether judges may record scores.
func CanJudge(t Timeline, now time.Time) bool {
	return ResolvePhase(t, now) == PhaseJudging
}

// PhaseMessage explains why an action is blocked (or allowed) at now in
// terms of the boundary that actually decides it. Output is deterministic
// for a fixed (timeline, action, now); timestamps render as UTC RFC 3339 so
// no locale leaks in — presentation may reformat.
func PhaseMessage(t Timeline, action Action, now time.Time) string {
	phase := ResolvePhase(t, now)

	switch phase {
	case PhaseCancelled:
		return "This hackathon has been cancelled."
	case PhaseDraft:
		return "This hackathon has not been published yet."
	}

	switch action {
	case ActionFormTeams:
		if CanFormTeams(t, now) {
			return "Team formation is open."
		}
		if phase == PhaseUpcoming {
			return "Team formation opens when registration starts" + onDate(t.RegistrationStart) + "."
		}
		return "Team formation closed at hacking end" + onDate(t.HackingEnd) + "."
	case ActionSubmit:
		if CanSubmit(t, now) {
			return "Submissions are open."
		}
		if phase.Rank() > 0 && phase.Rank() < PhaseHacking.Rank() {
			return "Submissions open at hacking start" + onDate(t.HackingStart) + "."
		}
		if t.SubmissionDeadline != nil && ended(t.SubmissionDeadline, now) {
			return "The submission deadline passed" + onDate(t.SubmissionDeadline) + "."
		}
		return "Submissions closed at judging end" + onDate(t.JudgingEnd) + "."
	case ActionJudge:
		if CanJudge(t, now) {
			return "Judging is open."
		}
		if phase == PhaseCompleted {
			return "Judging closed" + onDate(t.JudgingEnd) + "."
		}
		return "Judging opens" + onDate(t.JudgingStart) + "."
	}
	return fmt.Sprintf("Action %q is not allowed during the %s phase.", action, phase)
}

func onDate(at *time.Time) string {
	if at == nil {
		return ""
	}
	return " on " + at.UTC().Format(time.RFC3339)
}
