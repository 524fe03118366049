package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanFormTeams_Windows(t *testing.T) {
	timeline := fullTimeline(t)

	tests := []struct {
		name string
		now  string
		want bool
	}{
		{name: "before registration", now: "2024-12-01T00:00:00Z", want: false},
		{name: "registration open", now: "2025-01-05T00:00:00Z", want: true},
		{name: "during hacking", now: "2025-01-15T00:00:00Z", want: true},
		{name: "at hacking end", now: "2025-01-20T00:00:00Z", want: false},
		{name: "after judging", now: "2025-02-01T00:00:00Z", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanFormTeams(timeline, ts(t, tt.now)))
		})
	}
}

func TestCanFormTeams_RegistrationClosedGap(t *testing.T) {
	timeline := fullTimeline(t)
	timeline.HackingStart = tp(t, "2025-01-12T00:00:00Z")

	// Teams may still form between registration close and hacking start.
	assert.True(t, CanFormTeams(timeline, ts(t, "2025-01-11T00:00:00Z")))
}

func TestCanSubmit_DeadlineIsStricterThanPhase(t *testing.T) {
	timeline := fullTimeline(t)
	// Deadline falls inside the hacking window.
	timeline.SubmissionDeadline = tp(t, "2025-01-18T00:00:00Z")

	now := ts(t, "2025-01-19T00:00:00Z")
	require.Equal(t, PhaseHacking, ResolvePhase(timeline, now))
	assert.False(t, CanSubmit(timeline, now), "deadline passed while still in hacking")

	// At exactly the deadline instant, submissions are closed.
	assert.False(t, CanSubmit(timeline, ts(t, "2025-01-18T00:00:00Z")))
	assert.True(t, CanSubmit(timeline, ts(t, "2025-01-17T23:59:59Z")))
}

func TestCanSubmit_NoDeadlineFallsBackToPhase(t *testing.T) {
	timeline := fullTimeline(t)
	timeline.SubmissionDeadline = nil

	assert.True(t, CanSubmit(timeline, ts(t, "2025-01-15T00:00:00Z")), "hacking")
	assert.True(t, CanSubmit(timeline, ts(t, "2025-01-22T00:00:00Z")), "judging still accepts without deadline")
	assert.False(t, CanSubmit(timeline, ts(t, "2025-02-01T00:00:00Z")), "completed")
	assert.False(t, CanSubmit(timeline, ts(t, "2025-01-05T00:00:00Z")), "registration")
}

func TestCanJudge_OnlyDuringJudging(t *testing.T) {
	timeline := fullTimeline(t)

	assert.False(t, CanJudge(timeline, ts(t, "2025-01-15T00:00:00Z")))
	assert.True(t, CanJudge(timeline, ts(t, "2025-01-20T00:00:00Z")))
	assert.True(t, CanJudge(timeline, ts(t, "2025-01-24T23:59:59Z")))
	assert.False(t, CanJudge(timeline, ts(t, "2025-01-25T00:00:00Z")))
}

func TestGates_CancelledDeniesEverything(t *testing.T) {
	timeline := fullTimeline(t)
	timeline.DeclaredStatus = StatusCancelled
	now := ts(t, "2025-01-15T00:00:00Z")

	assert.False(t, CanFormTeams(timeline, now))
	assert.False(t, CanSubmit(timeline, now))
	assert.False(t, CanJudge(timeline, now))
	assert.Equal(t, "This hackathon has been cancelled.", PhaseMessage(timeline, ActionSubmit, now))
}

func TestPhaseMessage_NamesTheBlockingBoundary(t *testing.T) {
	timeline := fullTimeline(t)

	tests := []struct {
		name   string
		action Action
		now    string
		want   string
	}{
		{
			name:   "team formation closed at hacking end",
			action: ActionFormTeams,
			now:    "2025-01-22T00:00:00Z",
			want:   "Team formation closed at hacking end on 2025-01-20T00:00:00Z.",
		},
		{
			name:   "team formation not yet open",
			action: ActionFormTeams,
			now:    "2024-12-01T00:00:00Z",
			want:   "Team formation opens when registration starts on 2025-01-01T00:00:00Z.",
		},
		{
			name:   "judging not open yet",
			action: ActionJudge,
			now:    "2025-01-15T00:00:00Z",
			want:   "Judging opens on 2025-01-20T00:00:00Z.",
		},
		{
			name:   "judging closed after the end",
			action: ActionJudge,
			now:    "2025-02-01T00:00:00Z",
			want:   "Judging closed on 2025-01-25T00:00:00Z.",
		},
		{
			name:   "submissions before hacking",
			action: ActionSubmit,
			now:    "2025-01-05T00:00:00Z",
			want:   "Submissions open at hacking start on 2025-01-10T00:00:00Z.",
		},
		{
			name:   "submission deadline passed",
			action: ActionSubmit,
			now:    "2025-01-22T00:00:00Z",
			want:   "The submission deadline passed on 2025-01-20T00:00:00Z.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PhaseMessage(timeline, tt.action, ts(t, tt.now))
			assert.Equal(t, tt.want, got)
			// Deterministic: same inputs, same text.
			assert.Equal(t, got, PhaseMessage(timeline, tt.action, ts(t, tt.now)))
		})
	}
}

// TestLifecycle_EndToEnd walks the reference calendar the way a request
// handler would: one instant during hacking, one during judging.
func TestLifecycle_EndToEnd(t *testing.T) {
	timeline := Timeline{
		RegistrationStart:  tp(t, "2025-03-01T00:00:00Z"),
		RegistrationEnd:    tp(t, "2025-03-10T00:00:00Z"),
		HackingStart:       tp(t, "2025-03-10T00:00:00Z"),
		HackingEnd:         tp(t, "2025-03-17T00:00:00Z"),
		SubmissionDeadline: tp(t, "2025-03-17T00:00:00Z"),
		JudgingStart:       tp(t, "2025-03-17T00:00:00Z"),
		JudgingEnd:         tp(t, "2025-03-20T00:00:00Z"),
		DeclaredStatus:     StatusPublished,
	}

	// One hour into hacking.
	now := ts(t, "2025-03-10T01:00:00Z")
	require.Equal(t, PhaseHacking, ResolvePhase(timeline, now))
	assert.True(t, CanFormTeams(timeline, now))
	assert.True(t, CanSubmit(timeline, now))
	assert.False(t, CanJudge(timeline, now))

	// One hour into judging.
	now = ts(t, "2025-03-17T01:00:00Z")
	require.Equal(t, PhaseJudging, ResolvePhase(timeline, now))
	assert.False(t, CanFormTeams(timeline, now))
	assert.Contains(t, PhaseMessage(timeline, ActionFormTeams, now), "2025-03-17T00:00:00Z")
	assert.False(t, CanSubmit(timeline, now))
	assert.True(t, CanJudge(timeline, now))
}
