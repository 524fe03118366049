package models

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	at, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return at
}

func tp(t *testing.T, value string) *time.Time {
	at := ts(t, value)
	return &at
}

// fullTimeline is the §-style reference calendar:
// registration 01..10 Jan, hacking 10..20 Jan, deadline 20 Jan,
// judging 20..25 Jan, winners 26 Jan.
func fullTimeline(t *testing.T) Timeline {
	return Timeline{
		RegistrationStart:   tp(t, "2025-01-01T00:00:00Z"),
		RegistrationEnd:     tp(t, "2025-01-10T00:00:00Z"),
		HackingStart:        tp(t, "2025-01-10T00:00:00Z"),
		HackingEnd:          tp(t, "2025-01-20T00:00:00Z"),
		SubmissionDeadline:  tp(t, "2025-01-20T00:00:00Z"),
		JudgingStart:        tp(t, "2025-01-20T00:00:00Z"),
		JudgingEnd:          tp(t, "2025-01-25T00:00:00Z"),
		WinnersAnnouncement: tp(t, "2025-01-26T00:00:00Z"),
		DeclaredStatus:      StatusPublished,
	}
}

func TestResolvePhase_Rules(t *testing.T) {
	timeline := fullTimeline(t)

	tests := []struct {
		name string
		now  string
		want Phase
	}{
		{name: "before registration", now: "2024-12-25T00:00:00Z", want: PhaseUpcoming},
		{name: "registration opens at its start instant", now: "2025-01-01T00:00:00Z", want: PhaseRegistrationOpen},
		{name: "mid registration", now: "2025-01-05T12:00:00Z", want: PhaseRegistrationOpen},
		{name: "instant before registration end", now: "2025-01-09T23:59:59Z", want: PhaseRegistrationOpen},
		{name: "hacking opens at hacking start", now: "2025-01-10T00:00:00Z", want: PhaseHacking},
		{name: "mid hacking", now: "2025-01-15T00:00:00Z", want: PhaseHacking},
		{name: "judging opens at hacking end", now: "2025-01-20T00:00:00Z", want: PhaseJudging},
		{name: "mid judging", now: "2025-01-22T00:00:00Z", want: PhaseJudging},
		{name: "completed at judging end", now: "2025-01-25T00:00:00Z", want: PhaseCompleted},
		{name: "long after", now: "2030-01-01T00:00:00Z", want: PhaseCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePhase(timeline, ts(t, tt.now)))
		})
	}
}

func TestResolvePhase_BoundaryIsExclusiveUpper(t *testing.T) {
	timeline := fullTimeline(t)

	// Exactly at registrationEnd the registration window is already over.
	got := ResolvePhase(timeline, ts(t, "2025-01-10T00:00:00Z"))
	require.NotEqual(t, PhaseRegistrationOpen, got)
}

func TestResolvePhase_RegistrationClosedGap(t *testing.T) {
	timeline := fullTimeline(t)
	// Open a gap between registration end and hacking start.
	timeline.HackingStart = tp(t, "2025-01-12T00:00:00Z")

	assert.Equal(t, PhaseRegistrationClosed, ResolvePhase(timeline, ts(t, "2025-01-11T00:00:00Z")))
}

func TestResolvePhase_DeclaredStatusOverrides(t *testing.T) {
	timeline := fullTimeline(t)

	timeline.DeclaredStatus = StatusDraft
	assert.Equal(t, PhaseDraft, ResolvePhase(timeline, ts(t, "2025-01-15T00:00:00Z")))

	// Cancelled is terminal regardless of any timestamp, past or future.
	timeline.DeclaredStatus = StatusCancelled
	for _, now := range []string{"1990-01-01T00:00:00Z", "2025-01-15T00:00:00Z", "2090-01-01T00:00:00Z"} {
		assert.Equal(t, PhaseCancelled, ResolvePhase(timeline, ts(t, now)), "at %s", now)
	}
}

func TestResolvePhase_MissingTimestampsDegradeConservatively(t *testing.T) {
	tests := []struct {
		name     string
		timeline Timeline
		now      string
		want     Phase
	}{
		{
			name:     "empty published timeline stays upcoming",
			timeline: Timeline{DeclaredStatus: StatusPublished},
			now:      "2025-06-01T00:00:00Z",
			want:     PhaseUpcoming,
		},
		{
			name: "no registration end skips straight past registration-open",
			timeline: Timeline{
				RegistrationStart: tp(t, "2025-01-01T00:00:00Z"),
				DeclaredStatus:    StatusPublished,
			},
			now:  "2025-01-05T00:00:00Z",
			want: PhaseRegistrationClosed,
		},
		{
			name: "no hacking end holds hacking open",
			timeline: Timeline{
				RegistrationStart: tp(t, "2025-01-01T00:00:00Z"),
				RegistrationEnd:   tp(t, "2025-01-10T00:00:00Z"),
				HackingStart:      tp(t, "2025-01-10T00:00:00Z"),
				DeclaredStatus:    StatusPublished,
			},
			now:  "2030-01-01T00:00:00Z",
			want: PhaseHacking,
		},
		{
			name: "no judging end holds judging open",
			timeline: Timeline{
				RegistrationStart: tp(t, "2025-01-01T00:00:00Z"),
				RegistrationEnd:   tp(t, "2025-01-10T00:00:00Z"),
				HackingStart:      tp(t, "2025-01-10T00:00:00Z"),
				HackingEnd:        tp(t, "2025-01-20T00:00:00Z"),
				DeclaredStatus:    StatusPublished,
			},
			now:  "2030-01-01T00:00:00Z",
			want: PhaseJudging,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePhase(tt.timeline, ts(t, tt.now)))
		})
	}
}

func TestResolvePhase_OutOfOrderTimestampsNeverPanic(t *testing.T) {
	// Deliberately scrambled: hacking before registration, judging end in
	// the past. The resolver must still return some phase.
	timeline := Timeline{
		RegistrationStart: tp(t, "2025-06-01T00:00:00Z"),
		RegistrationEnd:   tp(t, "2025-01-01T00:00:00Z"),
		HackingStart:      tp(t, "2024-01-01T00:00:00Z"),
		HackingEnd:        tp(t, "2023-01-01T00:00:00Z"),
		JudgingEnd:        tp(t, "2022-01-01T00:00:00Z"),
		DeclaredStatus:    StatusPublished,
	}
	require.NotPanics(t, func() {
		for _, now := range []string{"2021-01-01T00:00:00Z", "2024-06-01T00:00:00Z", "2026-01-01T00:00:00Z"} {
			_ = ResolvePhase(timeline, ts(t, now))
		}
	})
}

func TestResolvePhase_MonotoneInNow(t *testing.T) {
	timeline := fullTimeline(t)

	instants := []time.Time{
		ts(t, "2024-12-01T00:00:00Z"),
		ts(t, "2025-01-01T00:00:00Z"),
		ts(t, "2025-01-05T00:00:00Z"),
		ts(t, "2025-01-10T00:00:00Z"),
		ts(t, "2025-01-15T00:00:00Z"),
		ts(t, "2025-01-20T00:00:00Z"),
		ts(t, "2025-01-23T00:00:00Z"),
		ts(t, "2025-01-25T00:00:00Z"),
		ts(t, "2025-02-01T00:00:00Z"),
	}
	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })

	prev := 0
	for _, now := range instants {
		rank := ResolvePhase(timeline, now).Rank()
		require.GreaterOrEqual(t, rank, prev, "phase regressed at %s", now)
		prev = rank
	}
}
