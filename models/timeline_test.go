package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateForPublish(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Timeline)
		wantMissing []string
	}{
		{
			name:   "complete timeline publishes",
			mutate: func(*Timeline) {},
		},
		{
			name:        "missing hacking end",
			mutate:      func(tl *Timeline) { tl.HackingEnd = nil },
			wantMissing: []string{"hackingEnd"},
		},
		{
			name:        "missing submission deadline",
			mutate:      func(tl *Timeline) { tl.SubmissionDeadline = nil },
			wantMissing: []string{"submissionDeadline"},
		},
		{
			name: "every required field missing is listed",
			mutate: func(tl *Timeline) {
				tl.HackingStart = nil
				tl.HackingEnd = nil
				tl.SubmissionDeadline = nil
			},
			wantMissing: []string{"hackingStart", "hackingEnd", "submissionDeadline"},
		},
		{
			name: "registration fields are not required",
			mutate: func(tl *Timeline) {
				tl.RegistrationStart = nil
				tl.RegistrationEnd = nil
				tl.JudgingStart = nil
				tl.JudgingEnd = nil
				tl.WinnersAnnouncement = nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeline := fullTimeline(t)
			tt.mutate(&timeline)

			err := timeline.ValidateForPublish()
			if len(tt.wantMissing) == 0 {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantMissing, ve.Fields)
			for _, field := range tt.wantMissing {
				assert.Contains(t, ve.Error(), field)
			}
		})
	}
}
