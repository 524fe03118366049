package models

import (
	"time"
)

// Declared lifecycle statuses. DeclaredStatus is the author's last explicit
// write; the Status column is a display cache refreshed from ResolvePhase.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusCancelled = "cancelled"
)

// Hackathon is the root aggregate: identity, timeline columns, and the
// denormalized counters kept fresh by the counter sync worker.
type Hackathon struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Rules       string `json:"rules"`
	OrganizerID string `json:"organizer_id" gorm:"not null;index"`
	BannerURL   string `json:"banner_url"`
	MaxTeamSize int    `json:"max_team_size" gorm:"default:4"`

	// DeclaredStatus is authoritative for draft/published/cancelled.
	// Status is what ResolvePhase last computed — a display hint only.
	DeclaredStatus string `json:"declared_status" gorm:"default:'draft'"`
	Status         string `json:"status" gorm:"default:'draft'"`

	// Timeline columns. All optional; publishing requires hacking_start,
	// hacking_end and submission_deadline to be set.
	RegistrationStart   *time.Time `json:"registration_start,omitempty"`
	RegistrationEnd     *time.Time `json:"registration_end,omitempty"`
	HackingStart        *time.Time `json:"hacking_start,omitempty"`
	HackingEnd          *time.Time `json:"hacking_end,omitempty"`
	SubmissionDeadline  *time.Time `json:"submission_deadline,omitempty"`
	JudgingStart        *time.Time `json:"judging_start,omitempty"`
	JudgingEnd          *time.Time `json:"judging_end,omitempty"`
	WinnersAnnouncement *time.Time `json:"winners_announcement,omitempty"`

	// Denormalized counters — display only, recomputed by the worker.
	TeamCount        int64 `json:"team_count" gorm:"default:0"`
	ParticipantCount int64 `json:"participant_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Teams       []Team       `json:"teams,omitempty" gorm:"foreignKey:HackathonID"`
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:HackathonID"`
}

// Timeline is the immutable value object the resolver and gate operate on.
// Build it with Hackathon.Timeline(); never mutate it afterwards.
type Timeline struct {
	RegistrationStart   *time.Time
	RegistrationEnd     *time.Time
	HackingStart        *time.Time
	HackingEnd          *time.Time
	SubmissionDeadline  *time.Time
	JudgingStart        *time.Time
	JudgingEnd          *time.Time
	WinnersAnnouncement *time.Time
	DeclaredStatus      string
}

// Timeline snapshots the hackathon's milestone columns into a value object.
func (h *Hackathon) Timeline() Timeline {
	return Timeline{
		RegistrationStart:   h.RegistrationStart,
		RegistrationEnd:     h.RegistrationEnd,
		HackingStart:        h.HackingStart,
		HackingEnd:          h.HackingEnd,
		SubmissionDeadline:  h.SubmissionDeadline,
		JudgingStart:        h.JudgingStart,
		JudgingEnd:          h.JudgingEnd,
		WinnersAnnouncement: h.WinnersAnnouncement,
		DeclaredStatus:      h.DeclaredStatus,
	}
}

// ValidateForPublish checks the fields required before the hackathon may
// leave draft. It returns a ValidationError listing every missing field,
// or nil when the timeline is publishable.
func (t Timeline) ValidateForPublish() error {
	var missing []string
	if t.HackingStart == nil {
		missing = append(missing, "hackingStart")
	}
	if t.HackingEnd == nil {
		missing = append(missing, "hackingEnd")
	}
	if t.SubmissionDeadline == nil {
		missing = append(missing, "submissionDeadline")
	}
	if len(missing) > 0 {
		return &ValidationError{
			Message: "timeline is missing required fields for publishing",
			Fields:  missing,
		}
	}
	return nil
}
