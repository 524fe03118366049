package models

import "time"

// Registration statuses. Status changes are what the notification sink
// hears about; the engine only decides whether the change was allowed.
const (
	RegistrationPending   = "pending"
	RegistrationApproved  = "approved"
	RegistrationRejected  = "rejected"
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// Team groups participants within one hackathon. Teams are never
// hard-deleted outside an explicit organizer/leader action, and every
// membership change enqueues a counter resync.
type Team struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	HackathonID string    `json:"hackathon_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	LeaderID    string    `json:"leader_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Members []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID"`

	// Calculated field (not stored in DB)
	MemberCount int64 `json:"member_count,omitempty" gorm:"-"`
}

// TeamMember is one membership row; a user holds at most one per hackathon.
type TeamMember struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	TeamID      string    `json:"team_id" gorm:"not null;index"`
	HackathonID string    `json:"hackathon_id" gorm:"not null;uniqueIndex:idx_member_hackathon_user"`
	UserID      string    `json:"user_id" gorm:"not null;uniqueIndex:idx_member_hackathon_user"`
	JoinedAt    time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

// Registration tracks a participant's enrollment in a hackathon.
type Registration struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	HackathonID string     `json:"hackathon_id" gorm:"not null;uniqueIndex:idx_reg_hackathon_user"`
	UserID      string     `json:"user_id" gorm:"not null;uniqueIndex:idx_reg_hackathon_user"`
	UserName    string     `json:"user_name"`
	Status      string     `json:"status" gorm:"default:'pending'"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}
