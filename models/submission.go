package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission statuses.
const (
	SubmissionDraft     = "draft"
	SubmissionSubmitted = "submitted"
)

// Submission is a team's project entry. AverageScore is derived — always
// the exact mean of the current score rows, recomputed in full by the
// score service, nil until the first score lands.
type Submission struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	TeamID      string     `json:"team_id" gorm:"not null;index"`
	HackathonID string     `json:"hackathon_id" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	RepoURL     string     `json:"repo_url"`
	DemoURL     string     `json:"demo_url"`
	FileURL     string     `json:"file_url"`
	Status      string     `json:"status" gorm:"default:'draft'"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`

	AverageScore *float64 `json:"average_score,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Scores []Score `json:"scores,omitempty" gorm:"foreignKey:SubmissionID"`
}

// Score is one judge's evaluation of one submission — exactly one row per
// (submission, judge) pair, upserted on re-score. Criteria are opaque
// sub-scores the aggregator never interprets.
type Score struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	SubmissionID string         `json:"submission_id" gorm:"not null;uniqueIndex:idx_score_submission_judge"`
	JudgeID      string         `json:"judge_id" gorm:"not null;uniqueIndex:idx_score_submission_judge"`
	Criteria     datatypes.JSON `json:"criteria"`
	TotalScore   float64        `json:"total_score" gorm:"not null"`
	Feedback     string         `json:"overall_feedback"`
	Flagged      bool           `json:"flagged" gorm:"default:false"`
	ScoredAt     time.Time      `json:"scored_at"`
}
