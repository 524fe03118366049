package models

import "time"

// JudgeAssignment marks a user as an assigned judge for a hackathon.
// Written by the organizer; read by the role provider.
type JudgeAssignment struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	HackathonID string    `json:"hackathon_id" gorm:"not null;uniqueIndex:idx_judge_hackathon_user"`
	JudgeID     string    `json:"judge_id" gorm:"not null;uniqueIndex:idx_judge_hackathon_user"`
	AssignedBy  string    `json:"assigned_by"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
