package services

import (
	"hackathon-judging-system/models"

	"gorm.io/gorm"
)

// RoleProvider answers the identity questions the engine takes as input:
// is the caller the organizer, a team leader, an assigned judge. Engine
// operations consume these booleans; they never re-derive authorization.
type RoleProvider struct {
	DB *gorm.DB
}

func NewRoleProvider(db *gorm.DB) *RoleProvider {
	return &RoleProvider{DB: db}
}

func (p *RoleProvider) IsOrganizer(hackathonID, userID string) (bool, error) {
	var count int64
	err := p.DB.Model(&models.Hackathon{}).
		Where("id = ? AND organizer_id = ?", hackathonID, userID).
		Count(&count).Error
	return count > 0, err
}

func (p *RoleProvider) IsTeamLeader(teamID, userID string) (bool, error) {
	var count int64
	err := p.DB.Model(&models.Team{}).
		Where("id = ? AND leader_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

func (p *RoleProvider) IsAssignedJudge(hackathonID, userID string) (bool, error) {
	var count int64
	err := p.DB.Model(&models.JudgeAssignment{}).
		Where("hackathon_id = ? AND judge_id = ?", hackathonID, userID).
		Count(&count).Error
	return count > 0, err
}
