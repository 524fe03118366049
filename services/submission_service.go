package services

import (
	"path/filepath"
	"time"

	"hackathon-judging-system/metrics"
	"hackathon-judging-system/middleware"
	"hackathon-judging-system/models"
	"hackathon-judging-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmissionService struct {
	DB    *gorm.DB
	Roles *RoleProvider
}

func NewSubmissionService(db *gorm.DB, roles *RoleProvider) *SubmissionService {
	return &SubmissionService{DB: db, Roles: roles}
}

// denySubmit is the shared gate check for every submission mutation.
// Returns nil when submitting is allowed at now.
func denySubmit(t models.Timeline, now time.Time) error {
	if models.CanSubmit(t, now) {
		return nil
	}
	metrics.PhaseDenials.WithLabelValues(string(models.ActionSubmit)).Inc()
	return &models.PhaseViolationError{
		Action:  models.ActionSubmit,
		Phase:   models.ResolvePhase(t, now),
		Message: models.PhaseMessage(t, models.ActionSubmit, now),
	}
}

// memberOf reports whether the user belongs to the team.
func (s *SubmissionService) memberOf(teamID, userID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateSubmission starts a draft project entry for a team.
// POST /teams/:id/submissions
func (s *SubmissionService) CreateSubmission(c *fiber.Ctx) error {
	teamID := c.Params("id")
	userID := middleware.UserID(c)

	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	isMember, err := s.memberOf(teamID, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking membership"})
	}
	if !isMember {
		return respondError(c, &models.AuthorizationError{Message: "only team members may create a submission"})
	}

	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", team.HackathonID).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if err := denySubmit(hackathon.Timeline(), time.Now()); err != nil {
		return respondError(c, err)
	}

	// One submission per team per hackathon.
	var existing int64
	s.DB.Model(&models.Submission{}).Where("team_id = ?", teamID).Count(&existing)
	if existing > 0 {
		return respondError(c, &models.ConflictError{Message: "team already has a submission"})
	}

	title := c.FormValue("title")
	if title == "" {
		return respondError(c, &models.ValidationError{Message: "title is required", Fields: []string{"title"}})
	}

	submission := models.Submission{
		ID:          uuid.NewString(),
		TeamID:      teamID,
		HackathonID: team.HackathonID,
		Title:       title,
		Description: c.FormValue("description"),
		RepoURL:     c.FormValue("repo_url"),
		DemoURL:     c.FormValue("demo_url"),
		Status:      models.SubmissionDraft,
	}

	// Optional attachment → R2
	if file, err := c.FormFile("file"); err == nil && file.Size > 0 {
		ext := filepath.Ext(file.Filename)
		key := "submissions/files/" + uuid.NewString() + ext
		url, err := utils.UploadFileToR2(file, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload attachment"})
		}
		submission.FileURL = url
	}

	if err := s.DB.Create(&submission).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create submission"})
	}
	return c.Status(201).JSON(submission)
}

// UpdateSubmission edits a draft entry. PUT /submissions/:id
func (s *SubmissionService) UpdateSubmission(c *fiber.Ctx) error {
	submission, ok := s.loadForMember(c)
	if !ok {
		return nil
	}

	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", submission.HackathonID).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if err := denySubmit(hackathon.Timeline(), time.Now()); err != nil {
		return respondError(c, err)
	}

	type Req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		RepoURL     *string `json:"repo_url"`
		DemoURL     *string `json:"demo_url"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Title != nil {
		submission.Title = *req.Title
	}
	if req.Description != nil {
		submission.Description = *req.Description
	}
	if req.RepoURL != nil {
		submission.RepoURL = *req.RepoURL
	}
	if req.DemoURL != nil {
		submission.DemoURL = *req.DemoURL
	}

	if err := s.DB.Save(submission).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update submission"})
	}
	return c.JSON(submission)
}

// Submit finalizes the entry. The submission deadline is a hard stop
// stricter than the phase alone. POST /submissions/:id/submit
func (s *SubmissionService) Submit(c *fiber.Ctx) error {
	submission, ok := s.loadForMember(c)
	if !ok {
		return nil
	}

	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", submission.HackathonID).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	now := time.Now()
	if err := denySubmit(hackathon.Timeline(), now); err != nil {
		return respondError(c, err)
	}

	submission.Status = models.SubmissionSubmitted
	submission.SubmittedAt = &now
	if err := s.DB.Save(submission).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to submit"})
	}
	return c.JSON(submission)
}

// GetSubmission returns one submission with scores preloaded for callers
// allowed to see them. GET /submissions/:id
func (s *SubmissionService) GetSubmission(c *fiber.Ctx) error {
	var submission models.Submission
	if err := s.DB.First(&submission, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "submission not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(submission)
}

// loadForMember fetches the submission in :id and checks team membership.
// When it returns ok=false the response has been written.
func (s *SubmissionService) loadForMember(c *fiber.Ctx) (*models.Submission, bool) {
	var submission models.Submission
	if err := s.DB.First(&submission, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			_ = c.Status(404).JSON(fiber.Map{"error": "submission not found"})
		} else {
			_ = c.Status(500).JSON(fiber.Map{"error": "DB error"})
		}
		return nil, false
	}
	isMember, err := s.memberOf(submission.TeamID, middleware.UserID(c))
	if err != nil {
		_ = c.Status(500).JSON(fiber.Map{"error": "DB error checking membership"})
		return nil, false
	}
	if !isMember {
		_ = respondError(c, &models.AuthorizationError{Message: "only team members may modify this submission"})
		return nil, false
	}
	return &submission, true
}
