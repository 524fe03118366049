package services

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"hackathon-judging-system/middleware"
	"hackathon-judging-system/models"
	"hackathon-judging-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type HackathonService struct {
	DB    *gorm.DB
	Roles *RoleProvider
}

func NewHackathonService(db *gorm.DB, roles *RoleProvider) *HackathonService {
	return &HackathonService{DB: db, Roles: roles}
}

// timelineFields maps form/JSON field names to their column setters.
var timelineFields = []string{
	"registration_start", "registration_end",
	"hacking_start", "hacking_end",
	"submission_deadline",
	"judging_start", "judging_end",
	"winners_announcement",
}

// parseOptionalTime parses an RFC3339 form value; empty means unset.
func parseOptionalTime(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s (use RFC3339)", field)
	}
	return &t, nil
}

// CreateHackathon creates a draft hackathon. POST /hackathons
func (s *HackathonService) CreateHackathon(c *fiber.Ctx) error {
	name := c.FormValue("name")
	description := c.FormValue("description")
	rules := c.FormValue("rules")
	maxTeamSizeStr := c.FormValue("max_team_size")

	if name == "" {
		return respondError(c, &models.ValidationError{
			Message: "name is required",
			Fields:  []string{"name"},
		})
	}

	maxTeamSize := 4
	if maxTeamSizeStr != "" {
		if n, err := strconv.Atoi(maxTeamSizeStr); err == nil && n > 0 {
			maxTeamSize = n
		} else {
			return respondError(c, &models.ValidationError{
				Message: "max_team_size must be a positive integer",
				Fields:  []string{"maxTeamSize"},
			})
		}
	}

	hackathon := &models.Hackathon{
		ID:             uuid.NewString(),
		Name:           name,
		Description:    description,
		Rules:          rules,
		OrganizerID:    middleware.UserID(c),
		MaxTeamSize:    maxTeamSize,
		DeclaredStatus: models.StatusDraft,
		Status:         string(models.PhaseDraft),
	}

	// Timeline fields are all optional at creation; publishing validates.
	for _, field := range timelineFields {
		at, err := parseOptionalTime(c.FormValue(field), field)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		setTimelineField(hackathon, field, at)
	}

	// Slug from the name; suffix on collision.
	hackathon.Slug = slug.Make(name)
	var clash int64
	s.DB.Model(&models.Hackathon{}).Where("slug = ?", hackathon.Slug).Count(&clash)
	if clash > 0 {
		hackathon.Slug = fmt.Sprintf("%s-%s", hackathon.Slug, hackathon.ID[:8])
	}

	// Optional banner → R2
	if banner, err := c.FormFile("banner"); err == nil && banner.Size > 0 {
		ext := filepath.Ext(banner.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "hackathons/banners/" + uuid.NewString() + ext
		url, err := utils.UploadFileToR2(banner, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload banner"})
		}
		hackathon.BannerURL = url
	}

	if err := s.DB.Create(hackathon).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}
	return c.Status(201).JSON(hackathon)
}

func setTimelineField(h *models.Hackathon, field string, at *time.Time) {
	switch field {
	case "registration_start":
		h.RegistrationStart = at
	case "registration_end":
		h.RegistrationEnd = at
	case "hacking_start":
		h.HackingStart = at
	case "hacking_end":
		h.HackingEnd = at
	case "submission_deadline":
		h.SubmissionDeadline = at
	case "judging_start":
		h.JudgingStart = at
	case "judging_end":
		h.JudgingEnd = at
	case "winners_announcement":
		h.WinnersAnnouncement = at
	}
}

// UpdateTimeline replaces the milestone timestamps. PUT /hackathons/:id/timeline
func (s *HackathonService) UpdateTimeline(c *fiber.Ctx) error {
	hackathon, ok := s.loadOwned(c)
	if !ok {
		return nil
	}

	type Req struct {
		RegistrationStart   *time.Time `json:"registration_start"`
		RegistrationEnd     *time.Time `json:"registration_end"`
		HackingStart        *time.Time `json:"hacking_start"`
		HackingEnd          *time.Time `json:"hacking_end"`
		SubmissionDeadline  *time.Time `json:"submission_deadline"`
		JudgingStart        *time.Time `json:"judging_start"`
		JudgingEnd          *time.Time `json:"judging_end"`
		WinnersAnnouncement *time.Time `json:"winners_announcement"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	hackathon.RegistrationStart = req.RegistrationStart
	hackathon.RegistrationEnd = req.RegistrationEnd
	hackathon.HackingStart = req.HackingStart
	hackathon.HackingEnd = req.HackingEnd
	hackathon.SubmissionDeadline = req.SubmissionDeadline
	hackathon.JudgingStart = req.JudgingStart
	hackathon.JudgingEnd = req.JudgingEnd
	hackathon.WinnersAnnouncement = req.WinnersAnnouncement

	// A published hackathon may not drop the fields publishing required.
	if hackathon.DeclaredStatus != models.StatusDraft {
		if err := hackathon.Timeline().ValidateForPublish(); err != nil {
			return respondError(c, err)
		}
	}

	if err := s.DB.Save(hackathon).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update timeline"})
	}
	return c.JSON(hackathon)
}

// UpdateStatus handles the explicit lifecycle writes: publish and cancel.
// Leaving draft runs the publish validation. PATCH /hackathons/:id/status
func (s *HackathonService) UpdateStatus(c *fiber.Ctx) error {
	hackathon, ok := s.loadOwned(c)
	if !ok {
		return nil
	}

	type Req struct {
		Status string `json:"status"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	switch req.Status {
	case models.StatusPublished, models.StatusCancelled, models.StatusDraft:
	default:
		return respondError(c, &models.ValidationError{
			Message: "status must be draft, published or cancelled",
			Fields:  []string{"status"},
		})
	}

	if hackathon.DeclaredStatus == models.StatusCancelled {
		// Cancellation is terminal.
		return respondError(c, &models.ConflictError{Message: "a cancelled hackathon cannot change status"})
	}

	if hackathon.DeclaredStatus == models.StatusDraft && req.Status != models.StatusDraft {
		if err := hackathon.Timeline().ValidateForPublish(); err != nil {
			return respondError(c, err)
		}
	}

	hackathon.DeclaredStatus = req.Status
	hackathon.Status = string(models.ResolvePhase(hackathon.Timeline(), time.Now()))
	if err := s.DB.Save(hackathon).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update status"})
	}

	log.Printf("✅ Hackathon %s status → %s", hackathon.ID, req.Status)
	return c.JSON(hackathon)
}

// phaseView is the computed projection returned alongside hackathons.
type phaseView struct {
	Phase        models.Phase `json:"phase"`
	CanFormTeams bool         `json:"can_form_teams"`
	CanSubmit    bool         `json:"can_submit"`
	CanJudge     bool         `json:"can_judge"`
}

func viewAt(t models.Timeline, now time.Time) phaseView {
	return phaseView{
		Phase:        models.ResolvePhase(t, now),
		CanFormTeams: models.CanFormTeams(t, now),
		CanSubmit:    models.CanSubmit(t, now),
		CanJudge:     models.CanJudge(t, now),
	}
}

// GetPhase returns the resolved phase and the gate decision for each
// action, with the message naming the deciding boundary.
// GET /hackathons/:id/phase
func (s *HackathonService) GetPhase(c *fiber.Ctx) error {
	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "hackathon not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	now := time.Now()
	t := hackathon.Timeline()
	return c.JSON(fiber.Map{
		"hackathon_id": hackathon.ID,
		"phase":        models.ResolvePhase(t, now),
		"actions": fiber.Map{
			"form_teams": fiber.Map{
				"allowed": models.CanFormTeams(t, now),
				"message": models.PhaseMessage(t, models.ActionFormTeams, now),
			},
			"submit": fiber.Map{
				"allowed": models.CanSubmit(t, now),
				"message": models.PhaseMessage(t, models.ActionSubmit, now),
			},
			"judge": fiber.Map{
				"allowed": models.CanJudge(t, now),
				"message": models.PhaseMessage(t, models.ActionJudge, now),
			},
		},
	})
}

// GetAllPublished lists everything visible to participants.
// GET /hackathons/published
func (s *HackathonService) GetAllPublished(c *fiber.Ctx) error {
	var hackathons []models.Hackathon
	if err := s.DB.Where("declared_status <> ?", models.StatusDraft).
		Order("created_at DESC").Find(&hackathons).Error; err != nil {
		log.Printf("ERROR fetching published hackathons: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch hackathons"})
	}

	now := time.Now()
	out := make([]fiber.Map, 0, len(hackathons))
	for i := range hackathons {
		out = append(out, fiber.Map{
			"hackathon": hackathons[i],
			"view":      viewAt(hackathons[i].Timeline(), now),
		})
	}
	return c.JSON(out)
}

// GetPublishedByID returns one published hackathon with its computed view.
// GET /hackathons/published/:id
func (s *HackathonService) GetPublishedByID(c *fiber.Ctx) error {
	var hackathon models.Hackathon
	if err := s.DB.Where("id = ? AND declared_status <> ?", c.Params("id"), models.StatusDraft).
		First(&hackathon).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "hackathon not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(fiber.Map{
		"hackathon": hackathon,
		"view":      viewAt(hackathon.Timeline(), time.Now()),
	})
}

// GetMine lists the caller's hackathons (organizer dashboard).
// GET /hackathons
func (s *HackathonService) GetMine(c *fiber.Ctx) error {
	var hackathons []models.Hackathon
	if err := s.DB.Where("organizer_id = ?", middleware.UserID(c)).
		Order("created_at DESC").Find(&hackathons).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch hackathons"})
	}
	return c.JSON(hackathons)
}

// GetByID returns full details to the organizer. GET /hackathons/:id
func (s *HackathonService) GetByID(c *fiber.Ctx) error {
	hackathon, ok := s.loadOwned(c)
	if !ok {
		return nil
	}
	if err := s.DB.Preload("Teams.Members").Preload("Submissions").
		First(hackathon, "id = ?", hackathon.ID).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(fiber.Map{
		"hackathon": hackathon,
		"view":      viewAt(hackathon.Timeline(), time.Now()),
	})
}

// DeleteHackathon removes a draft hackathon. Published ones must be
// cancelled, not deleted. DELETE /hackathons/:id
func (s *HackathonService) DeleteHackathon(c *fiber.Ctx) error {
	hackathon, ok := s.loadOwned(c)
	if !ok {
		return nil
	}
	if hackathon.DeclaredStatus != models.StatusDraft {
		return respondError(c, &models.ConflictError{Message: "only draft hackathons can be deleted; cancel instead"})
	}
	if err := s.DB.Delete(hackathon).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.JSON(fiber.Map{"message": "hackathon deleted"})
}

// AssignJudge marks a user as an assigned judge. POST /hackathons/:id/judges
func (s *HackathonService) AssignJudge(c *fiber.Ctx) error {
	hackathon, ok := s.loadOwned(c)
	if !ok {
		return nil
	}

	type Req struct {
		JudgeID string `json:"judge_id"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil || req.JudgeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "judge_id is required"})
	}

	var existing models.JudgeAssignment
	if err := s.DB.Where("hackathon_id = ? AND judge_id = ?", hackathon.ID, req.JudgeID).
		First(&existing).Error; err == nil {
		return respondError(c, &models.ConflictError{Message: "judge already assigned"})
	}

	assignment := models.JudgeAssignment{
		ID:          uuid.NewString(),
		HackathonID: hackathon.ID,
		JudgeID:     req.JudgeID,
		AssignedBy:  middleware.UserID(c),
	}
	if err := s.DB.Create(&assignment).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to assign judge"})
	}
	return c.Status(201).JSON(assignment)
}

// RemoveJudge unassigns a judge. DELETE /hackathons/:id/judges/:judge_id
func (s *HackathonService) RemoveJudge(c *fiber.Ctx) error {
	hackathon, ok := s.loadOwned(c)
	if !ok {
		return nil
	}
	if err := s.DB.Where("hackathon_id = ? AND judge_id = ?", hackathon.ID, c.Params("judge_id")).
		Delete(&models.JudgeAssignment{}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to remove judge"})
	}
	return c.JSON(fiber.Map{"message": "judge removed"})
}

// GetLeaderboard lists submitted projects ordered by average score.
// Organizer sees it from judging on; everyone once completed.
// GET /hackathons/:id/leaderboard
func (s *HackathonService) GetLeaderboard(c *fiber.Ctx) error {
	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "hackathon not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	now := time.Now()
	phase := models.ResolvePhase(hackathon.Timeline(), now)
	isOrganizer, err := s.Roles.IsOrganizer(hackathon.ID, middleware.UserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking organizer"})
	}

	visible := phase == models.PhaseCompleted ||
		(isOrganizer && phase.Rank() >= models.PhaseJudging.Rank())
	if !visible {
		return respondError(c, &models.AuthorizationError{
			Message: "the leaderboard is not visible before judging completes",
		})
	}

	var submissions []models.Submission
	if err := s.DB.Where("hackathon_id = ? AND status = ?", hackathon.ID, models.SubmissionSubmitted).
		Order("average_score DESC NULLS LAST").Find(&submissions).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch leaderboard"})
	}
	return c.JSON(fiber.Map{
		"hackathon_id": hackathon.ID,
		"phase":        phase,
		"entries":      submissions,
	})
}

// loadOwned fetches the hackathon in :id and enforces that the caller is
// its organizer. When it returns ok=false the response has been written.
func (s *HackathonService) loadOwned(c *fiber.Ctx) (*models.Hackathon, bool) {
	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			_ = c.Status(404).JSON(fiber.Map{"error": "hackathon not found"})
		} else {
			_ = c.Status(500).JSON(fiber.Map{"error": "DB error"})
		}
		return nil, false
	}
	if hackathon.OrganizerID != middleware.UserID(c) {
		_ = respondError(c, &models.AuthorizationError{Message: "only the organizer may manage this hackathon"})
		return nil, false
	}
	return &hackathon, true
}
