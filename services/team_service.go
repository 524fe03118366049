package services

import (
	"fmt"
	"log"
	"time"

	"hackathon-judging-system/metrics"
	"hackathon-judging-system/middleware"
	"hackathon-judging-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CounterEnqueuer is the fire-and-forget hook a membership mutation uses to
// request a counter resync. Implemented by workers.CounterSyncWorker.
type CounterEnqueuer interface {
	Enqueue(hackathonID string)
}

type TeamService struct {
	DB       *gorm.DB
	Roles    *RoleProvider
	Counters CounterEnqueuer
	Notify   Notifier
}

func NewTeamService(db *gorm.DB, roles *RoleProvider, counters CounterEnqueuer, notify Notifier) *TeamService {
	return &TeamService{DB: db, Roles: roles, Counters: counters, Notify: notify}
}

// Register enrolls the caller in a hackathon while registration is open.
// POST /hackathons/:id/registrations
func (s *TeamService) Register(c *fiber.Ctx) error {
	hackathonID := c.Params("id")
	userID := middleware.UserID(c)

	type Req struct {
		UserName string `json:"user_name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", hackathonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "hackathon not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	now := time.Now()
	t := hackathon.Timeline()
	if models.ResolvePhase(t, now) != models.PhaseRegistrationOpen {
		return respondError(c, &models.PhaseViolationError{
			Action:  "register",
			Phase:   models.ResolvePhase(t, now),
			Message: registrationMessage(t, now),
		})
	}

	var existing models.Registration
	if err := s.DB.Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		First(&existing).Error; err == nil {
		return respondError(c, &models.ConflictError{Message: "user already registered for this hackathon"})
	}

	reg := models.Registration{
		ID:          uuid.NewString(),
		HackathonID: hackathonID,
		UserID:      userID,
		UserName:    req.UserName,
		Status:      models.RegistrationPending,
	}
	if err := s.DB.Create(&reg).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create registration"})
	}

	s.Counters.Enqueue(hackathonID)
	return c.Status(201).JSON(reg)
}

func registrationMessage(t models.Timeline, now time.Time) string {
	if t.RegistrationStart != nil && now.Before(*t.RegistrationStart) {
		return "Registration opens on " + t.RegistrationStart.UTC().Format(time.RFC3339) + "."
	}
	if t.RegistrationEnd != nil {
		return "Registration closed on " + t.RegistrationEnd.UTC().Format(time.RFC3339) + "."
	}
	return "Registration is not open."
}

// UpdateRegistrationStatus is the organizer's approve/reject/confirm path.
// Status changes feed the notification sink; delivery failure never fails
// the mutation. PATCH /registrations/:id/status
func (s *TeamService) UpdateRegistrationStatus(c *fiber.Ctx) error {
	var reg models.Registration
	if err := s.DB.First(&reg, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "registration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	isOrganizer, err := s.Roles.IsOrganizer(reg.HackathonID, middleware.UserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking organizer"})
	}
	if !isOrganizer {
		return respondError(c, &models.AuthorizationError{Message: "only the organizer may decide registrations"})
	}

	type Req struct {
		Status string `json:"status"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	switch req.Status {
	case models.RegistrationApproved, models.RegistrationRejected,
		models.RegistrationConfirmed, models.RegistrationCancelled:
	default:
		return respondError(c, &models.ValidationError{
			Message: "status must be approved, rejected, confirmed or cancelled",
			Fields:  []string{"status"},
		})
	}

	now := time.Now()
	reg.Status = req.Status
	reg.DecidedAt = &now
	if err := s.DB.Save(&reg).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update registration"})
	}

	s.Notify.Notify(c.Context(), reg.UserID,
		"Registration update",
		fmt.Sprintf("Your registration is now %s.", reg.Status))
	s.Counters.Enqueue(reg.HackathonID)

	return c.JSON(reg)
}

// CreateTeam forms a new team led by the caller. POST /hackathons/:id/teams
func (s *TeamService) CreateTeam(c *fiber.Ctx) error {
	hackathonID := c.Params("id")
	userID := middleware.UserID(c)

	type Req struct {
		Name string `json:"name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "team name is required"})
	}

	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", hackathonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "hackathon not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	now := time.Now()
	t := hackathon.Timeline()
	if !models.CanFormTeams(t, now) {
		metrics.PhaseDenials.WithLabelValues(string(models.ActionFormTeams)).Inc()
		return respondError(c, &models.PhaseViolationError{
			Action:  models.ActionFormTeams,
			Phase:   models.ResolvePhase(t, now),
			Message: models.PhaseMessage(t, models.ActionFormTeams, now),
		})
	}

	// One team per participant per hackathon.
	var onTeam int64
	s.DB.Model(&models.TeamMember{}).
		Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).
		Count(&onTeam)
	if onTeam > 0 {
		return respondError(c, &models.ConflictError{Message: "user is already on a team for this hackathon"})
	}

	team := models.Team{
		ID:          uuid.NewString(),
		HackathonID: hackathonID,
		Name:        req.Name,
		LeaderID:    userID,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		member := models.TeamMember{
			ID:          uuid.NewString(),
			TeamID:      team.ID,
			HackathonID: hackathonID,
			UserID:      userID,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create team"})
	}

	s.Counters.Enqueue(hackathonID)
	return c.Status(201).JSON(team)
}

// JoinTeam adds the caller to an existing team. POST /teams/:id/join
func (s *TeamService) JoinTeam(c *fiber.Ctx) error {
	teamID := c.Params("id")
	userID := middleware.UserID(c)

	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", team.HackathonID).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	now := time.Now()
	t := hackathon.Timeline()
	if !models.CanFormTeams(t, now) {
		metrics.PhaseDenials.WithLabelValues(string(models.ActionFormTeams)).Inc()
		return respondError(c, &models.PhaseViolationError{
			Action:  models.ActionFormTeams,
			Phase:   models.ResolvePhase(t, now),
			Message: models.PhaseMessage(t, models.ActionFormTeams, now),
		})
	}

	var onTeam int64
	s.DB.Model(&models.TeamMember{}).
		Where("hackathon_id = ? AND user_id = ?", team.HackathonID, userID).
		Count(&onTeam)
	if onTeam > 0 {
		return respondError(c, &models.ConflictError{Message: "user is already on a team for this hackathon"})
	}

	var size int64
	s.DB.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&size)
	if int(size) >= hackathon.MaxTeamSize {
		return respondError(c, &models.ConflictError{Message: "team is full"})
	}

	member := models.TeamMember{
		ID:          uuid.NewString(),
		TeamID:      teamID,
		HackathonID: team.HackathonID,
		UserID:      userID,
	}
	if err := s.DB.Create(&member).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to join team"})
	}

	s.Counters.Enqueue(team.HackathonID)
	return c.Status(201).JSON(member)
}

// LeaveTeam removes the caller from a team. The leader cannot leave — they
// delete the team instead. POST /teams/:id/leave
func (s *TeamService) LeaveTeam(c *fiber.Ctx) error {
	teamID := c.Params("id")
	userID := middleware.UserID(c)

	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if team.LeaderID == userID {
		return respondError(c, &models.ConflictError{Message: "the leader cannot leave; delete the team instead"})
	}

	res := s.DB.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMember{})
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to leave team"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "not a member of this team"})
	}

	s.Counters.Enqueue(team.HackathonID)
	return c.JSON(fiber.Map{"message": "left team"})
}

// DeleteTeam is the explicit removal path for the leader or the organizer.
// DELETE /teams/:id
func (s *TeamService) DeleteTeam(c *fiber.Ctx) error {
	teamID := c.Params("id")
	userID := middleware.UserID(c)

	var team models.Team
	if err := s.DB.First(&team, "id = ?", teamID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	isOrganizer, err := s.Roles.IsOrganizer(team.HackathonID, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking organizer"})
	}
	if team.LeaderID != userID && !isOrganizer {
		return respondError(c, &models.AuthorizationError{Message: "only the team leader or the organizer may delete a team"})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete team"})
	}

	log.Printf("🗑️  Team %s deleted from hackathon %s", teamID, team.HackathonID)
	s.Counters.Enqueue(team.HackathonID)
	return c.JSON(fiber.Map{"message": "team deleted"})
}

// GetTeams lists a hackathon's teams with live member counts.
// GET /hackathons/:id/teams
func (s *TeamService) GetTeams(c *fiber.Ctx) error {
	hackathonID := c.Params("id")

	var teams []models.Team
	if err := s.DB.Preload("Members").
		Where("hackathon_id = ?", hackathonID).
		Order("created_at ASC").Find(&teams).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch teams"})
	}
	for i := range teams {
		teams[i].MemberCount = int64(len(teams[i].Members))
	}
	return c.JSON(teams)
}
