package handlers

import (
	"hackathon-judging-system/middleware"
	"hackathon-judging-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupHackathonRoutes(app *fiber.App, hackathonService *services.HackathonService, teamService *services.TeamService) {
	// 🔓 Public routes (published hackathons only)
	app.Get("/hackathons/published", hackathonService.GetAllPublished)
	app.Get("/hackathons/published/:id", hackathonService.GetPublishedByID)
	app.Get("/hackathons/:id/phase", hackathonService.GetPhase)
	app.Get("/hackathons/:id/teams", teamService.GetTeams)

	// 🔐 Authenticated routes
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Hackathon CRUD (organizer)
	secured.Post("/hackathons", hackathonService.CreateHackathon)
	secured.Get("/hackathons", hackathonService.GetMine)
	secured.Get("/hackathons/:id", hackathonService.GetByID)
	secured.Delete("/hackathons/:id", hackathonService.DeleteHackathon)

	// Lifecycle management
	secured.Put("/hackathons/:id/timeline", hackathonService.UpdateTimeline)
	secured.Patch("/hackathons/:id/status", hackathonService.UpdateStatus)

	// Judges
	secured.Post("/hackathons/:id/judges", hackathonService.AssignJudge)
	secured.Delete("/hackathons/:id/judges/:judge_id", hackathonService.RemoveJudge)

	// Leaderboard
	secured.Get("/hackathons/:id/leaderboard", hackathonService.GetLeaderboard)

	// Registrations
	secured.Post("/hackathons/:id/registrations", teamService.Register)
	secured.Patch("/registrations/:id/status", teamService.UpdateRegistrationStatus)

	// Teams
	secured.Post("/hackathons/:id/teams", teamService.CreateTeam)
	secured.Post("/teams/:id/join", teamService.JoinTeam)
	secured.Post("/teams/:id/leave", teamService.LeaveTeam)
	secured.Delete("/teams/:id", teamService.DeleteTeam)
}
