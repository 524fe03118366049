package handlers

import (
	"hackathon-judging-system/middleware"
	"hackathon-judging-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupJudgingRoutes(app *fiber.App, submissionService *services.SubmissionService, scoreService *services.ScoreService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Submissions
	secured.Post("/teams/:id/submissions", submissionService.CreateSubmission)
	secured.Get("/submissions/:id", submissionService.GetSubmission)
	secured.Put("/submissions/:id", submissionService.UpdateSubmission)
	secured.Post("/submissions/:id/submit", submissionService.Submit)

	// Scoring (assigned judges; one upsertable row per judge)
	secured.Put("/submissions/:id/scores", scoreService.RecordScore)
	secured.Get("/submissions/:id/scores", scoreService.GetScores)
	secured.Delete("/submissions/:id/scores/:judge_id", scoreService.DeleteScore)
}
