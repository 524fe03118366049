package services

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"hackathon-judging-system/metrics"
	"hackathon-judging-system/middleware"
	"hackathon-judging-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScoreService owns the invariant that a submission's average_score is
// always the exact mean of its current score rows. Every recomputation is a
// full read-all → mean → write-back inside a transaction that locks the
// submission row, additionally serialized per submission in-process.
type ScoreService struct {
	DB        *gorm.DB
	Roles     *RoleProvider
	locks     *SubmissionLocks
	txTimeout time.Duration
}

func NewScoreService(db *gorm.DB, roles *RoleProvider) *ScoreService {
	return &ScoreService{
		DB:        db,
		Roles:     roles,
		locks:     NewSubmissionLocks(),
		txTimeout: 5 * time.Second,
	}
}

// round2 applies standard rounding to 2 decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// averageOf returns the mean of the totals rounded to 2 decimal places.
// Callers must not pass an empty slice; an empty score set maps to a NULL
// average, not to zero.
func averageOf(totals []float64) float64 {
	var sum float64
	for _, t := range totals {
		sum += t
	}
	return round2(sum / float64(len(totals)))
}

// RecordScore upserts the caller's score for a submission and recomputes
// the average. PUT /submissions/:id/scores
func (s *ScoreService) RecordScore(c *fiber.Ctx) error {
	submissionID := c.Params("id")
	judgeID := middleware.UserID(c)

	type Req struct {
		Criteria   json.RawMessage `json:"criteria"`
		TotalScore float64         `json:"total_score"`
		Feedback   string          `json:"overall_feedback"`
		Flagged    bool            `json:"flagged"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	// Validate before any write.
	if req.TotalScore < 0 || req.TotalScore > 100 {
		return respondError(c, &models.ValidationError{
			Message: "total_score must be between 0 and 100",
			Fields:  []string{"totalScore"},
		})
	}
	var criteriaList []json.RawMessage
	if len(req.Criteria) == 0 || json.Unmarshal(req.Criteria, &criteriaList) != nil || criteriaList == nil {
		return respondError(c, &models.ValidationError{
			Message: "criteria must be a list of sub-scores",
			Fields:  []string{"criteria"},
		})
	}

	var submission models.Submission
	if err := s.DB.First(&submission, "id = ?", submissionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "submission not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching submission"})
	}

	var hackathon models.Hackathon
	if err := s.DB.First(&hackathon, "id = ?", submission.HackathonID).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching hackathon"})
	}

	// Role check first, then the calendar.
	isJudge, err := s.Roles.IsAssignedJudge(hackathon.ID, judgeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking judge assignment"})
	}
	if !isJudge {
		return respondError(c, &models.AuthorizationError{
			Message: "only judges assigned to this hackathon may score submissions",
		})
	}

	now := time.Now()
	timeline := hackathon.Timeline()
	if !models.CanJudge(timeline, now) {
		metrics.PhaseDenials.WithLabelValues(string(models.ActionJudge)).Inc()
		return respondError(c, &models.PhaseViolationError{
			Action:  models.ActionJudge,
			Phase:   models.ResolvePhase(timeline, now),
			Message: models.PhaseMessage(timeline, models.ActionJudge, now),
		})
	}

	score := models.Score{
		ID:           uuid.NewString(),
		SubmissionID: submissionID,
		JudgeID:      judgeID,
		Criteria:     datatypes.JSON(req.Criteria),
		TotalScore:   req.TotalScore,
		Feedback:     req.Feedback,
		Flagged:      req.Flagged,
		ScoredAt:     now,
	}

	avg, err := s.record(c.Context(), &score)
	if err != nil {
		log.Printf("❌ [SCORES] record failed for submission %s: %v", submissionID, err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "score recorded",
		"score":         score,
		"average_score": avg,
	})
}

// record upserts the (submission, judge) row and recomputes the average in
// one serialized transaction. Returns the new average.
func (s *ScoreService) record(ctx context.Context, score *models.Score) (*float64, error) {
	unlock := s.locks.Lock(score.SubmissionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var avg *float64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the submission row so concurrent recomputations for this
		// submission serialize at the database too.
		var locked models.Submission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "id = ?", score.SubmissionID).Error; err != nil {
			return err
		}

		// One row per (submission, judge): replace on re-score.
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "submission_id"}, {Name: "judge_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"criteria", "total_score", "feedback", "flagged", "scored_at",
			}),
		}).Create(score).Error; err != nil {
			return err
		}

		var err error
		avg, err = recomputeAverage(tx, score.SubmissionID)
		return err
	})
	if err != nil {
		metrics.ScoreRecalcFailures.Inc()
		return nil, &models.PersistenceError{Op: "record score", Err: err}
	}
	metrics.ScoreRecalculations.Inc()
	return avg, nil
}

// RecalculateAverage recomputes a submission's average from every current
// score row. Idempotent: with a fixed score set, repeated runs write the
// same value.
func (s *ScoreService) RecalculateAverage(ctx context.Context, submissionID string) (*float64, error) {
	unlock := s.locks.Lock(submissionID)
	defer unlock()

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var avg *float64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.Submission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "id = ?", submissionID).Error; err != nil {
			return err
		}
		var err error
		avg, err = recomputeAverage(tx, submissionID)
		return err
	})
	if err != nil {
		metrics.ScoreRecalcFailures.Inc()
		return nil, &models.PersistenceError{Op: "recalculate average", Err: err}
	}
	metrics.ScoreRecalculations.Inc()
	return avg, nil
}

// recomputeAverage reads all score rows inside the caller's transaction,
// computes the mean, and writes it back. An empty score set clears the
// average to NULL.
func recomputeAverage(tx *gorm.DB, submissionID string) (*float64, error) {
	var totals []float64
	if err := tx.Model(&models.Score{}).
		Where("submission_id = ?", submissionID).
		Pluck("total_score", &totals).Error; err != nil {
		return nil, err
	}

	var avg *float64
	if len(totals) > 0 {
		v := averageOf(totals)
		avg = &v
	}
	if err := tx.Model(&models.Submission{}).
		Where("id = ?", submissionID).
		Update("average_score", avg).Error; err != nil {
		return nil, err
	}
	return avg, nil
}

// DeleteScore removes one judge's score row and recomputes the average.
// Organizer-only moderation path. DELETE /submissions/:id/scores/:judge_id
func (s *ScoreService) DeleteScore(c *fiber.Ctx) error {
	submissionID := c.Params("id")
	judgeID := c.Params("judge_id")

	var submission models.Submission
	if err := s.DB.First(&submission, "id = ?", submissionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "submission not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching submission"})
	}

	isOrganizer, err := s.Roles.IsOrganizer(submission.HackathonID, middleware.UserID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking organizer"})
	}
	if !isOrganizer {
		return respondError(c, &models.AuthorizationError{Message: "only the organizer may remove scores"})
	}

	if err := s.DB.Where("submission_id = ? AND judge_id = ?", submissionID, judgeID).
		Delete(&models.Score{}).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete score"})
	}

	avg, err := s.RecalculateAverage(c.Context(), submissionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "score removed", "average_score": avg})
}

// GetScores lists a submission's scores for the organizer or an assigned
// judge. GET /submissions/:id/scores
func (s *ScoreService) GetScores(c *fiber.Ctx) error {
	submissionID := c.Params("id")
	userID := middleware.UserID(c)

	var submission models.Submission
	if err := s.DB.First(&submission, "id = ?", submissionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "submission not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching submission"})
	}

	isOrganizer, err := s.Roles.IsOrganizer(submission.HackathonID, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking organizer"})
	}
	isJudge, err := s.Roles.IsAssignedJudge(submission.HackathonID, userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error checking judge assignment"})
	}
	if !isOrganizer && !isJudge {
		return respondError(c, &models.AuthorizationError{Message: "scores are visible to the organizer and assigned judges only"})
	}

	var scores []models.Score
	if err := s.DB.Where("submission_id = ?", submissionID).
		Order("scored_at ASC").Find(&scores).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch scores"})
	}

	return c.JSON(fiber.Map{
		"submission_id": submissionID,
		"average_score": submission.AverageScore,
		"scores":        scores,
	})
}
