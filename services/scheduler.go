// services/scheduler.go
package services

import (
	"log"
	"time"

	"hackathon-judging-system/models"
	"hackathon-judging-system/workers"

	"github.com/go-co-op/gocron/v2"
)

// StartLifecycleScheduler runs the periodic jobs: refreshing the cached
// status column from the resolver, and the counter reconciliation sweep.
// The status column is only a display hint — every decision path calls
// ResolvePhase directly — so this job lagging is harmless.
func (s *HackathonService) StartLifecycleScheduler(counters *workers.CounterSyncWorker) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: refresh the cached status of published hackathons.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var hackathons []models.Hackathon
			now := time.Now()
			err := s.DB.Where("declared_status = ?", models.StatusPublished).
				Find(&hackathons).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, h := range hackathons {
				phase := string(models.ResolvePhase(h.Timeline(), now))
				if phase == h.Status {
					continue
				}
				if err := s.DB.Model(&models.Hackathon{}).
					Where("id = ?", h.ID).
					Update("status", phase).Error; err != nil {
					log.Printf("[Scheduler] Failed to refresh status for %s: %v", h.ID, err)
				} else {
					log.Printf("✅ Hackathon %s entered %s", h.Name, phase)
				}
			}
		}),
	)

	// Every 10 minutes: reconcile the denormalized counters.
	_, _ = sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			if err := counters.ResyncAll(); err != nil {
				log.Printf("[Scheduler] counter sweep failed: %v", err)
			}
		}),
	)
}
