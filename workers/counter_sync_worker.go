package workers

import (
	"context"
	"log"

	"hackathon-judging-system/metrics"
	"hackathon-judging-system/models"

	"gorm.io/gorm"
)

// CounterSyncWorker keeps the denormalized team and participant counts on
// hackathons roughly current. It is fire-and-forget: enqueueing never
// blocks the mutation that triggered it, failures are logged and counted,
// and the periodic reconciliation sweep repairs anything dropped. The
// counts are display caches — gating logic never reads them.
type CounterSyncWorker struct {
	DB    *gorm.DB
	queue chan string
}

func NewCounterSyncWorker(db *gorm.DB, buffer int) *CounterSyncWorker {
	if buffer <= 0 {
		buffer = 256
	}
	return &CounterSyncWorker{
		DB:    db,
		queue: make(chan string, buffer),
	}
}

// Enqueue requests a resync for one hackathon. Non-blocking: when the
// queue is full the request is dropped and left to the sweep.
func (w *CounterSyncWorker) Enqueue(hackathonID string) {
	select {
	case w.queue <- hackathonID:
	default:
		metrics.CounterSyncFailures.Inc()
		log.Printf("⚠️  [COUNTER_SYNC] queue full, dropping resync for %s", hackathonID)
	}
}

// Start consumes the queue until ctx is cancelled.
func (w *CounterSyncWorker) Start(ctx context.Context) {
	log.Println("Starting counter sync worker...")
	for {
		select {
		case <-ctx.Done():
			log.Println("Counter sync worker stopped.")
			return
		case hackathonID := <-w.queue:
			if err := w.Resync(hackathonID); err != nil {
				metrics.CounterSyncFailures.Inc()
				log.Printf("❌ [COUNTER_SYNC] resync failed for %s: %v", hackathonID, err)
				continue
			}
			metrics.CounterSyncRuns.Inc()
		}
	}
}

// Resync recomputes a hackathon's counters from the live rows and writes
// them back. Idempotent; safe to retry or to run redundantly.
func (w *CounterSyncWorker) Resync(hackathonID string) error {
	var teamCount int64
	if err := w.DB.Model(&models.Team{}).
		Where("hackathon_id = ?", hackathonID).
		Count(&teamCount).Error; err != nil {
		return err
	}

	var participantCount int64
	if err := w.DB.Model(&models.Registration{}).
		Where("hackathon_id = ? AND status IN ?", hackathonID,
			[]string{models.RegistrationApproved, models.RegistrationConfirmed}).
		Count(&participantCount).Error; err != nil {
		return err
	}

	return w.DB.Model(&models.Hackathon{}).
		Where("id = ?", hackathonID).
		Updates(map[string]interface{}{
			"team_count":        teamCount,
			"participant_count": participantCount,
		}).Error
}

// ResyncAll enqueues every hackathon; used by the reconciliation sweep.
func (w *CounterSyncWorker) ResyncAll() error {
	var ids []string
	if err := w.DB.Model(&models.Hackathon{}).Pluck("id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		w.Enqueue(id)
	}
	return nil
}
