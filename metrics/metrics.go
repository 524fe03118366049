package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PhaseDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "engine_phase_denials_total", Help: "Actions denied by the phase gate"},
		[]string{"action"},
	)
	ScoreRecalculations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "engine_score_recalculations_total", Help: "Submission average recomputations"},
	)
	ScoreRecalcFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "engine_score_recalc_failures_total", Help: "Failed or timed-out average recomputations"},
	)
	CounterSyncRuns = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "engine_counter_sync_total", Help: "Denormalized counter resyncs processed"},
	)
	CounterSyncFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "engine_counter_sync_failures_total", Help: "Counter resyncs that failed or were dropped"},
	)
)

func Init() {
	prometheus.MustRegister(
		PhaseDenials,
		ScoreRecalculations,
		ScoreRecalcFailures,
		CounterSyncRuns,
		CounterSyncFailures,
	)
}
