package services

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageOf(t *testing.T) {
	tests := []struct {
		name   string
		totals []float64
		want   float64
	}{
		{name: "three scores", totals: []float64{80, 90, 70}, want: 80.00},
		{name: "two scores", totals: []float64{80, 90}, want: 85.00},
		{name: "single score", totals: []float64{73}, want: 73.00},
		{name: "rounds to 2 decimals", totals: []float64{80, 85, 90.5}, want: 85.17},
		{name: "repeating decimal", totals: []float64{70, 80, 95}, want: 81.67},
		{name: "zeros count", totals: []float64{0, 100}, want: 50.00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, averageOf(tt.totals))
		})
	}
}

func TestAverageOf_OrderIndependent(t *testing.T) {
	orders := [][]float64{
		{80, 90, 70},
		{70, 80, 90},
		{90, 70, 80},
	}
	for _, totals := range orders {
		assert.Equal(t, 80.00, averageOf(totals))
	}
}

func TestAverageOf_Idempotent(t *testing.T) {
	// Recomputing over an unchanged score set must not drift.
	totals := []float64{66.5, 72, 90}
	first := averageOf(totals)
	second := averageOf(totals)
	assert.Equal(t, first, second)
}

func TestSubmissionLocks_SerializesPerSubmission(t *testing.T) {
	locks := NewSubmissionLocks()

	var inside int
	var maxInside int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("submission-1")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside, "critical section admitted more than one caller")
}

// TestConcurrentRecalculation drives the read-all/compute/write-back
// sequence from many judges at once, the way two overlapping RecordScore
// calls would. With the per-submission lock the final written average must
// reflect the complete score set, never a stale snapshot.
func TestConcurrentRecalculation(t *testing.T) {
	locks := NewSubmissionLocks()

	// Shared state standing in for the score rows and the persisted average.
	var rows []float64
	var persisted *float64

	recordAndRecalculate := func(total float64) {
		unlock := locks.Lock("submission-1")
		defer unlock()

		// Write this judge's row, then recompute from every current row —
		// a full recomputation, not an increment.
		rows = append(rows, total)
		snapshot := append([]float64(nil), rows...)

		// Widen the race window between read and write-back.
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)

		avg := averageOf(snapshot)
		persisted = &avg
	}

	var wg sync.WaitGroup
	for _, total := range []float64{80, 90} {
		wg.Add(1)
		go func(total float64) {
			defer wg.Done()
			recordAndRecalculate(total)
		}(total)
	}
	wg.Wait()

	require.NotNil(t, persisted)
	assert.Equal(t, 85.00, *persisted, "final average must cover both scores regardless of arrival order")
}

func TestConcurrentRecalculation_ManyJudges(t *testing.T) {
	locks := NewSubmissionLocks()

	var rows []float64
	var persisted *float64

	totals := []float64{55, 60, 65, 70, 75, 80, 85, 90, 95, 100}

	var wg sync.WaitGroup
	for _, total := range totals {
		wg.Add(1)
		go func(total float64) {
			defer wg.Done()
			unlock := locks.Lock("submission-xyz")
			defer unlock()
			rows = append(rows, total)
			avg := averageOf(append([]float64(nil), rows...))
			persisted = &avg
		}(total)
	}
	wg.Wait()

	require.NotNil(t, persisted)
	assert.Equal(t, averageOf(totals), *persisted)
	assert.Equal(t, 77.50, *persisted)
}
