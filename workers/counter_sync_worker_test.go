package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Enqueue must never block the mutation that triggered it, even with no
// consumer running and the queue full.
func TestEnqueue_NonBlockingWhenFull(t *testing.T) {
	w := NewCounterSyncWorker(nil, 2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			w.Enqueue("hackathon-1")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	assert.Len(t, w.queue, 2, "overflow beyond the buffer is dropped")
}
