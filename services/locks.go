package services

import "sync"

// SubmissionLocks hands out one mutex per submission id so that the
// read-compute-write average recomputation is serialized per submission
// while different submissions stay fully parallel. The DB transaction takes
// a row lock as well; this keeps in-process callers ordered without a
// round-trip and makes the critical section testable without a database.
type SubmissionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSubmissionLocks() *SubmissionLocks {
	return &SubmissionLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given submission, creating it on first
// use, and returns the unlock function.
func (l *SubmissionLocks) Lock(submissionID string) func() {
	l.mu.Lock()
	m, ok := l.locks[submissionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[submissionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
