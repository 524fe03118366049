package services

import (
	"context"
	"log"
)

// Notifier is the fire-and-forget notification sink invoked when a
// registration's status changes. Delivery is best-effort: implementations
// must never fail the mutation that triggered them.
type Notifier interface {
	Notify(ctx context.Context, userID, subject, body string)
}

// LogNotifier writes notifications to the service log. Stands in for the
// real delivery service in development and tests.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, userID, subject, body string) {
	log.Printf("📣 [NOTIFY] to=%s subject=%q body=%q", userID, subject, body)
}
