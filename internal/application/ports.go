package application

import (
	"context"

	"github.com/careerbridge/careerbridge-api/pkg/mailer"
)

// Notifier is the realtime notification channel. Delivery is fire-and-forget:
// callers log errors and move on, they never fail the triggering operation.
type Notifier interface {
	SendToRecipient(ctx context.Context, accountID, event string, payload any) error
	SendToAdminObservers(ctx context.Context, event string, payload any) error
}

// EmailQueue hands an email job to the delivery worker. Best-effort.
type EmailQueue interface {
	Enqueue(ctx context.Context, job mailer.EmailJob) error
}

// SystemSnapshot is one sample of live infrastructure counters.
type SystemSnapshot struct {
	DBConnsInUse        int
	DBConnsIdle         int
	OnlineSessions      int
	NotificationBacklog int
}

// MetricsSource supplies live system counters for the realtime metrics
// endpoint. Injectable so tests and the health view never rely on hard-coded
// numbers.
type MetricsSource interface {
	Snapshot(ctx context.Context) (SystemSnapshot, error)
}
