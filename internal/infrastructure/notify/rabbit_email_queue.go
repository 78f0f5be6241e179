package notify

import (
	"context"

	"github.com/careerbridge/careerbridge-api/internal/application"
	"github.com/careerbridge/careerbridge-api/pkg/helpers"
	"github.com/careerbridge/careerbridge-api/pkg/mailer"
)

// RabbitEmailQueue adapts the shared RabbitMQ publisher to the EmailQueue
// port. The notify worker consumes the queue and sends via Mailgun.
type RabbitEmailQueue struct {
	pub *helpers.RabbitPublisher
}

func NewRabbitEmailQueue(pub *helpers.RabbitPublisher) *RabbitEmailQueue {
	return &RabbitEmailQueue{pub: pub}
}

func (q *RabbitEmailQueue) Enqueue(ctx context.Context, job mailer.EmailJob) error {
	return q.pub.PublishJSON(ctx, job)
}

var _ application.EmailQueue = (*RabbitEmailQueue)(nil)
