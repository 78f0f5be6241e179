// Package metrics provides the production MetricsSource: live counters read
// from the infrastructure instead of hard-coded numbers.
package metrics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/careerbridge/careerbridge-api/internal/application"
	"github.com/careerbridge/careerbridge-api/pkg/helpers"
)

const sessionKeyPattern = "user:session:*"

// Source samples pgx pool stats, Redis session keys, and the RabbitMQ email
// queue backlog. Any unavailable component contributes a zero, never an error
// for the others.
type Source struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
	Queue *helpers.RabbitPublisher
}

func NewSource(pool *pgxpool.Pool, rdb *redis.Client, queue *helpers.RabbitPublisher) *Source {
	return &Source{Pool: pool, Redis: rdb, Queue: queue}
}

func (s *Source) Snapshot(ctx context.Context) (application.SystemSnapshot, error) {
	var snap application.SystemSnapshot

	if s.Pool != nil {
		stat := s.Pool.Stat()
		snap.DBConnsInUse = int(stat.AcquiredConns())
		snap.DBConnsIdle = int(stat.IdleConns())
	}

	if s.Redis != nil {
		snap.OnlineSessions = s.countSessions(ctx)
	}

	if s.Queue != nil {
		if depth, err := s.Queue.QueueDepth(); err == nil {
			snap.NotificationBacklog = depth
		}
	}

	return snap, ctx.Err()
}

// countSessions scans instead of KEYS so the sample stays cheap on a busy
// instance. The count is advisory; an exact figure is not worth a blocking scan.
func (s *Source) countSessions(ctx context.Context) int {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.Redis.Scan(ctx, cursor, sessionKeyPattern, 200).Result()
		if err != nil {
			return count
		}
		count += len(keys)
		if next == 0 {
			return count
		}
		cursor = next
	}
}

var _ application.MetricsSource = (*Source)(nil)
