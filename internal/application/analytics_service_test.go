package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	repo "github.com/careerbridge/careerbridge-api/internal/domain/repository"
)

func TestGrowthRate(t *testing.T) {
	cases := []struct {
		name              string
		current, previous int
		want              float64
	}{
		{"growth from zero is full scale", 5, 0, 100},
		{"zero to zero is flat", 0, 0, 0},
		{"halved", 5, 10, -50},
		{"doubled", 20, 10, 100},
		{"moderate growth", 15, 10, 50},
		{"total loss", 0, 10, -100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, growthRate(tc.current, tc.previous), 1e-9)
		})
	}
}

// composeRepo answers with a consistent small platform census.
func composeRepo(now time.Time) *fakeAnalyticsRepo {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return &fakeAnalyticsRepo{
		accounts: func(f repo.AccountFilter) (int, error) {
			switch {
			case f.Role != nil:
				switch *f.Role {
				case entity.RoleStudent:
					return 80, nil
				case entity.RoleCompany:
					return 5, nil
				case entity.RoleAdmin:
					return 5, nil
				case entity.RoleHRManager:
					return 10, nil
				}
				return 0, nil
			case f.IsVerified != nil:
				return 40, nil
			case f.IsActive != nil:
				return 3, nil
			case f.CreatedAfter != nil && f.CreatedBefore != nil:
				return 10, nil // previous window
			case f.CreatedAfter != nil:
				if !f.CreatedAfter.Before(startOfDay) {
					return 2, nil // new today
				}
				return 20, nil // current window
			default:
				return 100, nil
			}
		},
		apps: func(f repo.ApplicationFilter) (int, error) {
			if f.CreatedAfter != nil {
				return 12, nil
			}
			return 500, nil
		},
		jobs: func(f repo.JobFilter) (int, error) {
			switch {
			case f.IsActive != nil:
				return 30, nil
			case f.CreatedAfter != nil && f.CreatedBefore != nil:
				return 4, nil
			case f.CreatedAfter != nil:
				return 8, nil
			default:
				return 50, nil
			}
		},
		verifiedCo: func() (int, error) { return 3, nil },
		daily: func(start, end time.Time, limit int) ([]repo.DailyRow, error) {
			return []repo.DailyRow{
				{Day: end.Truncate(24 * time.Hour), Applications: 10, Accepted: 5, UniqueStudents: 8, UniqueCompanies: 3},
				{Day: end.Truncate(24 * time.Hour).Add(-24 * time.Hour), Applications: 0, Accepted: 0},
			}, nil
		},
	}
}

func TestGetCrossRoleAnalyticsComposes(t *testing.T) {
	now := time.Now().UTC()
	svc := NewAnalyticsService(composeRepo(now), nil, nil, testLogger(), time.Second, 0)

	out := svc.GetCrossRoleAnalytics(context.Background(), TimeRange{})
	require.NotNil(t, out)

	assert.Equal(t, 100, out.Users.Total)
	assert.Equal(t, 80, out.Users.ByRole[entity.RoleStudent])
	assert.Equal(t, 5, out.Users.ByRole[entity.RoleCompany])
	assert.Equal(t, 2, out.Users.NewToday)
	assert.Equal(t, 40, out.Users.Verified)
	assert.Equal(t, 3, out.Users.Suspended)
	assert.InDelta(t, 100, out.Users.GrowthRate, 1e-9) // 20 vs 10

	assert.Equal(t, 500, out.Interactions.ApplicationsTotal)
	assert.Equal(t, 12, out.Interactions.ApplicationsToday)
	assert.Equal(t, 50, out.Interactions.JobsTotal)
	assert.Equal(t, 30, out.Interactions.JobsActive)
	assert.InDelta(t, 100, out.Interactions.JobGrowthRate, 1e-9) // 8 vs 4
	assert.Equal(t, 5, out.Interactions.CompaniesTotal)
	assert.Equal(t, 3, out.Interactions.CompaniesVerified)

	require.Len(t, out.CrossRole, 2)
	assert.InDelta(t, 0.5, out.CrossRole[0].AcceptanceRate, 1e-9)
	assert.Zero(t, out.CrossRole[1].AcceptanceRate)

	assert.Equal(t, "ok", out.Health.Status)

	// 40/100 verified and 5 companies per 80 students trip the first two
	// rules; latency and growth do not. Order follows rule declaration.
	require.Len(t, out.Recommendations, 2)
	assert.Contains(t, out.Recommendations[0], "Verification rate")
	assert.Contains(t, out.Recommendations[1], "Company-to-student ratio")
}

func TestGetCrossRoleAnalyticsRecomputesPerCall(t *testing.T) {
	now := time.Now().UTC()
	r := composeRepo(now)
	base := r.apps
	calls := 0
	r.apps = func(f repo.ApplicationFilter) (int, error) {
		calls++
		return base(f)
	}

	// a configured Redis client must not short-circuit the aggregation when
	// no cache TTL was opted into; the client is never even dialed
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	svc := NewAnalyticsService(r, nil, rdb, testLogger(), time.Second, 0)

	first := svc.GetCrossRoleAnalytics(context.Background(), TimeRange{})
	second := svc.GetCrossRoleAnalytics(context.Background(), TimeRange{})
	require.NotNil(t, first)
	require.NotNil(t, second)

	// application counts are read twice per aggregation (total and today), so
	// a second call that recomputes doubles the call count
	assert.Equal(t, 4, calls)
}

func TestGetCrossRoleAnalyticsDegradesPerSubFetch(t *testing.T) {
	now := time.Now().UTC()
	r := composeRepo(now)
	r.accounts = func(repo.AccountFilter) (int, error) { return 0, errors.New("relation missing") }

	svc := NewAnalyticsService(r, nil, nil, testLogger(), time.Second, 0)
	out := svc.GetCrossRoleAnalytics(context.Background(), TimeRange{})
	require.NotNil(t, out)

	// user census degrades to zeros, interactions degrade too (they share the
	// account counter), but the daily join and health probe still answer
	assert.Zero(t, out.Users.Total)
	assert.NotNil(t, out.Users.ByRole)
	assert.Zero(t, out.Interactions.CompaniesTotal)
	assert.Len(t, out.CrossRole, 2)
	assert.Equal(t, "ok", out.Health.Status)
}

func TestGetCrossRoleAnalyticsAllFetchesFail(t *testing.T) {
	boom := errors.New("db down")
	r := &fakeAnalyticsRepo{
		accounts:   func(repo.AccountFilter) (int, error) { return 0, boom },
		apps:       func(repo.ApplicationFilter) (int, error) { return 0, boom },
		jobs:       func(repo.JobFilter) (int, error) { return 0, boom },
		verifiedCo: func() (int, error) { return 0, boom },
		daily:      func(time.Time, time.Time, int) ([]repo.DailyRow, error) { return nil, boom },
		ping:       func(context.Context) error { return boom },
	}
	svc := NewAnalyticsService(r, nil, nil, testLogger(), 50*time.Millisecond, 0)

	out := svc.GetCrossRoleAnalytics(context.Background(), TimeRange{})
	require.NotNil(t, out, "a dead backend still yields a snapshot")
	assert.Zero(t, out.Users.Total)
	assert.Empty(t, out.CrossRole)
	assert.Equal(t, "degraded", out.Health.Status)
	assert.Equal(t, int64(50), out.Health.DatabaseLatencyMs)
	assert.False(t, out.GeneratedAt.IsZero())
}

func TestProbeHealthReportsTimeoutAsLatency(t *testing.T) {
	r := &fakeAnalyticsRepo{
		ping: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	svc := NewAnalyticsService(r, nil, nil, testLogger(), 30*time.Millisecond, 0)

	sample := svc.probeHealth(context.Background())
	assert.Equal(t, "degraded", sample.Status)
	assert.Equal(t, int64(30), sample.DatabaseLatencyMs)
}

func TestProbeHealthIncludesConnectionCount(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{}, &fakeMetricsSource{
		snap: SystemSnapshot{DBConnsInUse: 4, DBConnsIdle: 6},
	}, nil, testLogger(), time.Second, 0)

	sample := svc.probeHealth(context.Background())
	assert.Equal(t, "ok", sample.Status)
	assert.Equal(t, 10, sample.ActiveConnections)
}

func TestRecommendationsLatencyAndChurn(t *testing.T) {
	a := &CrossRoleAnalytics{
		Users: UserStats{
			Total:      10,
			Verified:   9,
			ByRole:     map[entity.Role]int{entity.RoleStudent: 5, entity.RoleCompany: 5},
			GrowthRate: -12,
		},
		Health: HealthSample{DatabaseLatencyMs: 1500},
	}
	recs := deriveRecommendations(a)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "round trips exceed")
	assert.Contains(t, recs[1], "shrank")
}

func TestRecommendationsEmptyOnHealthyPlatform(t *testing.T) {
	a := &CrossRoleAnalytics{
		Users: UserStats{
			Total:      10,
			Verified:   8,
			ByRole:     map[entity.Role]int{entity.RoleStudent: 5, entity.RoleCompany: 5},
			GrowthRate: 3,
		},
		Health: HealthSample{DatabaseLatencyMs: 12},
	}
	assert.Empty(t, deriveRecommendations(a))
}

func TestGetRealtimeMetrics(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{}, &fakeMetricsSource{
		snap: SystemSnapshot{OnlineSessions: 7, DBConnsInUse: 2, DBConnsIdle: 3, NotificationBacklog: 11},
	}, nil, testLogger(), time.Second, 0)

	m := svc.GetRealtimeMetrics(context.Background())
	assert.Equal(t, 7, m.OnlineSessions)
	assert.Equal(t, 2, m.DBConnsInUse)
	assert.Equal(t, 3, m.DBConnsIdle)
	assert.Equal(t, 11, m.NotificationBacklog)
	assert.False(t, m.Timestamp.IsZero())
}

func TestGetRealtimeMetricsDegradesToZeros(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{}, &fakeMetricsSource{err: errors.New("amqp closed")}, nil, testLogger(), time.Second, 0)

	m := svc.GetRealtimeMetrics(context.Background())
	assert.Zero(t, m.OnlineSessions)
	assert.Zero(t, m.NotificationBacklog)
}
