package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	repo "github.com/careerbridge/careerbridge-api/internal/domain/repository"
	"github.com/careerbridge/careerbridge-api/pkg/helpers"
)

const (
	growthWindow     = 30 * 24 * time.Hour
	crossRoleBuckets = 30
)

// TimeRange bounds an analytics query. A zero range defaults to the trailing
// growth window.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// UserStats is the per-role account census.
type UserStats struct {
	Total      int                 `json:"total"`
	ByRole     map[entity.Role]int `json:"by_role"`
	NewToday   int                 `json:"new_today"`
	Verified   int                 `json:"verified"`
	Suspended  int                 `json:"suspended"`
	GrowthRate float64             `json:"growth_rate"`
}

// InteractionStats counts platform activity volume.
type InteractionStats struct {
	ApplicationsTotal int     `json:"applications_total"`
	ApplicationsToday int     `json:"applications_today"`
	JobsTotal         int     `json:"jobs_total"`
	JobsActive        int     `json:"jobs_active"`
	JobGrowthRate     float64 `json:"job_growth_rate"`
	CompaniesTotal    int     `json:"companies_total"`
	CompaniesVerified int     `json:"companies_verified"`
}

// HealthSample is one cheap responsiveness probe of the persistence layer.
type HealthSample struct {
	DatabaseLatencyMs int64  `json:"database_latency_ms"`
	Status            string `json:"status"`
	ActiveConnections int    `json:"active_connections"`
}

// DailyCrossRole is one day of the applications-against-postings join.
type DailyCrossRole struct {
	Day             string  `json:"day"`
	Applications    int     `json:"applications"`
	UniqueStudents  int     `json:"unique_students"`
	UniqueCompanies int     `json:"unique_companies"`
	AcceptanceRate  float64 `json:"acceptance_rate"`
}

// CrossRoleAnalytics is the composed dashboard snapshot. Recomputed on every
// call; it has no persisted identity.
type CrossRoleAnalytics struct {
	Range           TimeRange        `json:"range"`
	Users           UserStats        `json:"users"`
	Interactions    InteractionStats `json:"interactions"`
	Health          HealthSample     `json:"health"`
	CrossRole       []DailyCrossRole `json:"cross_role"`
	Recommendations []string         `json:"recommendations"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// RealtimeMetrics is the live infrastructure sample for the admin dashboard.
type RealtimeMetrics struct {
	OnlineSessions      int       `json:"online_sessions"`
	DBConnsInUse        int       `json:"db_conns_in_use"`
	DBConnsIdle         int       `json:"db_conns_idle"`
	NotificationBacklog int       `json:"notification_backlog"`
	Timestamp           time.Time `json:"timestamp"`
}

// AnalyticsService composes the admin dashboard statistics. Its contract is
// best-effort composite: a failing sub-computation degrades to neutral
// defaults instead of failing the whole call.
type AnalyticsService struct {
	Repo    repo.AnalyticsRepository
	Metrics MetricsSource
	Redis   *redis.Client
	Logger  *logrus.Logger

	// ProbeTimeout bounds the health probe independently of the caller's
	// deadline; the probe measures responsiveness, it must not inherit a stall.
	ProbeTimeout time.Duration

	// CacheTTL is zero by default: every call recomputes the snapshot. A
	// positive TTL opts into serving a Redis-cached snapshot that can lag the
	// latest admin action by up to the TTL.
	CacheTTL time.Duration
}

func NewAnalyticsService(r repo.AnalyticsRepository, metrics MetricsSource, rdb *redis.Client, logger *logrus.Logger, probeTimeout, cacheTTL time.Duration) *AnalyticsService {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &AnalyticsService{Repo: r, Metrics: metrics, Redis: rdb, Logger: logger, ProbeTimeout: probeTimeout, CacheTTL: cacheTTL}
}

// GetCrossRoleAnalytics runs the four independent sub-fetches concurrently and
// joins them into one snapshot.
func (s *AnalyticsService) GetCrossRoleAnalytics(ctx context.Context, rng TimeRange) *CrossRoleAnalytics {
	now := time.Now().UTC()
	if rng.End.IsZero() {
		rng.End = now
	}
	if rng.Start.IsZero() {
		rng.Start = rng.End.Add(-growthWindow)
	}

	if cached := s.cachedSnapshot(ctx, rng); cached != nil {
		return cached
	}

	type userRes struct {
		stats UserStats
		err   error
	}
	type interactionRes struct {
		stats InteractionStats
		err   error
	}
	type crossRes struct {
		rows []DailyCrossRole
		err  error
	}

	userCh := make(chan userRes, 1)
	interCh := make(chan interactionRes, 1)
	healthCh := make(chan HealthSample, 1)
	crossCh := make(chan crossRes, 1)

	go func() {
		stats, err := s.fetchUserStats(ctx, now)
		userCh <- userRes{stats, err}
	}()
	go func() {
		stats, err := s.fetchInteractionStats(ctx, now)
		interCh <- interactionRes{stats, err}
	}()
	go func() {
		healthCh <- s.probeHealth(ctx)
	}()
	go func() {
		rows, err := s.fetchCrossRole(ctx, rng)
		crossCh <- crossRes{rows, err}
	}()

	users := <-userCh
	inter := <-interCh
	health := <-healthCh
	cross := <-crossCh

	out := &CrossRoleAnalytics{
		Range:       rng,
		Health:      health,
		GeneratedAt: now,
	}
	if users.err != nil {
		s.Logger.WithError(users.err).Warn("user statistics unavailable; reporting zeros")
		users.stats = UserStats{ByRole: map[entity.Role]int{}}
	}
	out.Users = users.stats
	if inter.err != nil {
		s.Logger.WithError(inter.err).Warn("interaction statistics unavailable; reporting zeros")
		inter.stats = InteractionStats{}
	}
	out.Interactions = inter.stats
	if cross.err != nil {
		s.Logger.WithError(cross.err).Warn("cross-role metrics unavailable; reporting empty buckets")
		cross.rows = []DailyCrossRole{}
	}
	out.CrossRole = cross.rows

	out.Recommendations = deriveRecommendations(out)

	s.cacheSnapshot(ctx, rng, out)
	return out
}

// GetRealtimeMetrics samples the injected metrics source.
func (s *AnalyticsService) GetRealtimeMetrics(ctx context.Context) RealtimeMetrics {
	out := RealtimeMetrics{Timestamp: time.Now().UTC()}
	if s.Metrics == nil {
		return out
	}
	c, cancel := context.WithTimeout(ctx, s.ProbeTimeout)
	defer cancel()
	snap, err := s.Metrics.Snapshot(c)
	if err != nil {
		s.Logger.WithError(err).Warn("metrics snapshot unavailable; reporting zeros")
		return out
	}
	out.OnlineSessions = snap.OnlineSessions
	out.DBConnsInUse = snap.DBConnsInUse
	out.DBConnsIdle = snap.DBConnsIdle
	out.NotificationBacklog = snap.NotificationBacklog
	return out
}

func (s *AnalyticsService) fetchUserStats(ctx context.Context, now time.Time) (UserStats, error) {
	stats := UserStats{ByRole: make(map[entity.Role]int)}

	total, err := s.Repo.CountAccounts(ctx, repo.AccountFilter{})
	if err != nil {
		return stats, err
	}
	stats.Total = total

	for _, role := range []entity.Role{entity.RoleStudent, entity.RoleCompany, entity.RoleAdmin, entity.RoleHRManager} {
		r := role
		n, err := s.Repo.CountAccounts(ctx, repo.AccountFilter{Role: &r})
		if err != nil {
			return stats, err
		}
		stats.ByRole[role] = n
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if stats.NewToday, err = s.Repo.CountAccounts(ctx, repo.AccountFilter{CreatedAfter: &startOfDay}); err != nil {
		return stats, err
	}

	verified := true
	if stats.Verified, err = s.Repo.CountAccounts(ctx, repo.AccountFilter{IsVerified: &verified}); err != nil {
		return stats, err
	}
	active := false
	if stats.Suspended, err = s.Repo.CountAccounts(ctx, repo.AccountFilter{IsActive: &active}); err != nil {
		return stats, err
	}

	current, previous, err := s.windowedAccountCounts(ctx, now)
	if err != nil {
		return stats, err
	}
	stats.GrowthRate = growthRate(current, previous)
	return stats, nil
}

func (s *AnalyticsService) windowedAccountCounts(ctx context.Context, now time.Time) (current, previous int, err error) {
	windowStart := now.Add(-growthWindow)
	prevStart := now.Add(-2 * growthWindow)

	current, err = s.Repo.CountAccounts(ctx, repo.AccountFilter{CreatedAfter: &windowStart})
	if err != nil {
		return 0, 0, err
	}
	previous, err = s.Repo.CountAccounts(ctx, repo.AccountFilter{CreatedAfter: &prevStart, CreatedBefore: &windowStart})
	if err != nil {
		return 0, 0, err
	}
	return current, previous, nil
}

func (s *AnalyticsService) fetchInteractionStats(ctx context.Context, now time.Time) (InteractionStats, error) {
	var stats InteractionStats
	var err error

	if stats.ApplicationsTotal, err = s.Repo.CountApplications(ctx, repo.ApplicationFilter{}); err != nil {
		return stats, err
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if stats.ApplicationsToday, err = s.Repo.CountApplications(ctx, repo.ApplicationFilter{CreatedAfter: &startOfDay}); err != nil {
		return stats, err
	}

	if stats.JobsTotal, err = s.Repo.CountJobPostings(ctx, repo.JobFilter{}); err != nil {
		return stats, err
	}
	active := true
	if stats.JobsActive, err = s.Repo.CountJobPostings(ctx, repo.JobFilter{IsActive: &active}); err != nil {
		return stats, err
	}

	windowStart := now.Add(-growthWindow)
	prevStart := now.Add(-2 * growthWindow)
	currentJobs, err := s.Repo.CountJobPostings(ctx, repo.JobFilter{CreatedAfter: &windowStart})
	if err != nil {
		return stats, err
	}
	previousJobs, err := s.Repo.CountJobPostings(ctx, repo.JobFilter{CreatedAfter: &prevStart, CreatedBefore: &windowStart})
	if err != nil {
		return stats, err
	}
	stats.JobGrowthRate = growthRate(currentJobs, previousJobs)

	company := entity.RoleCompany
	if stats.CompaniesTotal, err = s.Repo.CountAccounts(ctx, repo.AccountFilter{Role: &company}); err != nil {
		return stats, err
	}
	if stats.CompaniesVerified, err = s.Repo.CountVerifiedCompanies(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

// probeHealth times one repository round trip under its own deadline. A probe
// that cannot answer within ProbeTimeout reports the timeout as its latency
// instead of stalling the aggregation.
func (s *AnalyticsService) probeHealth(ctx context.Context) HealthSample {
	sample := HealthSample{Status: "ok"}

	c, cancel := context.WithTimeout(ctx, s.ProbeTimeout)
	defer cancel()

	started := time.Now()
	err := s.Repo.Ping(c)
	elapsed := time.Since(started)

	if err != nil {
		sample.DatabaseLatencyMs = s.ProbeTimeout.Milliseconds()
		sample.Status = "degraded"
	} else {
		sample.DatabaseLatencyMs = elapsed.Milliseconds()
	}

	if s.Metrics != nil {
		if snap, err := s.Metrics.Snapshot(c); err == nil {
			sample.ActiveConnections = snap.DBConnsInUse + snap.DBConnsIdle
		}
	}
	return sample
}

func (s *AnalyticsService) fetchCrossRole(ctx context.Context, rng TimeRange) ([]DailyCrossRole, error) {
	rows, err := s.Repo.QueryDailyApplicationJoin(ctx, rng.Start, rng.End, crossRoleBuckets)
	if err != nil {
		return nil, err
	}
	out := make([]DailyCrossRole, 0, len(rows))
	for _, r := range rows {
		rate := 0.0
		if r.Applications > 0 {
			rate = float64(r.Accepted) / float64(r.Applications)
		}
		out = append(out, DailyCrossRole{
			Day:             r.Day.Format("2006-01-02"),
			Applications:    r.Applications,
			UniqueStudents:  r.UniqueStudents,
			UniqueCompanies: r.UniqueCompanies,
			AcceptanceRate:  rate,
		})
	}
	if len(out) > crossRoleBuckets {
		out = out[:crossRoleBuckets]
	}
	return out, nil
}

// growthRate compares two adjacent windows. Going from nothing to something is
// a full-scale increase, not a division by zero.
func growthRate(current, previous int) float64 {
	if previous > 0 {
		return float64(current-previous) / float64(previous) * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

// recommendationRule pairs a threshold predicate with its advisory text.
// Rules are independent and evaluated in declaration order, so the output is
// deterministic for a given snapshot.
type recommendationRule struct {
	when    func(a *CrossRoleAnalytics) bool
	message string
}

var recommendationRules = []recommendationRule{
	{
		when: func(a *CrossRoleAnalytics) bool {
			return a.Users.Total > 0 && float64(a.Users.Verified)/float64(a.Users.Total) < 0.5
		},
		message: "Verification rate is below 50%; consider prompting unverified users to complete verification.",
	},
	{
		when: func(a *CrossRoleAnalytics) bool {
			students := a.Users.ByRole[entity.RoleStudent]
			return students > 0 && float64(a.Users.ByRole[entity.RoleCompany])/float64(students) < 0.1
		},
		message: "Company-to-student ratio is below 1:10; invest in company acquisition to balance the marketplace.",
	},
	{
		when: func(a *CrossRoleAnalytics) bool {
			return a.Health.DatabaseLatencyMs > 1000
		},
		message: "Persistence round trips exceed 1s; optimize database queries or connection pooling.",
	},
	{
		when: func(a *CrossRoleAnalytics) bool {
			return a.Users.GrowthRate < 0
		},
		message: "User base shrank over the last window; review churn before it compounds.",
	},
}

func deriveRecommendations(a *CrossRoleAnalytics) []string {
	out := []string{}
	for _, rule := range recommendationRules {
		if rule.when(a) {
			out = append(out, rule.message)
		}
	}
	return out
}

func snapshotCacheKey(rng TimeRange) string {
	return "analytics:crossrole:" + rng.Start.Format("2006-01-02") + ":" + rng.End.Format("2006-01-02")
}

func (s *AnalyticsService) cachedSnapshot(ctx context.Context, rng TimeRange) *CrossRoleAnalytics {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return nil
	}
	var snap CrossRoleAnalytics
	ok, err := helpers.RedisGetJSON(ctx, s.Redis, snapshotCacheKey(rng), &snap)
	if err != nil || !ok {
		return nil
	}
	return &snap
}

func (s *AnalyticsService) cacheSnapshot(ctx context.Context, rng TimeRange, snap *CrossRoleAnalytics) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, snapshotCacheKey(rng), snap, s.CacheTTL); err != nil {
		s.Logger.WithError(err).Warn("analytics snapshot cache write failed")
	}
}
