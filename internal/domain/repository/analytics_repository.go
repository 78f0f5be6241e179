package repository

import (
	"context"
	"time"

	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
)

// AccountFilter narrows a CountAccounts query. Nil fields are not applied.
type AccountFilter struct {
	Role          *entity.Role
	IsActive      *bool
	IsVerified    *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// ApplicationFilter narrows a CountApplications query.
type ApplicationFilter struct {
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// JobFilter narrows a CountJobPostings query.
type JobFilter struct {
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// DailyRow is one day-bucket of the applications-against-postings join.
type DailyRow struct {
	Day             time.Time
	Applications    int
	Accepted        int
	UniqueStudents  int
	UniqueCompanies int
}

// AnalyticsRepository is the read-only boundary of the aggregator. Every
// method is an independent query; the service degrades per method on failure.
type AnalyticsRepository interface {
	CountAccounts(ctx context.Context, f AccountFilter) (int, error)
	CountApplications(ctx context.Context, f ApplicationFilter) (int, error)
	CountJobPostings(ctx context.Context, f JobFilter) (int, error)
	CountVerifiedCompanies(ctx context.Context) (int, error)

	// QueryDailyApplicationJoin groups applications joined to postings by day
	// within [start, end], most recent days first.
	QueryDailyApplicationJoin(ctx context.Context, start, end time.Time, limit int) ([]DailyRow, error)

	// Ping is the health-probe round trip; it must be cheap.
	Ping(ctx context.Context) error
}
