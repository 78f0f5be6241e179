package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerbridge/careerbridge-api/internal/domain/repository"
)

type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

func (r *AnalyticsRepository) count(ctx context.Context, table string, where []string, args []any) (int, error) {
	sql := "SELECT count(*) FROM " + table
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	var n int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *AnalyticsRepository) CountAccounts(ctx context.Context, f repository.AccountFilter) (int, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Role != nil {
		where = append(where, "role = "+arg(string(*f.Role)))
	}
	if f.IsActive != nil {
		where = append(where, "is_active = "+arg(*f.IsActive))
	}
	if f.IsVerified != nil {
		where = append(where, "is_verified = "+arg(*f.IsVerified))
	}
	if f.CreatedAfter != nil {
		where = append(where, "created_at >= "+arg(*f.CreatedAfter))
	}
	if f.CreatedBefore != nil {
		where = append(where, "created_at < "+arg(*f.CreatedBefore))
	}
	return r.count(ctx, "accounts", where, args)
}

func (r *AnalyticsRepository) CountApplications(ctx context.Context, f repository.ApplicationFilter) (int, error) {
	var where []string
	var args []any
	if f.CreatedAfter != nil {
		args = append(args, *f.CreatedAfter)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.CreatedBefore != nil {
		args = append(args, *f.CreatedBefore)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	return r.count(ctx, "applications", where, args)
}

func (r *AnalyticsRepository) CountJobPostings(ctx context.Context, f repository.JobFilter) (int, error) {
	var where []string
	var args []any
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if f.CreatedAfter != nil {
		args = append(args, *f.CreatedAfter)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.CreatedBefore != nil {
		args = append(args, *f.CreatedBefore)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	return r.count(ctx, "job_postings", where, args)
}

func (r *AnalyticsRepository) CountVerifiedCompanies(ctx context.Context) (int, error) {
	return r.count(ctx, "company_profiles", []string{"is_verified"}, nil)
}

func (r *AnalyticsRepository) QueryDailyApplicationJoin(ctx context.Context, start, end time.Time, limit int) ([]repository.DailyRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', a.created_at) AS day,
		       count(*) AS applications,
		       count(*) FILTER (WHERE a.status = 'ACCEPTED') AS accepted,
		       count(DISTINCT a.student_account_id) AS unique_students,
		       count(DISTINCT j.company_id) AS unique_companies
		FROM applications a
		JOIN job_postings j ON j.id = a.job_id
		WHERE a.created_at >= $1 AND a.created_at < $2
		GROUP BY 1
		ORDER BY 1 DESC
		LIMIT $3
	`, start, end, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.DailyRow
	for rows.Next() {
		var row repository.DailyRow
		if err := rows.Scan(&row.Day, &row.Applications, &row.Accepted,
			&row.UniqueStudents, &row.UniqueCompanies); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Ping is the aggregator's health probe; one round trip, no table access.
func (r *AnalyticsRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)
