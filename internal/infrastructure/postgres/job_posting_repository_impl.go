package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	"github.com/careerbridge/careerbridge-api/internal/domain/repository"
)

type JobPostingRepository struct {
	pool *pgxpool.Pool
}

func NewJobPostingRepository(pool *pgxpool.Pool) *JobPostingRepository {
	return &JobPostingRepository{pool: pool}
}

func (r *JobPostingRepository) ListByCompanyAccount(ctx context.Context, accountID string) ([]*entity.JobPosting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT j.id, j.company_id, j.title, j.description, j.location, j.is_active, j.created_at, j.updated_at
		FROM job_postings j
		JOIN company_profiles cp ON cp.id = j.company_id
		WHERE cp.account_id = $1
		ORDER BY j.created_at
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.JobPosting
	for rows.Next() {
		j := &entity.JobPosting{}
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.Title, &j.Description, &j.Location,
			&j.IsActive, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *JobPostingRepository) SetActiveByCompanyAccount(ctx context.Context, accountID string, active bool) error {
	// Single statement; row-level atomicity from the database is enough here.
	_, err := r.pool.Exec(ctx, `
		UPDATE job_postings
		SET is_active = $1, updated_at = $2
		WHERE company_id IN (SELECT id FROM company_profiles WHERE account_id = $3)
	`, active, time.Now(), accountID)
	return err
}

var _ repository.JobPostingRepository = (*JobPostingRepository)(nil)
