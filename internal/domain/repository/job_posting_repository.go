package repository

import (
	"context"

	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
)

// JobPostingRepository covers the cascade writes on postings owned by a
// company account. Both methods resolve ownership through the company profile.
type JobPostingRepository interface {
	ListByCompanyAccount(ctx context.Context, accountID string) ([]*entity.JobPosting, error)
	SetActiveByCompanyAccount(ctx context.Context, accountID string, active bool) error
}
