package repository

import (
	"context"

	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
)

// AccountRepository is the write-side boundary of the admin core. Mutating
// methods that take an AdminActionLog must persist the log row in the same
// transaction as the primary write.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// ListActiveByRoles returns every active account whose role is in roles.
	ListActiveByRoles(ctx context.Context, roles []entity.Role) ([]*entity.Account, error)

	SetActive(ctx context.Context, id string, active bool, log *entity.AdminActionLog) error
	SetVerified(ctx context.Context, id string, log *entity.AdminActionLog) error
	UpdateRole(ctx context.Context, id string, role entity.Role, log *entity.AdminActionLog) error

	// SetCompanyProfileVerified syncs the owned CompanyProfile flag with the
	// account's verification flag. No-op for accounts without a company profile.
	SetCompanyProfileVerified(ctx context.Context, accountID string, verified bool) error

	// DeleteCascade atomically removes the account, its profile, its job
	// postings and every application referencing it, and records the action
	// log — all in one transaction. Partial failure leaves everything as it was.
	DeleteCascade(ctx context.Context, id string, log *entity.AdminActionLog) error
}
