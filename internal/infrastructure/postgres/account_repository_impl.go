package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerbridge/careerbridge-api/internal/domain"
	"github.com/careerbridge/careerbridge-api/internal/domain/entity"
	"github.com/careerbridge/careerbridge-api/internal/domain/repository"
)

const accountColumns = `id, email, password_hash, name, role, is_active, is_verified, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	var role string
	if err := row.Scan(&a.ID, &a.Email, &a.Password, &a.Name, &role,
		&a.IsActive, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	a.Role = entity.Role(role)
	return a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id)
	return scanAccount(row)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE email = $1
	`, email)
	return scanAccount(row)
}

func (r *AccountRepository) ListActiveByRoles(ctx context.Context, roles []entity.Role) ([]*entity.Account, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE is_active AND role = ANY($1)
		ORDER BY created_at
	`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// loggedUpdate runs the primary write and the action-log insert in one
// transaction, so a visible state change always has its audit row.
func (r *AccountRepository) loggedUpdate(ctx context.Context, log *entity.AdminActionLog, sql string, args ...any) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	if err := insertActionLog(ctx, tx, log); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool, log *entity.AdminActionLog) error {
	return r.loggedUpdate(ctx, log, `
		UPDATE accounts
		SET is_active = $1, updated_at = $2
		WHERE id = $3
	`, active, time.Now(), id)
}

func (r *AccountRepository) SetVerified(ctx context.Context, id string, log *entity.AdminActionLog) error {
	return r.loggedUpdate(ctx, log, `
		UPDATE accounts
		SET is_verified = TRUE, updated_at = $1
		WHERE id = $2
	`, time.Now(), id)
}

func (r *AccountRepository) UpdateRole(ctx context.Context, id string, role entity.Role, log *entity.AdminActionLog) error {
	return r.loggedUpdate(ctx, log, `
		UPDATE accounts
		SET role = $1, updated_at = $2
		WHERE id = $3
	`, string(role), time.Now(), id)
}

func (r *AccountRepository) SetCompanyProfileVerified(ctx context.Context, accountID string, verified bool) error {
	// Zero rows is fine: the account simply carries no company profile.
	_, err := r.pool.Exec(ctx, `
		UPDATE company_profiles
		SET is_verified = $1, updated_at = $2
		WHERE account_id = $3
	`, verified, time.Now(), accountID)
	return err
}

// DeleteCascade removes the whole aggregate in one transaction: applications
// referencing the account (as student or through its postings), owned
// postings, both profile kinds, the audit row, and finally the account itself.
func (r *AccountRepository) DeleteCascade(ctx context.Context, id string, log *entity.AdminActionLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	steps := []string{
		`DELETE FROM applications
		 WHERE student_account_id = $1
		    OR job_id IN (
		        SELECT j.id FROM job_postings j
		        JOIN company_profiles cp ON cp.id = j.company_id
		        WHERE cp.account_id = $1
		    )`,
		`DELETE FROM job_postings
		 WHERE company_id IN (SELECT id FROM company_profiles WHERE account_id = $1)`,
		`DELETE FROM student_profiles WHERE account_id = $1`,
		`DELETE FROM company_profiles WHERE account_id = $1`,
	}
	for _, sql := range steps {
		if _, err := tx.Exec(ctx, sql, id); err != nil {
			return err
		}
	}

	if err := insertActionLog(ctx, tx, log); err != nil {
		return err
	}

	res, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertActionLog(ctx context.Context, tx pgx.Tx, log *entity.AdminActionLog) error {
	if log == nil {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO admin_action_logs (admin_id, target_id, action, reason, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, log.AdminID, log.TargetID, string(log.Action), log.Reason, log.Detail)
	return err
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
