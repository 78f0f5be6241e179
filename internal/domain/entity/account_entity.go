package entity

import "time"

// Role is the single authorization role carried by an Account.
// An account holds exactly one role at a time; changing it is an explicit
// admin transition, never a free mutation.
type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleCompany   Role = "COMPANY"
	RoleAdmin     Role = "ADMIN"
	RoleHRManager Role = "HR_MANAGER"
)

// Valid reports whether r is one of the known platform roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleAdmin, RoleHRManager:
		return true
	}
	return false
}

// Account is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in Password.
// IsVerified on a COMPANY account must stay in agreement with the owned
// CompanyProfile.IsVerified; the admin service keeps them in sync.
type Account struct {
	ID         string
	Email      string
	Password   string
	Name       string
	Role       Role
	IsActive   bool
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
