package entity

import "time"

// StudentProfile is owned 1:1 by a STUDENT account. Its lifecycle is tied to
// the account: created alongside it and removed by the delete cascade.
type StudentProfile struct {
	ID        string
	AccountID string
	Headline  string
	ResumeURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompanyProfile is owned 1:1 by a COMPANY account. IsVerified here is the
// company-facing flag; the owning Account carries its own verification flag.
type CompanyProfile struct {
	ID          string
	AccountID   string
	CompanyName string
	Website     string
	IsVerified  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
