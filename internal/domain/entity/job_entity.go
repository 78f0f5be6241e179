package entity

import "time"

// JobPosting is owned by exactly one CompanyProfile. When the owning account
// is suspended every posting it owns goes inactive; reactivation restores them.
type JobPosting struct {
	ID          string
	CompanyID   string // owning CompanyProfile id
	Title       string
	Description string
	Location    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application links a STUDENT account to a JobPosting. The admin core only
// touches it for the delete cascade and for aggregate counts.
type Application struct {
	ID        string
	JobID     string
	StudentID string // applying student's account id
	Status    ApplicationStatus
	CreatedAt time.Time
}
