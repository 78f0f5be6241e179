package entity

import (
	"fmt"
	"time"

	"github.com/careerbridge/careerbridge-api/internal/domain"
)

// ActionType is the closed set of state transitions an admin can apply to an
// account. Anything outside this set is rejected before dispatch.
type ActionType string

const (
	ActionSuspend    ActionType = "SUSPEND"
	ActionVerify     ActionType = "VERIFY"
	ActionActivate   ActionType = "ACTIVATE"
	ActionDelete     ActionType = "DELETE"
	ActionRoleChange ActionType = "ROLE_CHANGE"
)

// ActionRequest describes one requested transition. NewRole is required for
// ROLE_CHANGE and ignored otherwise.
type ActionRequest struct {
	Type    ActionType
	Reason  string
	NewRole Role
}

// Validate checks the per-kind required fields before any state is touched.
func (r ActionRequest) Validate() error {
	switch r.Type {
	case ActionSuspend, ActionVerify, ActionActivate, ActionDelete:
		return nil
	case ActionRoleChange:
		if r.NewRole == "" {
			return fmt.Errorf("%w: new_role is required for ROLE_CHANGE", domain.ErrInvalidAction)
		}
		if !r.NewRole.Valid() {
			return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidAction, r.NewRole)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown action type %q", domain.ErrInvalidAction, r.Type)
	}
}

// AffectedUpdate is the declarative record of a completed transition: what
// changed and which roles care. It drives the notification fan-out and is
// never persisted.
type AffectedUpdate struct {
	Type          ActionType
	EntityID      string
	EntityType    string
	Data          map[string]any
	AffectedRoles []Role
}

// AdminActionLog is the durable audit record of one admin action. It is
// inserted in the same transaction as the primary write, so a visible state
// change always has a matching log row.
type AdminActionLog struct {
	ID        string
	AdminID   string
	TargetID  string
	Action    ActionType
	Reason    string
	Detail    map[string]any
	CreatedAt time.Time
}

// NewActionLog builds the audit row for a requested action.
func NewActionLog(adminID, targetID string, req ActionRequest) *AdminActionLog {
	log := &AdminActionLog{
		AdminID:  adminID,
		TargetID: targetID,
		Action:   req.Type,
		Reason:   req.Reason,
	}
	if req.Type == ActionRoleChange {
		log.Detail = map[string]any{"new_role": string(req.NewRole)}
	}
	return log
}
