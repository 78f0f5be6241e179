package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerbridge/careerbridge-api/internal/domain"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleStudent, RoleCompany, RoleAdmin, RoleHRManager} {
		assert.True(t, r.Valid(), "%s", r)
	}
	assert.False(t, Role("").Valid())
	assert.False(t, Role("SUPERUSER").Valid())
	assert.False(t, Role("student").Valid(), "roles are case sensitive")
}

func TestActionRequestValidate(t *testing.T) {
	for _, a := range []ActionType{ActionSuspend, ActionVerify, ActionActivate, ActionDelete} {
		assert.NoError(t, ActionRequest{Type: a}.Validate(), "%s", a)
	}

	assert.NoError(t, ActionRequest{Type: ActionRoleChange, NewRole: RoleHRManager}.Validate())

	err := ActionRequest{Type: ActionRoleChange}.Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	err = ActionRequest{Type: ActionRoleChange, NewRole: "WIZARD"}.Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	err = ActionRequest{Type: "PURGE"}.Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestNewActionLog(t *testing.T) {
	log := NewActionLog("adm-1", "u-1", ActionRequest{Type: ActionRoleChange, Reason: "promotion", NewRole: RoleHRManager})
	require.NotNil(t, log)
	assert.Equal(t, "adm-1", log.AdminID)
	assert.Equal(t, "u-1", log.TargetID)
	assert.Equal(t, ActionRoleChange, log.Action)
	assert.Equal(t, "promotion", log.Reason)
	assert.Equal(t, map[string]any{"new_role": "HR_MANAGER"}, log.Detail)

	plain := NewActionLog("adm-1", "u-1", ActionRequest{Type: ActionSuspend})
	assert.Nil(t, plain.Detail)
}
