package application

import "github.com/careerbridge/careerbridge-api/internal/domain/entity"

// templateKey addresses one personalized message: what happened, seen by whom.
type templateKey struct {
	Action entity.ActionType
	Role   entity.Role
}

// roleAny is the per-action fallback entry; it keeps the lookup total for
// roles without a dedicated template (e.g. HR_MANAGER).
const roleAny entity.Role = "*"

// defaultMessage is the last-resort fallback for an unmapped (action, role)
// pair. The mapping must never fail to produce a message.
const defaultMessage = "A system update affected your account or data you interact with."

var messageTemplates = map[templateKey]string{
	{entity.ActionSuspend, entity.RoleStudent}: "A company you interacted with was suspended; some of its job postings are no longer available.",
	{entity.ActionSuspend, entity.RoleCompany}: "A company account on the platform was suspended and its job postings were deactivated.",
	{entity.ActionSuspend, entity.RoleAdmin}:   "An account was suspended by an administrator; its owned postings were deactivated.",
	{entity.ActionSuspend, roleAny}:            "An account was suspended.",

	{entity.ActionVerify, entity.RoleStudent}: "A company you follow is now verified; its job postings carry a verified badge.",
	{entity.ActionVerify, entity.RoleCompany}: "A company account was verified by the platform.",
	{entity.ActionVerify, entity.RoleAdmin}:   "An account passed verification; its profile flags were synced.",
	{entity.ActionVerify, roleAny}:            "An account was verified.",

	{entity.ActionActivate, entity.RoleStudent}: "A previously suspended company is active again; its job postings were restored.",
	{entity.ActionActivate, entity.RoleCompany}: "A company account was reactivated and its job postings restored.",
	{entity.ActionActivate, entity.RoleAdmin}:   "An account was reactivated; its owned postings are active again.",
	{entity.ActionActivate, roleAny}:            "An account was reactivated.",

	{entity.ActionDelete, entity.RoleAdmin}: "An account and all of its owned data were permanently removed.",
	{entity.ActionDelete, roleAny}:          "An account was removed from the platform.",

	{entity.ActionRoleChange, entity.RoleStudent}: "A platform member's role changed; job postings and applications you see may differ.",
	{entity.ActionRoleChange, entity.RoleCompany}: "A platform member's role changed; candidate visibility may be affected.",
	{entity.ActionRoleChange, entity.RoleAdmin}:   "An account's role was changed by an administrator.",
	{entity.ActionRoleChange, roleAny}:            "A platform member's role was changed.",
}

// MessageFor resolves the personalized message for one recipient. Total by
// construction: exact match, then per-action fallback, then defaultMessage.
func MessageFor(action entity.ActionType, role entity.Role) string {
	if m, ok := messageTemplates[templateKey{Action: action, Role: role}]; ok {
		return m
	}
	if m, ok := messageTemplates[templateKey{Action: action, Role: roleAny}]; ok {
		return m
	}
	return defaultMessage
}
