// Package domain holds the error taxonomy shared by the core services.
// Handlers translate these with errors.Is; nothing here depends on transport.
package domain

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidAction   = errors.New("invalid action")
	ErrTransactionFail = errors.New("transaction could not be completed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrNotAdmin           = errors.New("account is not an admin")
)
