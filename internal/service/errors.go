package service

import (
	"errors"
	"fmt"
)

// User-facing sentinel errors. Messages are rendered verbatim on the
// originating form or returned in JSON error fields.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials.")
	ErrDuplicateUser      = errors.New("Username or email is already registered.")
	ErrPanelUserMissing   = errors.New("Could not find your associated panel account.")
	ErrOwningServers      = errors.New("Cannot delete account while owning servers.")
	ErrSelfTarget         = errors.New("cannot target your own account through this route")
	ErrIncorrectPassword  = errors.New("Incorrect current password.")
	ErrServerNotOwned     = errors.New("Server not found or you do not have permission to access it.")
	ErrUserNotFound       = errors.New("User not found.")
)

// ValidationError carries a form-validation message meant to be rendered to
// the user verbatim.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// PartialFailureError marks a two-system write that half-completed: the
// remote panel and the local store now disagree about this identity. It is
// surfaced distinctly so operators can reconcile by hand; nothing retries.
type PartialFailureError struct {
	Op  string
	Err error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure during %s: %v", e.Op, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }
