package models

import "time"

// User is the local identity record mirroring an account on the panel.
// The panel account is linked by email lookup, not by foreign key.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// SessionUser is the identity snapshot written into the session on login.
// Its presence is the sole authorization signal; it is not re-validated
// against the store on every request, so it can go stale until next login.
// It never carries the password in any form.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}
