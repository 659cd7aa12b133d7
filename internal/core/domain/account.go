package domain

import "time"

// Role governs what an authenticated caller may do.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Account models a user of the system. PasswordHash never leaves the store
// layer in serialized form.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sanitized returns a copy of the account with the password hash cleared.
func (a *Account) Sanitized() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.PasswordHash = ""
	return &clone
}

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	ID    string
	Email string
	Role  Role
}

// IsAdmin reports whether the identity holds the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanAccess reports whether the identity may act on the account with the
// given id. ADMIN may act on any account; USER only on its own.
func CanAccess(caller Identity, accountID string) bool {
	switch caller.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return caller.ID != "" && caller.ID == accountID
	default:
		return false
	}
}
