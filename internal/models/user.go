package models

// Role is a user's access level.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// User is an account. Exactly one user with username "admin" exists after
// initialization and it can never be deleted.
//
// Passwords are stored and compared as plaintext. That is a deliberate,
// preserved property of the system being reimplemented, not an oversight.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// RecordID implements storage.Record. Users carry no owner field; they are
// admin-only data and are never stamped during migration.
func (u *User) RecordID() string { return u.ID }
