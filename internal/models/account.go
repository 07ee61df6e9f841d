package models

import "time"

// Role is the access level embedded in session tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one the system knows.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account is a credential record, user or admin. The two legacy
// collections are collapsed into one table tagged by Role, so a username
// can never exist twice with different roles. PasswordHash is nil for
// OAuth-only identities.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash *string   `db:"password_hash" json:"-"`
	GoogleID     *string   `db:"google_id" json:"-"`
	Role         Role      `db:"role" json:"role"`
	DarkMode     bool      `db:"dark_mode" json:"darkMode"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// Profile is the account summary returned by GET /auth/profile.
type Profile struct {
	Username            string `json:"username"`
	Role                Role   `json:"role"`
	DarkMode            bool   `json:"darkMode"`
	EnrolledCourseCount int    `json:"enrolledCourseCount"`
}
