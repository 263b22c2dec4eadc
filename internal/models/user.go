package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleProfessor UserRole = "professor"
	RoleDirector  UserRole = "director"
)

// CanonicalRole translates the role spellings used by the external
// identity backends into the internal role identifiers. The SSO bridge,
// login and token validation all share this single table.
func CanonicalRole(raw string) (UserRole, bool) {
	switch raw {
	case "student", "alumno", "estudiante":
		return RoleStudent, true
	case "professor", "docente", "profesor":
		return RoleProfessor, true
	case "director":
		return RoleDirector, true
	}
	return "", false
}

// User represents an application account stored in the users table.
// SubjectID links the account to its student or professor identity.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"fullName"`
	Role         UserRole   `db:"role" json:"role"`
	SubjectID    string     `db:"subject_id" json:"subjectId"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
