package models

import "time"

// Student is the local roster record used to resolve manual-completion
// entries by email and to derive display identifiers.
type Student struct {
	ID         string    `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"fullName"`
	Email      string    `db:"email" json:"email"`
	Enrollment string    `db:"enrollment" json:"enrollment"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
