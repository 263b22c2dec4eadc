package models

// Professor is a canonical directory entry resolved from the external
// professor directory backend. Read-only reference data.
type Professor struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
	Status string `json:"status,omitempty"`
}

// UnassignedProfessorName is the display fallback when a professor id
// cannot be resolved against the directory.
const UnassignedProfessorName = "No asignado"
