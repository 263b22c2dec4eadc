package models

import "time"

// AdvisoryStatus enumerates the request lifecycle states.
type AdvisoryStatus string

const (
	StatusPending     AdvisoryStatus = "pending"
	StatusAccepted    AdvisoryStatus = "accepted"
	StatusRejected    AdvisoryStatus = "rejected"
	StatusRescheduled AdvisoryStatus = "rescheduled"
	StatusCompleted   AdvisoryStatus = "completed"
)

// Terminal reports whether the status admits no further transitions.
func (s AdvisoryStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// Valid reports whether the value is a known lifecycle state.
func (s AdvisoryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusRescheduled, StatusCompleted:
		return true
	}
	return false
}

// AdvisoryType distinguishes individual from group sessions.
type AdvisoryType string

const (
	TypeIndividual AdvisoryType = "individual"
	TypeGroup      AdvisoryType = "group"
)

// Advisory represents a requested or delivered advisory session.
// rejection_reason doubles as the reschedule motive and is set iff
// status is rejected or rescheduled.
type Advisory struct {
	ID              string         `db:"id" json:"id"`
	StudentID       string         `db:"student_id" json:"studentId"`
	StudentName     string         `db:"student_name" json:"studentName"`
	StudentEmail    string         `db:"student_email" json:"studentEmail,omitempty"`
	ProfessorID     string         `db:"professor_id" json:"professorId"`
	Date            time.Time      `db:"date" json:"date"`
	TimeSlot        string         `db:"time_slot" json:"timeSlot"`
	Subject         string         `db:"subject" json:"subject"`
	Topic           string         `db:"topic" json:"topic"`
	Type            AdvisoryType   `db:"type" json:"type"`
	Description     string         `db:"description" json:"description"`
	Status          AdvisoryStatus `db:"status" json:"status"`
	RejectionReason *string        `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}

// AdvisoryView is an advisory enriched with display fields resolved by
// the synchronization layer: the student identifier, the professor's
// directory name and a consolidated observations text.
type AdvisoryView struct {
	Advisory
	StudentDisplayID string `json:"studentDisplayId"`
	ProfessorName    string `json:"professorName"`
	Observations     string `json:"observations"`
}

// AdvisoryFilter scopes history listings.
type AdvisoryFilter struct {
	StudentID   string
	ProfessorID string
	Status      AdvisoryStatus
}
