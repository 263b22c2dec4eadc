package dto

import "github.com/ids-upch/advisory-api/internal/models"

// StudentRef is the union of student identifier spellings observed
// across the upstream backends. Exactly one adapter resolves it to a
// display identifier, in a fixed precedence order, falling back to a
// synthesized EST-{id} placeholder.
type StudentRef struct {
	ID          string
	StudentCode string
	Matricula   string
	Enrollment  string
}

// DisplayID resolves the first present identifier spelling.
func (r StudentRef) DisplayID() string {
	switch {
	case r.StudentCode != "":
		return r.StudentCode
	case r.Matricula != "":
		return r.Matricula
	case r.Enrollment != "":
		return r.Enrollment
	case r.ID != "":
		return "EST-" + r.ID
	}
	return "N/A"
}

// Observations consolidates the free-text fields the backends have
// variously used for session notes. The rejection reason participates
// because reschedule motives travel in it.
func Observations(a models.Advisory) string {
	if a.RejectionReason != nil && *a.RejectionReason != "" {
		return *a.RejectionReason
	}
	return a.Description
}
