package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ids-upch/advisory-api/internal/models"
)

const advisoryColumns = "id, student_id, student_name, student_email, professor_id, date, time_slot, subject, topic, type, description, status, rejection_reason, created_at, updated_at"

// AdvisoryRepository provides persistence for advisory requests.
type AdvisoryRepository struct {
	db *sqlx.DB
}

// NewAdvisoryRepository creates a new advisory repository.
func NewAdvisoryRepository(db *sqlx.DB) *AdvisoryRepository {
	return &AdvisoryRepository{db: db}
}

// ListByStudent returns the advisories a student has requested.
func (r *AdvisoryRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Advisory, error) {
	query := fmt.Sprintf("SELECT %s FROM advisories WHERE student_id = $1 ORDER BY created_at DESC", advisoryColumns)
	var advisories []models.Advisory
	if err := r.db.SelectContext(ctx, &advisories, query, studentID); err != nil {
		return nil, fmt.Errorf("list advisories by student: %w", err)
	}
	return advisories, nil
}

// ListByProfessor returns the advisories addressed to a professor.
func (r *AdvisoryRepository) ListByProfessor(ctx context.Context, professorID string) ([]models.Advisory, error) {
	query := fmt.Sprintf("SELECT %s FROM advisories WHERE professor_id = $1 ORDER BY created_at DESC", advisoryColumns)
	var advisories []models.Advisory
	if err := r.db.SelectContext(ctx, &advisories, query, professorID); err != nil {
		return nil, fmt.Errorf("list advisories by professor: %w", err)
	}
	return advisories, nil
}

// ListAll returns the full advisory history for director review.
func (r *AdvisoryRepository) ListAll(ctx context.Context) ([]models.Advisory, error) {
	query := fmt.Sprintf("SELECT %s FROM advisories ORDER BY created_at DESC", advisoryColumns)
	var advisories []models.Advisory
	if err := r.db.SelectContext(ctx, &advisories, query); err != nil {
		return nil, fmt.Errorf("list advisory history: %w", err)
	}
	return advisories, nil
}

// FindByID loads an advisory by id.
func (r *AdvisoryRepository) FindByID(ctx context.Context, id string) (*models.Advisory, error) {
	query := fmt.Sprintf("SELECT %s FROM advisories WHERE id = $1", advisoryColumns)
	var advisory models.Advisory
	if err := r.db.GetContext(ctx, &advisory, query, id); err != nil {
		return nil, err
	}
	return &advisory, nil
}

// Create stores a new advisory record.
func (r *AdvisoryRepository) Create(ctx context.Context, advisory *models.Advisory) error {
	if advisory.ID == "" {
		advisory.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if advisory.CreatedAt.IsZero() {
		advisory.CreatedAt = now
	}
	advisory.UpdatedAt = now

	const query = `INSERT INTO advisories (id, student_id, student_name, student_email, professor_id, date, time_slot, subject, topic, type, description, status, rejection_reason, created_at, updated_at) VALUES (:id, :student_id, :student_name, :student_email, :professor_id, :date, :time_slot, :subject, :topic, :type, :description, :status, :rejection_reason, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, advisory); err != nil {
		return fmt.Errorf("create advisory: %w", err)
	}
	return nil
}

// UpdateStatus persists a lifecycle transition. Date and time slot
// travel with it because reschedules overwrite both.
func (r *AdvisoryRepository) UpdateStatus(ctx context.Context, advisory *models.Advisory) error {
	advisory.UpdatedAt = time.Now().UTC()
	const query = `UPDATE advisories SET status = :status, date = :date, time_slot = :time_slot, rejection_reason = :rejection_reason, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, advisory); err != nil {
		return fmt.Errorf("update advisory status: %w", err)
	}
	return nil
}

// BookedSlots returns the time-slot labels held by non-terminal
// advisories for a professor on a given date.
func (r *AdvisoryRepository) BookedSlots(ctx context.Context, professorID string, date time.Time) ([]string, error) {
	const query = `SELECT time_slot FROM advisories WHERE professor_id = $1 AND date = $2 AND status IN ('pending', 'accepted', 'rescheduled')`
	var slots []string
	if err := r.db.SelectContext(ctx, &slots, query, professorID, date); err != nil {
		return nil, fmt.Errorf("list booked slots: %w", err)
	}
	return slots, nil
}

// SlotTaken reports whether a non-terminal advisory already holds the
// exact (professor, date, time slot) combination.
func (r *AdvisoryRepository) SlotTaken(ctx context.Context, professorID string, date time.Time, timeSlot string) (bool, error) {
	const query = `SELECT COUNT(*) FROM advisories WHERE professor_id = $1 AND date = $2 AND time_slot = $3 AND status IN ('pending', 'accepted', 'rescheduled')`
	var count int
	if err := r.db.GetContext(ctx, &count, query, professorID, date, timeSlot); err != nil {
		return false, fmt.Errorf("check slot occupancy: %w", err)
	}
	return count > 0, nil
}
