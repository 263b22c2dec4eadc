package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ids-upch/advisory-api/internal/models"
)

const slotColumns = "id, professor_id, day_of_week, start_time, end_time, is_available, created_at, updated_at"

// ScheduleRepository provides persistence for weekly availability slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByProfessor returns a professor's full weekly template.
func (r *ScheduleRepository) ListByProfessor(ctx context.Context, professorID string) ([]models.WeeklySlot, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_slots WHERE professor_id = $1 ORDER BY day_of_week ASC, start_time ASC", slotColumns)
	var slots []models.WeeklySlot
	if err := r.db.SelectContext(ctx, &slots, query, professorID); err != nil {
		return nil, fmt.Errorf("list weekly slots: %w", err)
	}
	return slots, nil
}

// ListAvailableByDay returns the enabled slots for one weekday ordered
// by start time, the candidate pool for availability resolution.
func (r *ScheduleRepository) ListAvailableByDay(ctx context.Context, professorID, dayOfWeek string) ([]models.WeeklySlot, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_slots WHERE professor_id = $1 AND day_of_week = $2 AND is_available = TRUE ORDER BY start_time ASC", slotColumns)
	var slots []models.WeeklySlot
	if err := r.db.SelectContext(ctx, &slots, query, professorID, dayOfWeek); err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

// FindByID loads a weekly slot by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.WeeklySlot, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_slots WHERE id = $1", slotColumns)
	var slot models.WeeklySlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// FindOverlapping returns enabled slots of the same professor and
// weekday whose window intersects [startTime, endTime).
func (r *ScheduleRepository) FindOverlapping(ctx context.Context, professorID, dayOfWeek, startTime, endTime string) ([]models.WeeklySlot, error) {
	query := fmt.Sprintf("SELECT %s FROM weekly_slots WHERE professor_id = $1 AND day_of_week = $2 AND is_available = TRUE AND start_time < $3 AND end_time > $4", slotColumns)
	var slots []models.WeeklySlot
	if err := r.db.SelectContext(ctx, &slots, query, professorID, dayOfWeek, endTime, startTime); err != nil {
		return nil, fmt.Errorf("find overlapping slots: %w", err)
	}
	return slots, nil
}

// Create stores a new weekly slot.
func (r *ScheduleRepository) Create(ctx context.Context, slot *models.WeeklySlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO weekly_slots (id, professor_id, day_of_week, start_time, end_time, is_available, created_at, updated_at) VALUES (:id, :professor_id, :day_of_week, :start_time, :end_time, :is_available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create weekly slot: %w", err)
	}
	return nil
}

// SetAvailability toggles a slot's enabled flag.
func (r *ScheduleRepository) SetAvailability(ctx context.Context, id string, isAvailable bool) error {
	const query = `UPDATE weekly_slots SET is_available = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, isAvailable, time.Now().UTC()); err != nil {
		return fmt.Errorf("set slot availability: %w", err)
	}
	return nil
}

// Delete removes a weekly slot by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM weekly_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete weekly slot: %w", err)
	}
	return nil
}
