package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ids-upch/advisory-api/internal/models"
	appErrors "github.com/ids-upch/advisory-api/pkg/errors"
)

type scheduleRepository interface {
	ListByProfessor(ctx context.Context, professorID string) ([]models.WeeklySlot, error)
	FindByID(ctx context.Context, id string) (*models.WeeklySlot, error)
	FindOverlapping(ctx context.Context, professorID, dayOfWeek, startTime, endTime string) ([]models.WeeklySlot, error)
	Create(ctx context.Context, slot *models.WeeklySlot) error
	SetAvailability(ctx context.Context, id string, isAvailable bool) error
	Delete(ctx context.Context, id string) error
}

// CreateSlotRequest defines a new weekly recurring slot.
type CreateSlotRequest struct {
	DayOfWeek string `json:"dayOfWeek" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// ScheduleService manages a professor's weekly availability template.
type ScheduleService struct {
	repo      scheduleRepository
	mirror    *MirrorService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleRepository, mirror *MirrorService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, mirror: mirror, validator: validate, logger: logger}
}

// ListMine returns the full weekly template of the given professor.
// Professors only see their own template; directors may inspect any.
func (s *ScheduleService) ListMine(ctx context.Context, actor *models.JWTClaims, professorID string) ([]models.WeeklySlot, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleDirector && !(actor.Role == models.RoleProfessor && actor.SubjectID == professorID) {
		return nil, appErrors.ErrForbidden
	}

	slots, err := s.repo.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list weekly slots")
	}
	if s.mirror != nil {
		s.mirror.Put(ctx, "mirror:schedules:"+professorID, slots)
	}
	return slots, nil
}

// Create adds a slot to the acting professor's weekly template. The
// window must be well formed and must not overlap an enabled slot on
// the same weekday.
func (s *ScheduleService) Create(ctx context.Context, actor *models.JWTClaims, req CreateSlotRequest) (*models.WeeklySlot, error) {
	if actor == nil || actor.Role != models.RoleProfessor {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only professors may manage schedules")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	if !models.ValidWeekday(req.DayOfWeek) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown day of week")
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time must be formatted HH:MM")
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must be formatted HH:MM")
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}

	overlapping, err := s.repo.FindOverlapping(ctx, actor.SubjectID, req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot overlap")
	}
	if len(overlapping) > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "the slot overlaps an existing one on "+req.DayOfWeek)
	}

	slot := models.WeeklySlot{
		ProfessorID: actor.SubjectID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
	}
	if err := s.repo.Create(ctx, &slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slot")
	}

	if s.mirror != nil {
		s.mirror.Clear(ctx, "mirror:schedules:*")
	}
	return &slot, nil
}

// SetAvailability toggles one of the acting professor's slots.
func (s *ScheduleService) SetAvailability(ctx context.Context, actor *models.JWTClaims, id string, isAvailable bool) (*models.WeeklySlot, error) {
	slot, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetAvailability(ctx, id, isAvailable); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update slot availability")
	}
	slot.IsAvailable = isAvailable

	if s.mirror != nil {
		s.mirror.Clear(ctx, "mirror:schedules:*")
	}
	return slot, nil
}

// Delete removes one of the acting professor's slots.
func (s *ScheduleService) Delete(ctx context.Context, actor *models.JWTClaims, id string) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete slot")
	}

	if s.mirror != nil {
		s.mirror.Clear(ctx, "mirror:schedules:*")
	}
	return nil
}

func (s *ScheduleService) loadOwned(ctx context.Context, actor *models.JWTClaims, id string) (*models.WeeklySlot, error) {
	if actor == nil || actor.Role != models.RoleProfessor {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only professors may manage schedules")
	}

	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	if slot.ProfessorID != actor.SubjectID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "the slot belongs to another professor")
	}
	return slot, nil
}
