package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ids-upch/advisory-api/internal/dto"
	"github.com/ids-upch/advisory-api/internal/models"
	appErrors "github.com/ids-upch/advisory-api/pkg/errors"
)

// DefaultRescheduleMotive is stored when a professor reschedules
// without giving a reason.
const DefaultRescheduleMotive = "Reprogramado por el profesor"

const dateLayout = "2006-01-02"

type advisoryRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Advisory, error)
	ListByProfessor(ctx context.Context, professorID string) ([]models.Advisory, error)
	ListAll(ctx context.Context) ([]models.Advisory, error)
	FindByID(ctx context.Context, id string) (*models.Advisory, error)
	Create(ctx context.Context, advisory *models.Advisory) error
	UpdateStatus(ctx context.Context, advisory *models.Advisory) error
	SlotTaken(ctx context.Context, professorID string, date time.Time, timeSlot string) (bool, error)
}

type studentDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
}

type professorNames interface {
	LookupName(id string) string
}

// CreateAdvisoryRequest describes a student's new advisory request.
type CreateAdvisoryRequest struct {
	ProfessorID string `json:"professorId" validate:"required"`
	Date        string `json:"date" validate:"required"`
	TimeSlot    string `json:"timeSlot" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Topic       string `json:"topic" validate:"required"`
	Type        string `json:"type" validate:"omitempty,oneof=individual group"`
	Description string `json:"description"`
}

// TransitionRequest applies a lifecycle transition to an advisory.
type TransitionRequest struct {
	Status          string `json:"status" validate:"required"`
	Date            string `json:"date,omitempty"`
	TimeSlot        string `json:"timeSlot,omitempty"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

// ManualAdvisoryRequest records an already-delivered session. It is a
// new record created with status completed, not a transition.
type ManualAdvisoryRequest struct {
	Date         string `json:"date" validate:"required"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	Subject      string `json:"subject" validate:"required"`
	Topic        string `json:"topic" validate:"required"`
	Type         string `json:"type" validate:"omitempty,oneof=individual group"`
	Description  string `json:"description"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
}

// AdvisoryService governs the advisory request lifecycle.
type AdvisoryService struct {
	repo      advisoryRepository
	students  studentDirectory
	directory professorNames
	mirror    *MirrorService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdvisoryService instantiates AdvisoryService.
func NewAdvisoryService(repo advisoryRepository, students studentDirectory, directory professorNames, mirror *MirrorService, validate *validator.Validate, logger *zap.Logger) *AdvisoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisoryService{repo: repo, students: students, directory: directory, mirror: mirror, validator: validate, logger: logger}
}

// Create files a new pending advisory request on behalf of the acting
// student. All required fields are validated before any write, and the
// chosen slot must not already be held by a non-terminal advisory.
func (s *AdvisoryService) Create(ctx context.Context, actor *models.JWTClaims, req CreateAdvisoryRequest) (*models.AdvisoryView, error) {
	if actor == nil || actor.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only students may request advisories")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid advisory payload")
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	taken, err := s.repo.SlotTaken(ctx, req.ProfessorID, date, req.TimeSlot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot occupancy")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrSlotTaken, "the selected time slot is no longer available")
	}

	advisoryType := models.AdvisoryType(req.Type)
	if advisoryType == "" {
		advisoryType = models.TypeIndividual
	}

	advisory := models.Advisory{
		StudentID:    actor.SubjectID,
		StudentName:  actor.FullName,
		StudentEmail: actor.Email,
		ProfessorID:  req.ProfessorID,
		Date:         date,
		TimeSlot:     req.TimeSlot,
		Subject:      req.Subject,
		Topic:        req.Topic,
		Type:         advisoryType,
		Description:  req.Description,
		Status:       models.StatusPending,
	}

	if err := s.repo.Create(ctx, &advisory); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create advisory")
	}

	s.invalidateMirror(ctx)
	view := s.enrich(ctx, advisory)
	return &view, nil
}

// Transition applies a status change to an existing advisory. Exactly
// one write happens on success; a rejected transition leaves the record
// untouched.
func (s *AdvisoryService) Transition(ctx context.Context, actor *models.JWTClaims, id string, req TransitionRequest) (*models.AdvisoryView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transition payload")
	}

	target := models.AdvisoryStatus(req.Status)
	if !target.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown advisory status")
	}

	advisory, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "advisory not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load advisory")
	}

	if err := s.applyTransition(actor, advisory, target, req); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, advisory); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update advisory")
	}

	s.invalidateMirror(ctx)
	view := s.enrich(ctx, *advisory)
	return &view, nil
}

// applyTransition validates the transition against the state machine
// and mutates the record in memory. No transition reaches completed:
// completion only exists through the manual-entry flow.
func (s *AdvisoryService) applyTransition(actor *models.JWTClaims, advisory *models.Advisory, target models.AdvisoryStatus, req TransitionRequest) error {
	ownerProfessor := actor.Role == models.RoleProfessor && actor.SubjectID == advisory.ProfessorID
	ownerStudent := actor.Role == models.RoleStudent && actor.SubjectID == advisory.StudentID

	switch {
	case advisory.Status == models.StatusPending && target == models.StatusAccepted:
		if !ownerProfessor {
			return appErrors.Clone(appErrors.ErrForbidden, "only the addressed professor may accept")
		}
		advisory.Status = models.StatusAccepted
		advisory.RejectionReason = nil

	case advisory.Status == models.StatusRescheduled && target == models.StatusAccepted:
		if !ownerStudent {
			return appErrors.Clone(appErrors.ErrForbidden, "only the requesting student may confirm a reschedule")
		}
		advisory.Status = models.StatusAccepted
		advisory.RejectionReason = nil

	case advisory.Status == models.StatusPending && target == models.StatusRejected:
		if !ownerProfessor {
			return appErrors.Clone(appErrors.ErrForbidden, "only the addressed professor may reject")
		}
		reason := strings.TrimSpace(req.RejectionReason)
		if reason == "" {
			return appErrors.Clone(appErrors.ErrValidation, "rejection reason must not be empty")
		}
		advisory.Status = models.StatusRejected
		advisory.RejectionReason = &reason

	case (advisory.Status == models.StatusPending || advisory.Status == models.StatusRescheduled) && target == models.StatusRescheduled:
		if !ownerProfessor {
			return appErrors.Clone(appErrors.ErrForbidden, "only the addressed professor may reschedule")
		}
		if req.Date == "" || req.TimeSlot == "" {
			return appErrors.Clone(appErrors.ErrValidation, "reschedule requires a new date and time slot")
		}
		date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
		}
		motive := strings.TrimSpace(req.RejectionReason)
		if motive == "" {
			motive = DefaultRescheduleMotive
		}
		advisory.Status = models.StatusRescheduled
		advisory.Date = date
		advisory.TimeSlot = req.TimeSlot
		advisory.RejectionReason = &motive

	default:
		return appErrors.Clone(appErrors.ErrInvalidTransition, "transition from "+string(advisory.Status)+" to "+string(target)+" is not allowed")
	}

	return nil
}

// RegisterCompleted stores an already-delivered session as a completed
// advisory. The date must not lie in the future (same-day allowed) and
// the time pair must be ordered.
func (s *AdvisoryService) RegisterCompleted(ctx context.Context, actor *models.JWTClaims, req ManualAdvisoryRequest) (*models.AdvisoryView, error) {
	if actor == nil || actor.Role != models.RoleProfessor {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only professors may register delivered sessions")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manual advisory payload")
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.After(today) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "delivered sessions cannot be dated in the future")
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

	studentID := ""
	studentName := strings.TrimSpace(req.StudentName)
	studentEmail := strings.TrimSpace(req.StudentEmail)
	if studentEmail != "" {
		student, err := s.students.FindByEmail(ctx, studentEmail)
		switch {
		case err == nil:
			studentID = student.ID
			studentName = student.FullName
		case errors.Is(err, sql.ErrNoRows):
			// Unknown email: fall back to the free-text name.
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up student")
		}
	}
	if studentName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a student name is required")
	}

	advisoryType := models.AdvisoryType(req.Type)
	if advisoryType == "" {
		advisoryType = models.TypeIndividual
	}

	advisory := models.Advisory{
		StudentID:    studentID,
		StudentName:  studentName,
		StudentEmail: studentEmail,
		ProfessorID:  actor.SubjectID,
		Date:         date,
		TimeSlot:     req.StartTime + " - " + req.EndTime,
		Subject:      req.Subject,
		Topic:        req.Topic,
		Type:         advisoryType,
		Description:  req.Description,
		Status:       models.StatusCompleted,
	}

	if err := s.repo.Create(ctx, &advisory); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register advisory")
	}

	s.invalidateMirror(ctx)
	view := s.enrich(ctx, advisory)
	return &view, nil
}

// ListForStudent returns the advisories a student requested. Students
// may only read their own collection; directors may read any.
func (s *AdvisoryService) ListForStudent(ctx context.Context, actor *models.JWTClaims, studentID string) ([]models.AdvisoryView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleDirector && !(actor.Role == models.RoleStudent && actor.SubjectID == studentID) {
		return nil, appErrors.ErrForbidden
	}

	advisories, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list advisories")
	}
	views := s.enrichAll(ctx, advisories)
	s.mirrorViews(ctx, "mirror:advisories:student:"+studentID, views)
	return views, nil
}

// ListForProfessor returns the advisories addressed to a professor.
func (s *AdvisoryService) ListForProfessor(ctx context.Context, actor *models.JWTClaims, professorID string) ([]models.AdvisoryView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleDirector && !(actor.Role == models.RoleProfessor && actor.SubjectID == professorID) {
		return nil, appErrors.ErrForbidden
	}

	advisories, err := s.repo.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list advisories")
	}
	views := s.enrichAll(ctx, advisories)
	s.mirrorViews(ctx, "mirror:advisories:professor:"+professorID, views)
	return views, nil
}

// History returns the full advisory history for director review.
func (s *AdvisoryService) History(ctx context.Context, actor *models.JWTClaims) ([]models.AdvisoryView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleDirector {
		return nil, appErrors.ErrForbidden
	}

	advisories, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list advisory history")
	}
	views := s.enrichAll(ctx, advisories)
	s.mirrorViews(ctx, "mirror:advisories:history", views)
	return views, nil
}

// enrich resolves display fields for one advisory: the student
// identifier, the professor's directory name and the consolidated
// observations text.
func (s *AdvisoryService) enrich(ctx context.Context, advisory models.Advisory) models.AdvisoryView {
	ref := dto.StudentRef{ID: advisory.StudentID}
	if advisory.StudentID != "" && s.students != nil {
		if student, err := s.students.FindByID(ctx, advisory.StudentID); err == nil {
			ref.Enrollment = student.Enrollment
		}
	}

	professorName := models.UnassignedProfessorName
	if s.directory != nil {
		professorName = s.directory.LookupName(advisory.ProfessorID)
	}

	return models.AdvisoryView{
		Advisory:         advisory,
		StudentDisplayID: ref.DisplayID(),
		ProfessorName:    professorName,
		Observations:     dto.Observations(advisory),
	}
}

func (s *AdvisoryService) enrichAll(ctx context.Context, advisories []models.Advisory) []models.AdvisoryView {
	views := make([]models.AdvisoryView, 0, len(advisories))
	enrollments := make(map[string]string)
	for _, advisory := range advisories {
		if advisory.StudentID != "" && s.students != nil {
			if _, seen := enrollments[advisory.StudentID]; !seen {
				enrollment := ""
				if student, err := s.students.FindByID(ctx, advisory.StudentID); err == nil {
					enrollment = student.Enrollment
				}
				enrollments[advisory.StudentID] = enrollment
			}
		}

		ref := dto.StudentRef{ID: advisory.StudentID, Enrollment: enrollments[advisory.StudentID]}
		professorName := models.UnassignedProfessorName
		if s.directory != nil {
			professorName = s.directory.LookupName(advisory.ProfessorID)
		}
		views = append(views, models.AdvisoryView{
			Advisory:         advisory,
			StudentDisplayID: ref.DisplayID(),
			ProfessorName:    professorName,
			Observations:     dto.Observations(advisory),
		})
	}
	return views
}

func (s *AdvisoryService) mirrorViews(ctx context.Context, key string, views []models.AdvisoryView) {
	if s.mirror != nil {
		s.mirror.Put(ctx, key, views)
	}
}

func (s *AdvisoryService) invalidateMirror(ctx context.Context) {
	if s.mirror != nil {
		s.mirror.Clear(ctx, "mirror:advisories:*")
	}
}
