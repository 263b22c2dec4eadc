package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ids-upch/advisory-api/internal/models"
	appErrors "github.com/ids-upch/advisory-api/pkg/errors"
)

type fakeScheduleRepo struct {
	slots       map[string]models.WeeklySlot
	overlapping []models.WeeklySlot
	created     []models.WeeklySlot
	deleted     []string
	toggled     map[string]bool
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{slots: map[string]models.WeeklySlot{}, toggled: map[string]bool{}}
}

func (f *fakeScheduleRepo) ListByProfessor(_ context.Context, professorID string) ([]models.WeeklySlot, error) {
	var out []models.WeeklySlot
	for _, s := range f.slots {
		if s.ProfessorID == professorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByID(_ context.Context, id string) (*models.WeeklySlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (f *fakeScheduleRepo) FindOverlapping(context.Context, string, string, string, string) ([]models.WeeklySlot, error) {
	return f.overlapping, nil
}

func (f *fakeScheduleRepo) Create(_ context.Context, slot *models.WeeklySlot) error {
	if slot.ID == "" {
		slot.ID = "slot-created"
	}
	f.created = append(f.created, *slot)
	f.slots[slot.ID] = *slot
	return nil
}

func (f *fakeScheduleRepo) SetAvailability(_ context.Context, id string, isAvailable bool) error {
	f.toggled[id] = isAvailable
	return nil
}

func (f *fakeScheduleRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.slots, id)
	return nil
}

func newScheduleFixture() (*ScheduleService, *fakeScheduleRepo) {
	repo := newFakeScheduleRepo()
	return NewScheduleService(repo, nil, nil, zap.NewNop()), repo
}

func TestCreateSlotDefaultsToAvailable(t *testing.T) {
	svc, repo := newScheduleFixture()

	slot, err := svc.Create(context.Background(), professorClaims("p1"), CreateSlotRequest{
		DayOfWeek: "monday",
		StartTime: "09:00",
		EndTime:   "10:00",
	})

	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)
	assert.Equal(t, "p1", slot.ProfessorID)
	assert.Equal(t, "09:00 - 10:00", slot.Label())
	require.Len(t, repo.created, 1)
}

func TestCreateSlotRejectsUnknownWeekday(t *testing.T) {
	svc, repo := newScheduleFixture()

	_, err := svc.Create(context.Background(), professorClaims("p1"), CreateSlotRequest{
		DayOfWeek: "lunes",
		StartTime: "09:00",
		EndTime:   "10:00",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestCreateSlotRejectsInvertedWindow(t *testing.T) {
	svc, _ := newScheduleFixture()

	_, err := svc.Create(context.Background(), professorClaims("p1"), CreateSlotRequest{
		DayOfWeek: "monday",
		StartTime: "10:00",
		EndTime:   "09:00",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateSlotRejectsOverlap(t *testing.T) {
	svc, repo := newScheduleFixture()
	repo.overlapping = []models.WeeklySlot{{ID: "existing"}}

	_, err := svc.Create(context.Background(), professorClaims("p1"), CreateSlotRequest{
		DayOfWeek: "monday",
		StartTime: "09:30",
		EndTime:   "10:30",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestCreateSlotForbiddenForStudents(t *testing.T) {
	svc, _ := newScheduleFixture()

	_, err := svc.Create(context.Background(), studentClaims("st1"), CreateSlotRequest{
		DayOfWeek: "monday",
		StartTime: "09:00",
		EndTime:   "10:00",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSetAvailabilityTogglesOwnSlot(t *testing.T) {
	svc, repo := newScheduleFixture()
	repo.slots["s1"] = models.WeeklySlot{ID: "s1", ProfessorID: "p1", IsAvailable: true}

	slot, err := svc.SetAvailability(context.Background(), professorClaims("p1"), "s1", false)

	require.NoError(t, err)
	assert.False(t, slot.IsAvailable)
	assert.Equal(t, false, repo.toggled["s1"])
}

func TestSetAvailabilityForeignSlotForbidden(t *testing.T) {
	svc, repo := newScheduleFixture()
	repo.slots["s1"] = models.WeeklySlot{ID: "s1", ProfessorID: "p1"}

	_, err := svc.SetAvailability(context.Background(), professorClaims("p2"), "s1", false)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.toggled)
}

func TestDeleteUnknownSlot(t *testing.T) {
	svc, _ := newScheduleFixture()

	err := svc.Delete(context.Background(), professorClaims("p1"), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteOwnSlot(t *testing.T) {
	svc, repo := newScheduleFixture()
	repo.slots["s1"] = models.WeeklySlot{ID: "s1", ProfessorID: "p1"}

	require.NoError(t, svc.Delete(context.Background(), professorClaims("p1"), "s1"))
	assert.Equal(t, []string{"s1"}, repo.deleted)
}

func TestListMineScopesToOwner(t *testing.T) {
	svc, repo := newScheduleFixture()
	repo.slots["s1"] = models.WeeklySlot{ID: "s1", ProfessorID: "p1"}

	_, err := svc.ListMine(context.Background(), professorClaims("p2"), "p1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	slots, err := svc.ListMine(context.Background(), professorClaims("p1"), "p1")
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}
