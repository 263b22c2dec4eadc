package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ids-upch/advisory-api/internal/models"
)

type fakeSlotRepo struct {
	slots map[string][]models.WeeklySlot
	err   error
	calls int
}

func (f *fakeSlotRepo) ListAvailableByDay(_ context.Context, _, dayOfWeek string) ([]models.WeeklySlot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.slots[dayOfWeek], nil
}

type fakeBookingRepo struct {
	booked map[string][]string
	err    error
	calls  int
}

func (f *fakeBookingRepo) BookedSlots(_ context.Context, _ string, date time.Time) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.booked[date.Format("2006-01-02")], nil
}

func mondaySlots() map[string][]models.WeeklySlot {
	return map[string][]models.WeeklySlot{
		"monday": {
			{ID: "s1", ProfessorID: "p1", DayOfWeek: "monday", StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
			{ID: "s2", ProfessorID: "p1", DayOfWeek: "monday", StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
		},
	}
}

func TestResolveReturnsSlotsForMatchingWeekday(t *testing.T) {
	slots := &fakeSlotRepo{slots: mondaySlots()}
	bookings := &fakeBookingRepo{}
	svc := NewAvailabilityService(slots, bookings, nil, zap.NewNop())

	// 2026-01-05 is a Monday.
	resolved := svc.Resolve(context.Background(), "p1", "2026-01-05")

	assert.Len(t, resolved, 2)
	assert.Equal(t, "09:00 - 10:00", resolved[0].Label())
	assert.Equal(t, "10:00 - 11:00", resolved[1].Label())
}

func TestResolveEmptyForOtherWeekday(t *testing.T) {
	slots := &fakeSlotRepo{slots: mondaySlots()}
	svc := NewAvailabilityService(slots, &fakeBookingRepo{}, nil, zap.NewNop())

	// 2026-01-06 is a Tuesday.
	resolved := svc.Resolve(context.Background(), "p1", "2026-01-06")

	assert.Empty(t, resolved)
	assert.NotNil(t, resolved)
}

func TestResolveExcludesBookedSlots(t *testing.T) {
	slots := &fakeSlotRepo{slots: mondaySlots()}
	bookings := &fakeBookingRepo{booked: map[string][]string{
		"2026-01-05": {"09:00 - 10:00"},
	}}
	svc := NewAvailabilityService(slots, bookings, nil, zap.NewNop())

	resolved := svc.Resolve(context.Background(), "p1", "2026-01-05")

	assert.Len(t, resolved, 1)
	assert.Equal(t, "10:00 - 11:00", resolved[0].Label())
}

func TestResolveBookingOnAnotherDateDoesNotExclude(t *testing.T) {
	slots := &fakeSlotRepo{slots: mondaySlots()}
	bookings := &fakeBookingRepo{booked: map[string][]string{
		"2026-01-12": {"09:00 - 10:00"},
	}}
	svc := NewAvailabilityService(slots, bookings, nil, zap.NewNop())

	resolved := svc.Resolve(context.Background(), "p1", "2026-01-05")

	assert.Len(t, resolved, 2)
}

func TestResolveShortCircuitsOnMissingInput(t *testing.T) {
	slots := &fakeSlotRepo{slots: mondaySlots()}
	bookings := &fakeBookingRepo{}
	svc := NewAvailabilityService(slots, bookings, nil, zap.NewNop())

	assert.Empty(t, svc.Resolve(context.Background(), "", "2026-01-05"))
	assert.Empty(t, svc.Resolve(context.Background(), "p1", ""))
	assert.Zero(t, slots.calls)
	assert.Zero(t, bookings.calls)
}

func TestResolveInvalidDateIsEmptyWithoutStorage(t *testing.T) {
	slots := &fakeSlotRepo{slots: mondaySlots()}
	svc := NewAvailabilityService(slots, &fakeBookingRepo{}, nil, zap.NewNop())

	assert.Empty(t, svc.Resolve(context.Background(), "p1", "05/01/2026"))
	assert.Zero(t, slots.calls)
}

func TestResolveDegradesToEmptyOnStorageFailure(t *testing.T) {
	svc := NewAvailabilityService(
		&fakeSlotRepo{err: errors.New("db down")},
		&fakeBookingRepo{},
		nil,
		zap.NewNop(),
	)

	assert.Empty(t, svc.Resolve(context.Background(), "p1", "2026-01-05"))
}

func TestResolveDegradesToEmptyWhenBookingsUnavailable(t *testing.T) {
	svc := NewAvailabilityService(
		&fakeSlotRepo{slots: mondaySlots()},
		&fakeBookingRepo{err: errors.New("db down")},
		nil,
		zap.NewNop(),
	)

	assert.Empty(t, svc.Resolve(context.Background(), "p1", "2026-01-05"))
}

func TestResolveIsIdempotent(t *testing.T) {
	slots := &fakeSlotRepo{slots: mondaySlots()}
	bookings := &fakeBookingRepo{booked: map[string][]string{
		"2026-01-05": {"10:00 - 11:00"},
	}}
	svc := NewAvailabilityService(slots, bookings, nil, zap.NewNop())

	first := svc.Resolve(context.Background(), "p1", "2026-01-05")
	second := svc.Resolve(context.Background(), "p1", "2026-01-05")

	assert.Equal(t, first, second)
}
