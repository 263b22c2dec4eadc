package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ids-upch/advisory-api/internal/models"
	"github.com/ids-upch/advisory-api/internal/service"
)

type stubSlotRepo struct {
	slots []models.WeeklySlot
}

func (s *stubSlotRepo) ListAvailableByDay(_ context.Context, _, dayOfWeek string) ([]models.WeeklySlot, error) {
	var out []models.WeeklySlot
	for _, slot := range s.slots {
		if slot.DayOfWeek == dayOfWeek {
			out = append(out, slot)
		}
	}
	return out, nil
}

type stubBookingRepo struct {
	booked []string
}

func (s *stubBookingRepo) BookedSlots(context.Context, string, time.Time) ([]string, error) {
	return s.booked, nil
}

func newAvailabilityFixture(slots []models.WeeklySlot, booked []string) *ScheduleHandler {
	availability := service.NewAvailabilityService(&stubSlotRepo{slots: slots}, &stubBookingRepo{booked: booked}, nil, zap.NewNop())
	return NewScheduleHandler(nil, availability)
}

func TestScheduleHandlerAvailableResolvesSlots(t *testing.T) {
	handler := newAvailabilityFixture([]models.WeeklySlot{
		{ID: "s1", DayOfWeek: "monday", StartTime: "09:00", EndTime: "10:00", IsAvailable: true},
		{ID: "s2", DayOfWeek: "monday", StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
	}, []string{"09:00 - 10:00"})

	// 2026-01-05 is a Monday.
	c, rec := testContext(t, http.MethodGet, "/schedules/available/p1/2026-01-05", nil, nil)
	c.Params = gin.Params{{Key: "professorId", Value: "p1"}, {Key: "date", Value: "2026-01-05"}}

	handler.Available(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var resolved []models.ResolvedSlot
	require.NoError(t, json.Unmarshal(envelope.Data, &resolved))
	require.Len(t, resolved, 1)
	assert.Equal(t, "s2", resolved[0].ID)
}

func TestScheduleHandlerAvailableInvalidDateIsEmptyOK(t *testing.T) {
	handler := newAvailabilityFixture(nil, nil)

	c, rec := testContext(t, http.MethodGet, "/schedules/available/p1/bogus", nil, nil)
	c.Params = gin.Params{{Key: "professorId", Value: "p1"}, {Key: "date", Value: "bogus"}}

	handler.Available(c)

	// The resolver never errors: unknown input degrades to an empty list.
	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var resolved []models.ResolvedSlot
	require.NoError(t, json.Unmarshal(envelope.Data, &resolved))
	assert.Empty(t, resolved)
}
