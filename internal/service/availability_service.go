package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ids-upch/advisory-api/internal/models"
)

type availabilitySlotRepo interface {
	ListAvailableByDay(ctx context.Context, professorID, dayOfWeek string) ([]models.WeeklySlot, error)
}

type availabilityBookingRepo interface {
	BookedSlots(ctx context.Context, professorID string, date time.Time) ([]string, error)
}

// AvailabilityService derives the bookable slots for a professor on a
// concrete calendar date from the weekly recurring template.
type AvailabilityService struct {
	slots    availabilitySlotRepo
	bookings availabilityBookingRepo
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(slots availabilitySlotRepo, bookings availabilityBookingRepo, metrics *MetricsService, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{slots: slots, bookings: bookings, metrics: metrics, logger: logger}
}

// Resolve computes the bookable slots for (professorID, date) ordered
// by start time. The result is always a sequence, never an error: a
// missing professor or date short-circuits without touching storage,
// and storage failures degrade to an empty sequence with a logged
// diagnostic. Slots held by a pending, accepted or rescheduled advisory
// on that exact date are excluded.
func (s *AvailabilityService) Resolve(ctx context.Context, professorID, date string) []models.ResolvedSlot {
	if professorID == "" || date == "" {
		return []models.ResolvedSlot{}
	}

	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		s.logger.Warn("unparsable availability date", zap.String("date", date), zap.Error(err))
		s.metrics.RecordResolution("invalid_date")
		return []models.ResolvedSlot{}
	}

	weekday := models.WeekdayOf(day)
	candidates, err := s.slots.ListAvailableByDay(ctx, professorID, weekday)
	if err != nil {
		s.logger.Warn("failed to load weekly slots",
			zap.String("professor_id", professorID),
			zap.String("day_of_week", weekday),
			zap.Error(err))
		s.metrics.RecordResolution("error")
		return []models.ResolvedSlot{}
	}
	if len(candidates) == 0 {
		s.metrics.RecordResolution("empty")
		return []models.ResolvedSlot{}
	}

	booked, err := s.bookings.BookedSlots(ctx, professorID, day)
	if err != nil {
		// Without the booked set we cannot prove any slot is free;
		// degrade to nothing-available rather than risk a double booking.
		s.logger.Warn("failed to load booked slots",
			zap.String("professor_id", professorID),
			zap.Time("date", day),
			zap.Error(err))
		s.metrics.RecordResolution("error")
		return []models.ResolvedSlot{}
	}

	taken := make(map[string]struct{}, len(booked))
	for _, label := range booked {
		taken[label] = struct{}{}
	}

	resolved := make([]models.ResolvedSlot, 0, len(candidates))
	for _, slot := range candidates {
		if _, held := taken[slot.Label()]; held {
			continue
		}
		resolved = append(resolved, models.ResolvedSlot{
			ID:        slot.ID,
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	if len(resolved) == 0 {
		s.metrics.RecordResolution("empty")
	} else {
		s.metrics.RecordResolution("ok")
	}
	return resolved
}
