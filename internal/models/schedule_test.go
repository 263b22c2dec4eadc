package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayOfIsLowercaseEnglish(t *testing.T) {
	// 2026-01-05 through 2026-01-11 cover a full week.
	expected := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	for i, want := range expected {
		date := time.Date(2026, 1, 5+i, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, want, WeekdayOf(date))
	}
}

func TestValidWeekday(t *testing.T) {
	assert.True(t, ValidWeekday("monday"))
	assert.True(t, ValidWeekday("Sunday"))
	assert.False(t, ValidWeekday("lunes"))
	assert.False(t, ValidWeekday(""))
}

func TestAdvisoryStatusTerminal(t *testing.T) {
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusAccepted.Terminal())
	assert.False(t, StatusRescheduled.Terminal())
}

func TestSlotLabels(t *testing.T) {
	slot := WeeklySlot{StartTime: "09:00", EndTime: "10:00"}
	assert.Equal(t, "09:00 - 10:00", slot.Label())
	resolved := ResolvedSlot{StartTime: "14:00", EndTime: "15:00"}
	assert.Equal(t, "14:00 - 15:00", resolved.Label())
}
