package models

import (
	"strings"
	"time"
)

// Weekday names as the schedule endpoints speak them.
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

var weekdays = map[string]struct{}{
	Monday: {}, Tuesday: {}, Wednesday: {}, Thursday: {},
	Friday: {}, Saturday: {}, Sunday: {},
}

// ValidWeekday reports whether the lowercase day name is known.
func ValidWeekday(day string) bool {
	_, ok := weekdays[strings.ToLower(day)]
	return ok
}

// WeekdayOf returns the lowercase English weekday for a date.
func WeekdayOf(date time.Time) string {
	return strings.ToLower(date.UTC().Weekday().String())
}

// WeeklySlot is a recurring weekly time window a professor marks as bookable.
type WeeklySlot struct {
	ID          string    `db:"id" json:"id"`
	ProfessorID string    `db:"professor_id" json:"professorId"`
	DayOfWeek   string    `db:"day_of_week" json:"dayOfWeek"`
	StartTime   string    `db:"start_time" json:"startTime"`
	EndTime     string    `db:"end_time" json:"endTime"`
	IsAvailable bool      `db:"is_available" json:"isAvailable"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Label renders the slot as the wire time-slot string.
func (s WeeklySlot) Label() string {
	return s.StartTime + " - " + s.EndTime
}

// ResolvedSlot is a concrete bookable window for one calendar date,
// derived from a WeeklySlot. It is never persisted.
type ResolvedSlot struct {
	ID        string `json:"id"`
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Label renders the resolved slot as the wire time-slot string.
func (s ResolvedSlot) Label() string {
	return s.StartTime + " - " + s.EndTime
}
