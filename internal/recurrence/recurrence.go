// Package recurrence decides whether an event produces a visible occurrence
// on a given calendar day. It is the single source of truth for recurrence
// matching; grids, exports and the reminder scheduler all delegate here.
//
// All functions are pure: occurrence existence depends only on the event's
// anchor date, recurrence, end date and the query date. Calendar-day
// comparison uses UTC midnight throughout, matching the YYYY-MM-DD wire
// format.
package recurrence

import (
	"time"

	"github.com/GiangQuan/warm-calendar/internal/models"
)

// Normalize strips the time-of-day from t, yielding its UTC calendar day.
func Normalize(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OccursOn reports whether ev has an occurrence on the given calendar day.
//
// The anchor day always matches, whatever the recurrence. Days before the
// anchor never match, and days after the end date (inclusive bound) never
// match. Monthly recurrence matches on the anchor's day-of-month with no
// clamping: an event anchored on the 31st simply has no occurrence in a
// shorter month.
func OccursOn(ev *models.Event, day time.Time) bool {
	anchor := Normalize(ev.Date.Time)
	query := Normalize(day)

	if query.Equal(anchor) {
		return true
	}
	if query.Before(anchor) {
		return false
	}
	if ev.EndDate != nil && !ev.EndDate.IsZero() && query.After(Normalize(ev.EndDate.Time)) {
		return false
	}

	switch ev.Recurrence {
	case models.RecurrenceDaily:
		return true
	case models.RecurrenceWeekly:
		return query.Weekday() == anchor.Weekday()
	case models.RecurrenceMonthly:
		return query.Day() == anchor.Day()
	default:
		return false
	}
}

// OccurrencesInRange lists every day in [start, end] on which ev occurs.
// The range is expected to be a bounded view window (a month or a week), so
// walking it day by day is fine.
func OccurrencesInRange(ev *models.Event, start, end time.Time) []time.Time {
	from := Normalize(start)
	to := Normalize(end)

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if OccursOn(ev, d) {
			days = append(days, d)
		}
	}
	return days
}

// EventsForDate filters events down to those occurring on the given day,
// preserving the input order.
func EventsForDate(events []*models.Event, day time.Time) []*models.Event {
	var matched []*models.Event
	for _, ev := range events {
		if OccursOn(ev, day) {
			matched = append(matched, ev)
		}
	}
	return matched
}
