// Package ics serializes a user's events to iCalendar for import into
// other calendar applications. Recurrence maps onto RRULE: the simple
// daily/weekly/monthly rules anchored on the event date translate directly
// to FREQ=DAILY/WEEKLY/MONTHLY with UNTIL for the end date.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/GiangQuan/warm-calendar/internal/models"
)

const prodID = "-//Warm Calendar//Warm Calendar//EN"

// Export renders the events as a VCALENDAR document.
func Export(events []*models.Event) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID.String())
		ve.SetSummary(ev.Title)
		ve.SetDtStampTime(time.Now().UTC())

		start, allDay, err := startOf(ev)
		if err != nil {
			return "", err
		}
		if allDay {
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
		} else {
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(time.Hour))
		}

		if ev.MeetingLink != "" {
			ve.SetURL(ev.MeetingLink)
		}

		if ev.Recurring() {
			rule, err := ruleFor(ev, start)
			if err != nil {
				return "", err
			}
			ve.AddRrule(rule)
		}
	}

	return cal.Serialize(), nil
}

func startOf(ev *models.Event) (start time.Time, allDay bool, err error) {
	day := ev.Date.Time
	if ev.AllDay() {
		return day, true, nil
	}
	hour, minute, err := models.ParseClock(ev.Time)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("event %s: %w", ev.ID, err)
	}
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), false, nil
}

func ruleFor(ev *models.Event, start time.Time) (string, error) {
	opt := rrule.ROption{Dtstart: start}

	switch ev.Recurrence {
	case models.RecurrenceDaily:
		opt.Freq = rrule.DAILY
	case models.RecurrenceWeekly:
		opt.Freq = rrule.WEEKLY
	case models.RecurrenceMonthly:
		opt.Freq = rrule.MONTHLY
	default:
		return "", fmt.Errorf("event %s: recurrence %q has no RRULE mapping", ev.ID, ev.Recurrence)
	}

	if ev.EndDate != nil && !ev.EndDate.IsZero() {
		// UNTIL is inclusive of the last day; carry the clock time so the
		// final timed occurrence is still covered.
		opt.Until = ev.EndDate.Add(start.Sub(ev.Date.Time))
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("event %s: %w", ev.ID, err)
	}
	return rule.String(), nil
}
