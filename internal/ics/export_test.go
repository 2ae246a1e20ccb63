package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiangQuan/warm-calendar/internal/models"
)

func timedEvent() *models.Event {
	end := models.NewDate(2024, time.April, 1)
	return &models.Event{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Title:       "Team Meeting",
		Date:        models.NewDate(2024, time.March, 4),
		Time:        "10:00",
		Color:       "primary",
		Recurrence:  models.RecurrenceWeekly,
		EndDate:     &end,
		MeetingLink: "https://zoom.us/j/123456789",
	}
}

func TestExportTimedRecurringEvent(t *testing.T) {
	ev := timedEvent()
	out, err := Export([]*models.Event{ev})
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+prodID)
	assert.Contains(t, out, "UID:"+ev.ID.String())
	assert.Contains(t, out, "SUMMARY:Team Meeting")
	assert.Contains(t, out, "DTSTART:20240304T100000Z")
	assert.Contains(t, out, "FREQ=WEEKLY")
	assert.Contains(t, out, "UNTIL=20240401T100000Z")
	assert.Contains(t, out, "URL:https://zoom.us/j/123456789")
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestExportAllDayEvent(t *testing.T) {
	ev := &models.Event{
		ID:    uuid.New(),
		Title: "Conference",
		Date:  models.NewDate(2024, time.March, 4),
	}

	out, err := Export([]*models.Event{ev})
	require.NoError(t, err)

	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240304")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20240305")
	assert.NotContains(t, out, "RRULE")
}

func TestExportOpenEndedRecurrenceHasNoUntil(t *testing.T) {
	ev := timedEvent()
	ev.Recurrence = models.RecurrenceDaily
	ev.EndDate = nil

	out, err := Export([]*models.Event{ev})
	require.NoError(t, err)

	assert.Contains(t, out, "FREQ=DAILY")
	assert.NotContains(t, out, "UNTIL")
}

func TestExportMultipleEvents(t *testing.T) {
	a := timedEvent()
	b := timedEvent()
	b.ID = uuid.New()
	b.Title = "Retro"
	b.Recurrence = models.RecurrenceNone
	b.EndDate = nil

	out, err := Export([]*models.Event{a, b})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Retro")
}

func TestExportRejectsMalformedClock(t *testing.T) {
	ev := timedEvent()
	ev.Time = "nope"

	_, err := Export([]*models.Event{ev})
	assert.Error(t, err)
}

func TestExportEmptyList(t *testing.T) {
	out, err := Export(nil)
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
