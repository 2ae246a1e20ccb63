package view

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiangQuan/warm-calendar/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mkEvent(title string, anchor time.Time, clock string, rec models.Recurrence) *models.Event {
	return &models.Event{
		ID:         uuid.New(),
		Title:      title,
		Date:       models.DateOf(anchor),
		Time:       clock,
		Color:      "primary",
		Recurrence: rec,
	}
}

func cellFor(t *testing.T, grid MonthGrid, want models.Date) DayCell {
	t.Helper()
	for _, c := range grid.Cells {
		if c.Date.Equal(want) {
			return c
		}
	}
	t.Fatalf("no cell for %s", want)
	return DayCell{}
}

func TestProjectMonthCoversWholeWeeks(t *testing.T) {
	grid := ProjectMonth(nil, day(2024, time.March, 15), Options{})

	// March 2024 runs Friday the 1st to Sunday the 31st: the Sunday-first
	// grid spans 2024-02-25 .. 2024-04-06, six full weeks.
	require.Len(t, grid.Cells, 42)
	assert.Zero(t, len(grid.Cells)%7, "grid is whole weeks")
	assert.Equal(t, time.Sunday, grid.Cells[0].Date.Weekday())
	assert.Equal(t, time.Saturday, grid.Cells[len(grid.Cells)-1].Date.Weekday())

	first := grid.Cells[0].Date
	last := grid.Cells[len(grid.Cells)-1].Date
	assert.False(t, first.After(day(2024, time.March, 1)), "grid starts at or before the 1st")
	assert.False(t, last.Before(day(2024, time.March, 31)), "grid ends at or after the 31st")

	// September 2024 starts on a Sunday and fits in five weeks.
	sept := ProjectMonth(nil, day(2024, time.September, 10), Options{})
	assert.Len(t, sept.Cells, 35)
	assert.Equal(t, "2024-09-01", sept.Cells[0].Date.String())
}

func TestProjectMonthMarksInMonth(t *testing.T) {
	grid := ProjectMonth(nil, day(2024, time.March, 15), Options{})

	assert.False(t, cellFor(t, grid, models.NewDate(2024, time.February, 26)).InMonth)
	assert.True(t, cellFor(t, grid, models.NewDate(2024, time.March, 1)).InMonth)
	assert.True(t, cellFor(t, grid, models.NewDate(2024, time.March, 31)).InMonth)
}

func TestProjectMonthPlacesOccurrences(t *testing.T) {
	weekly := mkEvent("standup", day(2024, time.March, 4), "09:00", models.RecurrenceWeekly)
	singleton := mkEvent("dentist", day(2024, time.March, 12), "11:00", models.RecurrenceNone)

	grid := ProjectMonth([]*models.Event{weekly, singleton}, day(2024, time.March, 1), Options{})

	mondays := []models.Date{
		models.NewDate(2024, time.March, 4),
		models.NewDate(2024, time.March, 11),
		models.NewDate(2024, time.March, 18),
		models.NewDate(2024, time.March, 25),
	}
	for _, d := range mondays {
		cell := cellFor(t, grid, d)
		require.Len(t, cell.Events, 1, "on %s", d)
		assert.Equal(t, "standup", cell.Events[0].Title)
	}

	tue := cellFor(t, grid, models.NewDate(2024, time.March, 12))
	require.Len(t, tue.Events, 1)
	assert.Equal(t, "dentist", tue.Events[0].Title)

	empty := cellFor(t, grid, models.NewDate(2024, time.March, 13))
	assert.Empty(t, empty.Events)
}

func TestProjectMonthOverflowReported(t *testing.T) {
	target := day(2024, time.March, 6)
	var events []*models.Event
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		events = append(events, mkEvent(title, target, "", models.RecurrenceNone))
	}

	grid := ProjectMonth(events, target, Options{DisplayCap: 2})
	cell := cellFor(t, grid, models.DateOf(target))

	require.Len(t, cell.Events, 2)
	assert.Equal(t, 3, cell.Overflow, "excess is counted, not dropped")
	assert.Equal(t, "a", cell.Events[0].Title, "input order preserved")
	assert.Equal(t, "b", cell.Events[1].Title)
}

type fixedHolidays map[string][]string

func (f fixedHolidays) LabelsFor(d time.Time) []string {
	return f[d.Format(models.DateLayout)]
}

func TestProjectMonthHolidayLabels(t *testing.T) {
	holidays := fixedHolidays{"2024-03-08": {"International Women's Day"}}
	grid := ProjectMonth(nil, day(2024, time.March, 1), Options{Holidays: holidays})

	cell := cellFor(t, grid, models.NewDate(2024, time.March, 8))
	assert.Equal(t, []string{"International Women's Day"}, cell.Holidays)
	assert.Empty(t, cellFor(t, grid, models.NewDate(2024, time.March, 9)).Holidays)
}

func TestProjectWeekBucketsByHour(t *testing.T) {
	// Week of Monday 2024-03-04 (grid starts Sunday 2024-03-03).
	timed := mkEvent("standup", day(2024, time.March, 4), "09:30", models.RecurrenceNone)
	allDay := mkEvent("conference", day(2024, time.March, 4), "", models.RecurrenceNone)

	grid := ProjectWeek([]*models.Event{timed, allDay}, day(2024, time.March, 4), Options{})

	require.Len(t, grid.Days, 7)
	assert.Equal(t, "2024-03-03", grid.Days[0].Date.String())
	assert.Equal(t, "2024-03-09", grid.Days[6].Date.String())

	var hour9, allDaySlot *WeekSlot
	for i := range grid.Slots {
		s := &grid.Slots[i]
		if s.Date.String() != "2024-03-04" {
			continue
		}
		switch s.Hour {
		case 9:
			hour9 = s
		case AllDayBucket:
			allDaySlot = s
		}
	}

	require.NotNil(t, hour9, "09:30 lands in the 9 o'clock bucket")
	require.Len(t, hour9.Events, 1)
	assert.Equal(t, "standup", hour9.Events[0].Title)

	require.NotNil(t, allDaySlot, "untimed events land in the all-day bucket")
	require.Len(t, allDaySlot.Events, 1)
	assert.Equal(t, "conference", allDaySlot.Events[0].Title)
}

func TestProjectWeekIncludesRecurring(t *testing.T) {
	daily := mkEvent("gym", day(2024, time.February, 1), "07:00", models.RecurrenceDaily)
	grid := ProjectWeek([]*models.Event{daily}, day(2024, time.March, 4), Options{})

	count := 0
	for _, s := range grid.Slots {
		if s.Hour == 7 {
			count++
			require.Len(t, s.Events, 1)
			assert.Equal(t, "gym", s.Events[0].Title)
		}
	}
	assert.Equal(t, 7, count, "daily event fills every day of the week")
}

func TestProjectWeekOverflow(t *testing.T) {
	target := day(2024, time.March, 4)
	var events []*models.Event
	for _, title := range []string{"a", "b", "c", "d"} {
		events = append(events, mkEvent(title, target, "10:00", models.RecurrenceNone))
	}

	grid := ProjectWeek(events, target, Options{DisplayCap: 3})
	for _, s := range grid.Slots {
		if s.Date.String() == "2024-03-04" && s.Hour == 10 {
			assert.Len(t, s.Events, 3)
			assert.Equal(t, 1, s.Overflow)
			return
		}
	}
	t.Fatal("expected a 10 o'clock slot")
}
