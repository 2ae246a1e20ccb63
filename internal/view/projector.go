// Package view projects a flat event collection into the day-by-day month
// grid and hour-by-day week grid the frontend renders. Projections are
// derived purely from the occurrence resolver, hold no state, and may be
// recomputed on every request.
package view

import (
	"time"

	"github.com/GiangQuan/warm-calendar/internal/models"
	"github.com/GiangQuan/warm-calendar/internal/recurrence"
)

// DefaultDisplayCap is how many events a cell lists before overflowing.
const DefaultDisplayCap = 3

// AllDayBucket is the hour value used for occurrences without a clock time.
const AllDayBucket = -1

// HolidaySource supplies decorative per-day labels. It never influences
// which events occur.
type HolidaySource interface {
	LabelsFor(day time.Time) []string
}

// Options tunes a projection.
type Options struct {
	// DisplayCap bounds the events listed per cell; the excess is reported
	// as an overflow count, never dropped silently. Zero means
	// DefaultDisplayCap.
	DisplayCap int
	// Holidays, when set, decorates day cells with labels.
	Holidays HolidaySource
	// WeekStart is the first weekday of the grid. The zero value is Sunday,
	// matching the frontend.
	WeekStart time.Weekday
}

func (o Options) cap() int {
	if o.DisplayCap <= 0 {
		return DefaultDisplayCap
	}
	return o.DisplayCap
}

// DayCell is one cell of the month grid.
type DayCell struct {
	Date     models.Date     `json:"date"`
	InMonth  bool            `json:"in_month"`
	Events   []*models.Event `json:"events"`
	Overflow int             `json:"overflow"`
	Holidays []string        `json:"holidays,omitempty"`
}

// MonthGrid covers the target month plus the leading/trailing days needed
// to complete whole weeks, so len(Cells) is always a multiple of 7
// (typically 35 or 42).
type MonthGrid struct {
	Anchor models.Date `json:"anchor"`
	Cells  []DayCell   `json:"cells"`
}

// ProjectMonth builds the month grid containing anchor.
func ProjectMonth(events []*models.Event, anchor time.Time, opts Options) MonthGrid {
	anchorDay := recurrence.Normalize(anchor)
	monthStart := time.Date(anchorDay.Year(), anchorDay.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	gridStart := startOfWeek(monthStart, opts.WeekStart)
	gridEnd := endOfWeek(monthEnd, opts.WeekStart)

	grid := MonthGrid{Anchor: models.DateOf(anchorDay)}
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		grid.Cells = append(grid.Cells, makeCell(events, d, d.Month() == monthStart.Month(), opts))
	}
	return grid
}

// WeekSlot is one (day, hour) bucket of the week grid. Hour is AllDayBucket
// for occurrences without a time; a timed occurrence lands in the bucket of
// its hour component.
type WeekSlot struct {
	Date     models.Date     `json:"date"`
	Hour     int             `json:"hour"`
	Events   []*models.Event `json:"events"`
	Overflow int             `json:"overflow"`
}

// WeekGrid covers the seven days of the week containing the anchor.
type WeekGrid struct {
	Anchor models.Date `json:"anchor"`
	Days   []DayCell   `json:"days"`  // per-day headers with holidays; Events left empty
	Slots  []WeekSlot  `json:"slots"` // only non-empty buckets are listed
}

// ProjectWeek builds the week grid containing anchor.
func ProjectWeek(events []*models.Event, anchor time.Time, opts Options) WeekGrid {
	anchorDay := recurrence.Normalize(anchor)
	weekStart := startOfWeek(anchorDay, opts.WeekStart)

	grid := WeekGrid{Anchor: models.DateOf(anchorDay)}
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		grid.Days = append(grid.Days, DayCell{
			Date:     models.DateOf(day),
			InMonth:  day.Month() == anchorDay.Month(),
			Holidays: labels(opts.Holidays, day),
		})

		occurring := recurrence.EventsForDate(events, day)
		buckets := make(map[int][]*models.Event)
		var order []int
		for _, ev := range occurring {
			hour := AllDayBucket
			if h, ok := ev.StartHour(); ok {
				hour = h
			}
			if _, seen := buckets[hour]; !seen {
				order = append(order, hour)
			}
			buckets[hour] = append(buckets[hour], ev)
		}
		for _, hour := range order {
			slot := WeekSlot{Date: models.DateOf(day), Hour: hour}
			slot.Events, slot.Overflow = capEvents(buckets[hour], opts.cap())
			grid.Slots = append(grid.Slots, slot)
		}
	}
	return grid
}

func makeCell(events []*models.Event, day time.Time, inMonth bool, opts Options) DayCell {
	cell := DayCell{
		Date:     models.DateOf(day),
		InMonth:  inMonth,
		Holidays: labels(opts.Holidays, day),
	}
	cell.Events, cell.Overflow = capEvents(recurrence.EventsForDate(events, day), opts.cap())
	return cell
}

func capEvents(events []*models.Event, cap int) ([]*models.Event, int) {
	if len(events) <= cap {
		return events, 0
	}
	return events[:cap], len(events) - cap
}

func labels(src HolidaySource, day time.Time) []string {
	if src == nil {
		return nil
	}
	return src.LabelsFor(day)
}

func startOfWeek(day time.Time, weekStart time.Weekday) time.Time {
	offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func endOfWeek(day time.Time, weekStart time.Weekday) time.Time {
	return startOfWeek(day, weekStart).AddDate(0, 0, 6)
}
