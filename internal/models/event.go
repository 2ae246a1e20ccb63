package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recurrence describes how often an event repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Valid reports whether r is one of the supported recurrence values.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// EventColors is the fixed palette accepted for the color tag. The tag is
// cosmetic only and has no behavioral effect.
var EventColors = []string{
	"primary", "secondary", "accent", "destructive",
	"red", "orange", "amber", "green", "blue", "indigo", "purple", "pink", "teal",
}

// ValidColor reports whether c belongs to the palette.
func ValidColor(c string) bool {
	for _, known := range EventColors {
		if c == known {
			return true
		}
	}
	return false
}

// Event is a calendar event. For recurring events the ID denotes the whole
// series; individual occurrences are computed from Date, Recurrence and
// EndDate and are never stored separately.
type Event struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	Title           string     `json:"title" db:"title"`
	Date            Date       `json:"date" db:"date"`
	Time            string     `json:"time,omitempty" db:"time"` // HH:MM, empty means all-day
	Color           string     `json:"color" db:"color"`
	Recurrence      Recurrence `json:"recurrence" db:"recurrence"`
	EndDate         *Date      `json:"end_date,omitempty" db:"end_date"`
	MeetingLink     string     `json:"meeting_link,omitempty" db:"meeting_link"`
	ReminderEnabled bool       `json:"reminder_enabled" db:"reminder_enabled"`
	ReminderMinutes int        `json:"reminder_minutes" db:"reminder_minutes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// AllDay reports whether the event has no clock time.
func (e *Event) AllDay() bool {
	return e.Time == ""
}

// Recurring reports whether the event repeats.
func (e *Event) Recurring() bool {
	return e.Recurrence != "" && e.Recurrence != RecurrenceNone
}

// StartHour returns the hour component of Time. All-day events report ok=false.
func (e *Event) StartHour() (hour int, ok bool) {
	if e.Time == "" {
		return 0, false
	}
	h, _, err := parseClock(e.Time)
	if err != nil {
		return 0, false
	}
	return h, true
}

// EventRequest carries the fields a client may set when creating or
// replacing an event.
type EventRequest struct {
	Title           string     `json:"title" validate:"required,max=200"`
	Date            Date       `json:"date"`
	Time            string     `json:"time,omitempty"`
	Color           string     `json:"color,omitempty"`
	Recurrence      Recurrence `json:"recurrence,omitempty"`
	EndDate         *Date      `json:"end_date,omitempty"`
	MeetingLink     string     `json:"meeting_link,omitempty" validate:"omitempty,url"`
	ReminderEnabled *bool      `json:"reminder_enabled,omitempty"`
	ReminderMinutes *int       `json:"reminder_minutes,omitempty" validate:"omitempty,min=0,max=1440"`
}

var (
	ErrMissingDate     = errors.New("date is required")
	ErrInvalidTime     = errors.New("time must be HH:MM")
	ErrInvalidColor    = errors.New("unknown color")
	ErrInvalidRecur    = errors.New("unknown recurrence")
	ErrEndBeforeStart  = errors.New("end_date is before date")
	ErrEndWithoutRecur = errors.New("end_date requires a recurrence")
)

// Validate applies the cross-field rules the struct tags cannot express.
// Invalid definitions are rejected here, at the edge; the occurrence
// resolver assumes well-formed events.
func (r *EventRequest) Validate() error {
	if r.Date.IsZero() {
		return ErrMissingDate
	}
	if r.Time != "" {
		if _, _, err := parseClock(r.Time); err != nil {
			return ErrInvalidTime
		}
	}
	if r.Color != "" && !ValidColor(r.Color) {
		return ErrInvalidColor
	}
	if r.Recurrence != "" && !r.Recurrence.Valid() {
		return ErrInvalidRecur
	}
	if r.EndDate != nil && !r.EndDate.IsZero() {
		if r.Recurrence == "" || r.Recurrence == RecurrenceNone {
			return ErrEndWithoutRecur
		}
		if r.EndDate.Before(r.Date.Time) {
			return ErrEndBeforeStart
		}
	}
	return nil
}

// ToEvent materializes the request into a new Event owned by userID,
// applying the documented defaults.
func (r *EventRequest) ToEvent(userID uuid.UUID) *Event {
	ev := &Event{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           r.Title,
		Date:            r.Date,
		Time:            r.Time,
		Color:           "primary",
		Recurrence:      RecurrenceNone,
		MeetingLink:     r.MeetingLink,
		ReminderEnabled: true,
		ReminderMinutes: 15,
	}
	if r.Color != "" {
		ev.Color = r.Color
	}
	if r.Recurrence != "" {
		ev.Recurrence = r.Recurrence
	}
	// end_date is meaningless without a recurrence; drop it rather than
	// carrying it into the resolver.
	if ev.Recurrence != RecurrenceNone && r.EndDate != nil && !r.EndDate.IsZero() {
		end := *r.EndDate
		ev.EndDate = &end
	}
	if r.ReminderEnabled != nil {
		ev.ReminderEnabled = *r.ReminderEnabled
	}
	if r.ReminderMinutes != nil {
		ev.ReminderMinutes = *r.ReminderMinutes
	}
	return ev
}

func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed clock time %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("malformed clock time %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("malformed clock time %q", s)
	}
	return hour, minute, nil
}

// ParseClock parses an HH:MM string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	return parseClock(s)
}
