// Package series resolves drag-and-drop moves against events. Moving a
// non-recurring event is unambiguous; moving a recurring one is not (shift
// the whole pattern, or carve out just this occurrence?), so the resolver
// suspends and demands an explicit choice instead of guessing.
package series

import (
	"errors"

	"github.com/google/uuid"

	"github.com/GiangQuan/warm-calendar/internal/models"
)

// Target is the date/time a drag proposes. Time is a tri-state: nil keeps
// the event's current time, an empty string clears it (a drop on an all-day
// slot), and HH:MM sets it (a drop on an hour slot).
type Target struct {
	Date models.Date
	Time *string
}

// Scope selects how a move against a recurring series is applied.
type Scope string

const (
	// ScopeUnspecified means the caller has not yet answered the
	// move-one/move-all question.
	ScopeUnspecified Scope = ""
	// ScopeOne detaches a single occurrence into a new one-off event.
	ScopeOne Scope = "one"
	// ScopeAll shifts the whole series by re-anchoring it.
	ScopeAll Scope = "all"
)

var (
	// ErrChoiceRequired is returned when a recurring event is moved without
	// a scope. It is not a failure: it is the suspended AwaitingChoice state
	// surfaced to the caller.
	ErrChoiceRequired = errors.New("recurring event move requires a scope")
	// ErrUnknownScope is returned for scope values other than one/all.
	ErrUnknownScope = errors.New("unknown move scope")
)

// Outcome describes the mutations a resolved move produces. Series is the
// event to update in place (nil when untouched); Detached is a brand-new
// one-off event to create (nil unless the move was scoped to one
// occurrence). At most one persistence write follows from each field, so a
// detach never overwrites the original.
type Outcome struct {
	Series   *models.Event
	Detached *models.Event
}

// Resolve applies a proposed move to a non-recurring event, or reports that
// a recurring one needs an explicit choice first.
func Resolve(ev *models.Event, target Target) (Outcome, error) {
	if ev.Recurring() {
		return Outcome{}, ErrChoiceRequired
	}
	return moveAll(ev, target), nil
}

// Apply resolves a move with the caller's choice. For non-recurring events
// the scope is ignored; the move is direct either way.
func Apply(ev *models.Event, target Target, scope Scope) (Outcome, error) {
	if !ev.Recurring() {
		return moveAll(ev, target), nil
	}
	switch scope {
	case ScopeAll:
		return moveAll(ev, target), nil
	case ScopeOne:
		return moveOne(ev, target), nil
	case ScopeUnspecified:
		return Outcome{}, ErrChoiceRequired
	default:
		return Outcome{}, ErrUnknownScope
	}
}

// moveAll re-anchors the event itself. The rest of a recurring series
// shifts implicitly because occurrences are computed from the anchor.
func moveAll(ev *models.Event, target Target) Outcome {
	updated := *ev
	updated.Date = target.Date
	if target.Time != nil {
		updated.Time = *target.Time
	}
	return Outcome{Series: &updated}
}

// moveOne leaves the series entirely untouched and materializes the dragged
// occurrence as a new, independent one-off event with its own identity.
func moveOne(ev *models.Event, target Target) Outcome {
	detached := &models.Event{
		ID:              uuid.New(),
		UserID:          ev.UserID,
		Title:           ev.Title,
		Date:            target.Date,
		Time:            ev.Time,
		Color:           ev.Color,
		Recurrence:      models.RecurrenceNone,
		MeetingLink:     ev.MeetingLink,
		ReminderEnabled: ev.ReminderEnabled,
		ReminderMinutes: ev.ReminderMinutes,
	}
	if target.Time != nil {
		detached.Time = *target.Time
	}
	return Outcome{Detached: detached}
}
