package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GiangQuan/warm-calendar/internal/models"
)

// EventRepository defines the interface for event data access. Update and
// Create return the persisted row so callers refresh local state from what
// the store acknowledged, not from their optimistic input.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Event, error)
	ListAll(ctx context.Context) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) (*models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB, log zerolog.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log,
	}
}

const eventColumns = `id, user_id, title, date, time, color, recurrence, end_date,
	meeting_link, reminder_enabled, reminder_minutes, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var (
		event   models.Event
		endDate models.Date
	)
	err := row.Scan(
		&event.ID,
		&event.UserID,
		&event.Title,
		&event.Date,
		&event.Time,
		&event.Color,
		&event.Recurrence,
		&endDate,
		&event.MeetingLink,
		&event.ReminderEnabled,
		&event.ReminderMinutes,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if !endDate.IsZero() {
		event.EndDate = &endDate
	}
	return &event, nil
}

// Create inserts a new event and returns the stored row.
func (r *eventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	query := `
		INSERT INTO events (id, user_id, title, date, time, color, recurrence, end_date,
			meeting_link, reminder_enabled, reminder_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.Title,
		event.Date,
		event.Time,
		event.Color,
		event.Recurrence,
		nullableDate(event.EndDate),
		event.MeetingLink,
		event.ReminderEnabled,
		event.ReminderMinutes,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		r.log.Error().Err(err).Str("event_id", event.ID.String()).Msg("Failed to create event")
		return nil, err
	}

	return r.GetByID(ctx, event.ID)
}

// GetByID retrieves an event by its ID
func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		r.log.Error().Err(err).Str("event_id", id.String()).Msg("Failed to get event")
		return nil, err
	}
	return event, nil
}

// ListByUser returns the user's events ordered by anchor date, then
// creation time for a stable order within a day.
func (r *eventRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE user_id = ? ORDER BY date ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list events")
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// ListAll returns every stored event. Used by the reminder scheduler's
// minute scan.
func (r *eventRepository) ListAll(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to list all events")
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Update replaces the mutable fields of an existing event and returns the
// stored row.
func (r *eventRepository) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		UPDATE events
		SET title = ?, date = ?, time = ?, color = ?, recurrence = ?, end_date = ?,
			meeting_link = ?, reminder_enabled = ?, reminder_minutes = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		event.Title,
		event.Date,
		event.Time,
		event.Color,
		event.Recurrence,
		nullableDate(event.EndDate),
		event.MeetingLink,
		event.ReminderEnabled,
		event.ReminderMinutes,
		time.Now(),
		event.ID,
	)
	if err != nil {
		r.log.Error().Err(err).Str("event_id", event.ID.String()).Msg("Failed to update event")
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrEventNotFound
	}

	return r.GetByID(ctx, event.ID)
}

// Delete removes an event (the whole series for recurring events).
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		r.log.Error().Err(err).Str("event_id", id.String()).Msg("Failed to delete event")
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func nullableDate(d *models.Date) interface{} {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Format(models.DateLayout)
}
