// Package notify schedules event reminders. A cron job scans once a minute
// for occurrences whose reminder lead time has just elapsed and publishes a
// JSON message per hit. Delivery to the user (push, sound, toast) is the
// subscriber's concern; this side only decides when a reminder is due, and
// it consumes the occurrence resolver rather than reimplementing recurrence
// matching.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/GiangQuan/warm-calendar/internal/models"
	"github.com/GiangQuan/warm-calendar/internal/recurrence"
)

// EventSource lists the events to consider for reminders.
type EventSource interface {
	ListAll(ctx context.Context) ([]*models.Event, error)
}

// Publisher emits a reminder payload on a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Reminder is the message published when an event is due.
type Reminder struct {
	EventID     string `json:"event_id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	StartsAt    string `json:"starts_at"` // RFC 3339, UTC
	MeetingLink string `json:"meeting_link,omitempty"`
}

// RedisPublisher adapts a redis client to the Publisher interface.
type RedisPublisher struct {
	Client *redis.Client
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.Client.Publish(ctx, channel, payload).Err()
}

// Scheduler drives the minute scan.
type Scheduler struct {
	cron    *cron.Cron
	source  EventSource
	pub     Publisher
	channel string
	log     zerolog.Logger
	now     func() time.Time
}

func NewScheduler(source EventSource, pub Publisher, channel string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		source:  source,
		pub:     pub,
		channel: channel,
		log:     log,
		now:     time.Now,
	}
}

// Start registers the minute scan and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", s.scan); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("channel", s.channel).Msg("Reminder scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Reminder scheduler stopped")
}

func (s *Scheduler) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events, err := s.source.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Reminder scan failed to list events")
		return
	}

	now := s.now().UTC().Truncate(time.Minute)
	for _, ev := range events {
		due, startsAt := s.dueAt(ev, now)
		if !due {
			continue
		}
		payload, err := json.Marshal(Reminder{
			EventID:     ev.ID.String(),
			UserID:      ev.UserID.String(),
			Title:       ev.Title,
			StartsAt:    startsAt.Format(time.RFC3339),
			MeetingLink: ev.MeetingLink,
		})
		if err != nil {
			s.log.Error().Err(err).Str("event_id", ev.ID.String()).Msg("Failed to marshal reminder")
			continue
		}
		if err := s.pub.Publish(ctx, s.channel, payload); err != nil {
			s.log.Error().Err(err).Str("event_id", ev.ID.String()).Msg("Failed to publish reminder")
			continue
		}
		s.log.Info().Str("event_id", ev.ID.String()).Time("starts_at", startsAt).Msg("Reminder published")
	}
}

// dueAt reports whether ev's reminder fires exactly at the given minute,
// and the occurrence start it refers to. All-day events carry no clock time
// to remind against and are skipped.
func (s *Scheduler) dueAt(ev *models.Event, minute time.Time) (bool, time.Time) {
	if !ev.ReminderEnabled || ev.AllDay() {
		return false, time.Time{}
	}
	hour, min, err := models.ParseClock(ev.Time)
	if err != nil {
		return false, time.Time{}
	}

	// The occurrence the reminder points at is today's, if any. A lead time
	// long enough to cross midnight pushes the check to tomorrow's
	// occurrence instead.
	lead := time.Duration(ev.ReminderMinutes) * time.Minute
	for _, day := range []time.Time{recurrence.Normalize(minute), recurrence.Normalize(minute.AddDate(0, 0, 1))} {
		if !recurrence.OccursOn(ev, day) {
			continue
		}
		start := day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
		if start.Add(-lead).Equal(minute) {
			return true, start
		}
	}
	return false, time.Time{}
}
