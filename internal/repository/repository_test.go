package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiangQuan/warm-calendar/internal/database"
	"github.com/GiangQuan/warm-calendar/internal/models"
)

func setup(t *testing.T) (UserRepository, EventRepository) {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zerolog.Nop()
	return NewUserRepository(db.DB(), log), NewEventRepository(db.DB(), log)
}

func createUser(t *testing.T, users UserRepository) *models.User {
	t.Helper()
	user, err := users.Create(context.Background(), "alice@example.com", "s3cret-pass", "Alice")
	require.NoError(t, err)
	return user
}

func newEvent(userID uuid.UUID) *models.Event {
	return &models.Event{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           "Team Meeting",
		Date:            models.NewDate(2024, time.March, 4),
		Time:            "10:00",
		Color:           "primary",
		Recurrence:      models.RecurrenceNone,
		ReminderEnabled: true,
		ReminderMinutes: 15,
	}
}

func TestUserCreateAndAuthenticate(t *testing.T) {
	users, _ := setup(t)
	ctx := context.Background()

	user := createUser(t, users)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.HashedPassword, "password is stored hashed")

	got, err := users.Authenticate(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = users.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUserNotFound, "wrong password looks like a missing account")

	_, err = users.Authenticate(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserEmailNormalizedAndUnique(t *testing.T) {
	users, _ := setup(t)
	ctx := context.Background()

	createUser(t, users)

	_, err := users.Create(ctx, "  ALICE@example.com ", "another-pass", "Imposter")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	got, err := users.GetByEmail(ctx, "Alice@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestUserUpdateProfilePartial(t *testing.T) {
	users, _ := setup(t)
	ctx := context.Background()
	user := createUser(t, users)

	name := "Alice B."
	got, err := users.UpdateProfile(ctx, user.ID, &models.UpdateProfileRequest{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", got.DisplayName)
	assert.Equal(t, user.AvatarURL, got.AvatarURL, "nil fields are left alone")
}

func TestUserDelete(t *testing.T) {
	users, _ := setup(t)
	ctx := context.Background()
	user := createUser(t, users)

	require.NoError(t, users.Delete(ctx, user.ID))
	_, err := users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, users.Delete(ctx, user.ID), ErrUserNotFound)
}

func TestEventCreateRoundTrip(t *testing.T) {
	users, events := setup(t)
	ctx := context.Background()
	user := createUser(t, users)

	end := models.NewDate(2024, time.April, 1)
	ev := newEvent(user.ID)
	ev.Recurrence = models.RecurrenceWeekly
	ev.EndDate = &end
	ev.MeetingLink = "https://zoom.us/j/123456789"

	stored, err := events.Create(ctx, ev)
	require.NoError(t, err)

	assert.Equal(t, ev.ID, stored.ID)
	assert.Equal(t, "2024-03-04", stored.Date.String())
	assert.Equal(t, "10:00", stored.Time)
	assert.Equal(t, models.RecurrenceWeekly, stored.Recurrence)
	require.NotNil(t, stored.EndDate)
	assert.Equal(t, "2024-04-01", stored.EndDate.String())
	assert.Equal(t, "https://zoom.us/j/123456789", stored.MeetingLink)
	assert.True(t, stored.ReminderEnabled)
}

func TestEventNullEndDate(t *testing.T) {
	users, events := setup(t)
	ctx := context.Background()
	user := createUser(t, users)

	stored, err := events.Create(ctx, newEvent(user.ID))
	require.NoError(t, err)
	assert.Nil(t, stored.EndDate)
}

func TestEventListByUserScopedAndOrdered(t *testing.T) {
	users, events := setup(t)
	ctx := context.Background()
	alice := createUser(t, users)
	bob, err := users.Create(ctx, "bob@example.com", "hunter2-pass", "Bob")
	require.NoError(t, err)

	later := newEvent(alice.ID)
	later.Date = models.NewDate(2024, time.March, 10)
	earlier := newEvent(alice.ID)
	foreign := newEvent(bob.ID)

	for _, ev := range []*models.Event{later, earlier, foreign} {
		_, err := events.Create(ctx, ev)
		require.NoError(t, err)
	}

	got, err := events.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, earlier.ID, got[0].ID, "ordered by anchor date")
	assert.Equal(t, later.ID, got[1].ID)
}

func TestEventUpdate(t *testing.T) {
	users, events := setup(t)
	ctx := context.Background()
	user := createUser(t, users)

	stored, err := events.Create(ctx, newEvent(user.ID))
	require.NoError(t, err)

	stored.Title = "Moved Meeting"
	stored.Date = models.NewDate(2024, time.March, 7)
	stored.Time = ""

	got, err := events.Update(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, "Moved Meeting", got.Title)
	assert.Equal(t, "2024-03-07", got.Date.String())
	assert.True(t, got.AllDay())

	missing := newEvent(user.ID)
	_, err = events.Update(ctx, missing)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDeleteCascadesWithUser(t *testing.T) {
	users, events := setup(t)
	ctx := context.Background()
	user := createUser(t, users)

	stored, err := events.Create(ctx, newEvent(user.ID))
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, user.ID))
	_, err = events.GetByID(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDelete(t *testing.T) {
	users, events := setup(t)
	ctx := context.Background()
	user := createUser(t, users)

	stored, err := events.Create(ctx, newEvent(user.ID))
	require.NoError(t, err)

	require.NoError(t, events.Delete(ctx, stored.ID))
	assert.ErrorIs(t, events.Delete(ctx, stored.ID), ErrEventNotFound)
}
