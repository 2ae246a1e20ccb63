package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GiangQuan/warm-calendar/internal/ics"
	"github.com/GiangQuan/warm-calendar/internal/models"
	"github.com/GiangQuan/warm-calendar/internal/repository"
	"github.com/GiangQuan/warm-calendar/internal/series"
)

type EventHandler struct {
	events repository.EventRepository
	log    zerolog.Logger
}

func NewEventHandler(events repository.EventRepository, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		events: events,
		log:    log,
	}
}

// List returns the current user's events.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.ListByUser(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list events")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	if events == nil {
		events = []*models.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Create validates and stores a new event.
func (h *EventHandler) Create(c *gin.Context) {
	req, ok := h.bindEventRequest(c)
	if !ok {
		return
	}

	created, err := h.events.Create(c.Request.Context(), req.ToEvent(CurrentUserID(c)))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	h.log.Info().Str("event_id", created.ID.String()).Msg("Event created")
	c.JSON(http.StatusCreated, gin.H{"event": created})
}

// Update replaces an event's fields. Form edits always operate on the whole
// series: for recurring events this is the move-all path by construction.
func (h *EventHandler) Update(c *gin.Context) {
	existing, ok := h.ownedEvent(c)
	if !ok {
		return
	}
	req, ok := h.bindEventRequest(c)
	if !ok {
		return
	}

	updated := req.ToEvent(existing.UserID)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	stored, err := h.events.Update(c.Request.Context(), updated)
	if err != nil {
		h.log.Error().Err(err).Str("event_id", existing.ID.String()).Msg("Failed to update event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": stored})
}

// Delete removes an event; for recurring events this deletes the whole
// series, there is no per-instance delete.
func (h *EventHandler) Delete(c *gin.Context) {
	existing, ok := h.ownedEvent(c)
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), existing.ID); err != nil {
		h.log.Error().Err(err).Str("event_id", existing.ID.String()).Msg("Failed to delete event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	c.Status(http.StatusNoContent)
}

// MoveRequest is the drag-and-drop resolution payload. Time distinguishes
// absent (keep the event's time), empty (clear it: all-day drop) and HH:MM
// (hour-slot drop). Scope is required only when the event recurs.
type MoveRequest struct {
	Date  models.Date  `json:"date"`
	Time  *string      `json:"time"`
	Scope series.Scope `json:"scope"`
}

// Move applies a drag-and-drop reschedule. Dropping a recurring event
// without a scope answers 409 choice_required: the AwaitingChoice suspend
// state surfaced over HTTP. Nothing is persisted until the client repeats
// the call with scope one or all.
func (h *EventHandler) Move(c *gin.Context) {
	existing, ok := h.ownedEvent(c)
	if !ok {
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	if req.Time != nil && *req.Time != "" {
		if _, _, err := models.ParseClock(*req.Time); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "time must be HH:MM"})
			return
		}
	}

	target := series.Target{Date: req.Date, Time: req.Time}
	outcome, err := series.Apply(existing, target, req.Scope)
	if errors.Is(err, series.ErrChoiceRequired) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "choice_required",
			"message": "Event is recurring; choose whether to move one occurrence or the entire series",
			"choices": []series.Scope{series.ScopeOne, series.ScopeAll},
		})
		return
	}
	if errors.Is(err, series.ErrUnknownScope) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be one or all"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("event_id", existing.ID.String()).Msg("Failed to resolve move")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move event"})
		return
	}

	switch {
	case outcome.Series != nil:
		stored, err := h.events.Update(c.Request.Context(), outcome.Series)
		if err != nil {
			h.log.Error().Err(err).Str("event_id", existing.ID.String()).Msg("Failed to persist series move")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move event"})
			return
		}
		h.log.Info().Str("event_id", stored.ID.String()).Str("date", stored.Date.String()).Msg("Event moved")
		c.JSON(http.StatusOK, gin.H{"event": stored})

	case outcome.Detached != nil:
		created, err := h.events.Create(c.Request.Context(), outcome.Detached)
		if err != nil {
			h.log.Error().Err(err).Str("event_id", existing.ID.String()).Msg("Failed to persist detached occurrence")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move event"})
			return
		}
		h.log.Info().
			Str("series_id", existing.ID.String()).
			Str("event_id", created.ID.String()).
			Msg("Occurrence detached")
		c.JSON(http.StatusCreated, gin.H{"event": created, "series": existing})
	}
}

// ExportICS streams the user's events as an iCalendar document.
func (h *EventHandler) ExportICS(c *gin.Context) {
	events, err := h.events.ListByUser(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list events for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export events"})
		return
	}

	doc, err := ics.Export(events)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to serialize calendar")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export events"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(doc))
}

func (h *EventHandler) bindEventRequest(c *gin.Context) (*models.EventRequest, bool) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return &req, true
}

// ownedEvent loads the :id event and checks it belongs to the caller.
// Foreign events answer 404 rather than 403 to avoid leaking their
// existence.
func (h *EventHandler) ownedEvent(c *gin.Context) (*models.Event, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID format"})
		return nil, false
	}

	event, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return nil, false
		}
		h.log.Error().Err(err).Str("event_id", id.String()).Msg("Failed to get event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		return nil, false
	}
	if event.UserID != CurrentUserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return nil, false
	}
	return event, true
}
