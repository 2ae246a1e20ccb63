package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/GiangQuan/warm-calendar/internal/models"
	"github.com/GiangQuan/warm-calendar/internal/repository"
	"github.com/GiangQuan/warm-calendar/internal/view"
)

type ViewHandler struct {
	events   repository.EventRepository
	holidays view.HolidaySource
	log      zerolog.Logger
}

func NewViewHandler(events repository.EventRepository, holidays view.HolidaySource, log zerolog.Logger) *ViewHandler {
	return &ViewHandler{
		events:   events,
		holidays: holidays,
		log:      log,
	}
}

// Month returns the month grid containing ?anchor=YYYY-MM-DD.
func (h *ViewHandler) Month(c *gin.Context) {
	anchor, events, ok := h.viewInputs(c)
	if !ok {
		return
	}
	grid := view.ProjectMonth(events, anchor.Time, view.Options{Holidays: h.holidays})
	c.JSON(http.StatusOK, grid)
}

// Week returns the week grid containing ?anchor=YYYY-MM-DD.
func (h *ViewHandler) Week(c *gin.Context) {
	anchor, events, ok := h.viewInputs(c)
	if !ok {
		return
	}
	grid := view.ProjectWeek(events, anchor.Time, view.Options{Holidays: h.holidays})
	c.JSON(http.StatusOK, grid)
}

func (h *ViewHandler) viewInputs(c *gin.Context) (models.Date, []*models.Event, bool) {
	raw := c.Query("anchor")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "anchor parameter is required"})
		return models.Date{}, nil, false
	}
	anchor, err := models.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "anchor must be YYYY-MM-DD"})
		return models.Date{}, nil, false
	}

	events, err := h.events.ListByUser(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list events for view")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return models.Date{}, nil, false
	}
	return anchor, events, true
}
