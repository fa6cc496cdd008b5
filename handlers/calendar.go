package handlers

import (
	"log"
	"net/http"
	"time"

	"organizer-api/models"
	"organizer-api/services"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	cache      *services.CacheManager
	organizer  *services.OrganizerService
	aggregator *services.AggregatorService
}

func NewCalendarHandler(cache *services.CacheManager, organizer *services.OrganizerService, aggregator *services.AggregatorService) *CalendarHandler {
	return &CalendarHandler{
		cache:      cache,
		organizer:  organizer,
		aggregator: aggregator,
	}
}

// GetMonth возвращает ячейки сетки месяца вокруг calendarDate.
func (h *CalendarHandler) GetMonth(c *gin.Context) {
	log.Println("CalendarHandler - GetMonth")

	calendarDate := c.Query("calendarDate")
	if calendarDate == "" {
		calendarDate = time.Now().UTC().Format("2006-01-02")
	}
	reference, err := time.Parse("2006-01-02", calendarDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid calendarDate, expected YYYY-MM-DD",
			Message: err.Error(),
		})
		return
	}

	days, err := h.organizer.MonthCalendar(c.Request.Context(), calendarDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to fetch month calendar",
			Message: err.Error(),
		})
		return
	}

	buckets := h.aggregator.BucketByDay(days, reference)

	c.JSON(http.StatusOK, gin.H{
		"month": reference.Format("2006-01"),
		"days":  buckets,
	})
}

// GetGantt строит диаграмму Ганта по кэшированным активностям.
func (h *CalendarHandler) GetGantt(c *gin.Context) {
	log.Println("CalendarHandler - GetGantt")

	activities := h.cache.GetActivities(c.Request.Context())
	chart := h.aggregator.GanttChart(activities)

	c.JSON(http.StatusOK, chart)
}
