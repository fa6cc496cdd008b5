package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"organizer-api/models"
	"organizer-api/services"

	"github.com/gin-gonic/gin"
)

type PendingHandler struct {
	cache      *services.CacheManager
	organizer  *services.OrganizerService
	aggregator *services.AggregatorService
}

func NewPendingHandler(cache *services.CacheManager, organizer *services.OrganizerService, aggregator *services.AggregatorService) *PendingHandler {
	return &PendingHandler{
		cache:      cache,
		organizer:  organizer,
		aggregator: aggregator,
	}
}

type pendingActivityView struct {
	ID          int                    `json:"id"`
	Name        string                 `json:"name"`
	SubjectID   int                    `json:"subjectId"`
	SubjectName string                 `json:"subjectName"`
	Start       string                 `json:"start"`
	End         string                 `json:"end"`
	NewEnd      string                 `json:"newEnd"`
	Color       string                 `json:"color"`
	Schedule    []models.SchedulePoint `json:"schedule"`
	Bounds      *models.ScheduleBounds `json:"bounds,omitempty"`
	CanGoPrev   bool                   `json:"canGoPrev"`
	CanGoNext   bool                   `json:"canGoNext"`
}

// GetPending возвращает активности, ожидающие подтверждения, вместе с
// расписанием и границами навигации по календарю.
func (h *PendingHandler) GetPending(c *gin.Context) {
	log.Println("PendingHandler - GetPending")

	userID, err := strconv.Atoi(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "userId parameter is required",
		})
		return
	}

	h.cache.RefreshUser(c.Request.Context(), userID)

	pending, err := h.organizer.PendingActivities(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to fetch pending activities",
			Message: err.Error(),
		})
		return
	}

	currentMonth := time.Now().UTC()
	views := make([]pendingActivityView, 0, len(pending))
	for _, activity := range pending {
		schedule := h.aggregator.DecodeSchedule(activity.ScheduleJSON)
		bounds := h.aggregator.ScheduleBounds(schedule)
		views = append(views, pendingActivityView{
			ID:          activity.ID,
			Name:        activity.Name,
			SubjectID:   activity.SubjectID,
			SubjectName: activity.SubjectName,
			Start:       activity.Start,
			End:         activity.End,
			NewEnd:      activity.NewEnd,
			Color:       h.aggregator.Colors().Pick(activity.Name),
			Schedule:    schedule,
			Bounds:      bounds,
			CanGoPrev:   h.aggregator.CanGoPrev(currentMonth, bounds),
			CanGoNext:   h.aggregator.CanGoNext(currentMonth, bounds),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"pending": views,
	})
}

// GetDayHours возвращает часы одного дня расписания выбранной активности.
func (h *PendingHandler) GetDayHours(c *gin.Context) {
	log.Println("PendingHandler - GetDayHours")

	userID, err := strconv.Atoi(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "userId parameter is required",
		})
		return
	}
	activityID, err := strconv.Atoi(c.Param("activityId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "invalid activityId",
		})
		return
	}
	day := c.Query("day")
	if _, err := time.Parse("2006-01-02", day); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "day parameter is required, expected YYYY-MM-DD",
		})
		return
	}

	pending, err := h.organizer.PendingActivities(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to fetch pending activities",
			Message: err.Error(),
		})
		return
	}

	for _, activity := range pending {
		if activity.ID != activityID {
			continue
		}
		schedule := h.aggregator.DecodeSchedule(activity.ScheduleJSON)
		c.JSON(http.StatusOK, gin.H{
			"day":   day,
			"hours": h.aggregator.HoursForDay(schedule, day),
		})
		return
	}

	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: "pending activity not found",
	})
}

type confirmRequest struct {
	ActivityID int `json:"activityId" binding:"required"`
}

// ConfirmActivity подтверждает активность и сбрасывает кэш активностей,
// чтобы следующее чтение ушло в upstream.
func (h *PendingHandler) ConfirmActivity(c *gin.Context) {
	log.Println("PendingHandler - ConfirmActivity")

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := h.organizer.ConfirmActivity(c.Request.Context(), req.ActivityID); err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "failed to confirm activity",
			Message: err.Error(),
		})
		return
	}

	h.cache.InvalidateActivities(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "activity confirmed successfully",
	})
}
