package handlers

import (
	"log"
	"net/http"

	"organizer-api/models"
	"organizer-api/services"

	"github.com/gin-gonic/gin"
)

// Количество ближайших активностей на главной странице
const upcomingLimit = 4

type DashboardHandler struct {
	cache      *services.CacheManager
	organizer  *services.OrganizerService
	aggregator *services.AggregatorService
}

func NewDashboardHandler(cache *services.CacheManager, organizer *services.OrganizerService, aggregator *services.AggregatorService) *DashboardHandler {
	return &DashboardHandler{
		cache:      cache,
		organizer:  organizer,
		aggregator: aggregator,
	}
}

type todayActivity struct {
	models.CalendarActivity
	Color string `json:"color"`
}

type upcomingActivity struct {
	models.Activity
	Color string `json:"color"`
}

// GetDashboard собирает главную страницу: организацию на сегодня,
// отфильтрованную по асигнатурам пользователя, и ближайшие активности.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	log.Println("DashboardHandler - GetDashboard")

	user, ok := h.cache.User(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "no user session cached",
		})
		return
	}

	activities := h.cache.GetActivities(c.Request.Context())

	// Календарь на сегодня: ошибка сети означает пустой день
	today := make([]todayActivity, 0)
	daily, err := h.organizer.DailyCalendar(c.Request.Context())
	if err != nil {
		log.Printf("DashboardHandler - failed to fetch daily calendar: %v", err)
	}
	if daily != nil {
		decoded := h.aggregator.DecodeDay(*daily)
		for _, activity := range h.aggregator.FilterBySubjects(decoded, user.RelatedSubjects) {
			today = append(today, todayActivity{
				CalendarActivity: activity,
				Color:            h.aggregator.Colors().Pick(activity.SubjectName),
			})
		}
	}

	upcoming := make([]upcomingActivity, 0, upcomingLimit)
	for _, activity := range h.aggregator.RelevantActivities(activities, upcomingLimit) {
		upcoming = append(upcoming, upcomingActivity{
			Activity: activity,
			Color:    h.aggregator.Colors().Pick(activity.SubjectName),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"today":    today,
		"upcoming": upcoming,
	})
}
