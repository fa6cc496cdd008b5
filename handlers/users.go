package handlers

import (
	"log"
	"net/http"
	"strconv"

	"organizer-api/models"
	"organizer-api/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	cache      *services.CacheManager
	aggregator *services.AggregatorService
}

func NewUserHandler(cache *services.CacheManager, aggregator *services.AggregatorService) *UserHandler {
	return &UserHandler{
		cache:      cache,
		aggregator: aggregator,
	}
}

type subjectView struct {
	models.SubjectRef
	Color string `json:"color"`
}

// GetProfile обновляет кэш профиля и отдаёт его вместе с асигнатурами.
// Без userId обновляется тот пользователь, который уже в кэше.
func (h *UserHandler) GetProfile(c *gin.Context) {
	log.Println("UserHandler - GetProfile")

	identityHint := services.RefreshCachedUser
	if raw := c.Query("userId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "invalid userId",
			})
			return
		}
		identityHint = parsed
	}

	h.cache.RefreshUser(c.Request.Context(), identityHint)

	// Перечитываем хранилище: RefreshUser только пишет кэш
	user, ok := h.cache.User(c.Request.Context())
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "no user information available",
		})
		return
	}

	subjects := make([]subjectView, 0, len(user.RelatedSubjects))
	for _, subject := range user.RelatedSubjects {
		subjects = append(subjects, subjectView{
			SubjectRef: subject,
			Color:      h.aggregator.Colors().Pick(subject.SubjectName),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"type":     user.Type,
		"subjects": subjects,
	})
}
