package handlers

import (
	"log"
	"net/http"

	"organizer-api/models"
	"organizer-api/services"

	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	cache *services.CacheManager
}

func NewCacheHandler(cache *services.CacheManager) *CacheHandler {
	return &CacheHandler{cache: cache}
}

type invalidateRequest struct {
	Resources []string `json:"resources"`
}

// InvalidateCache удаляет указанные кэшируемые ресурсы; пустой список
// означает оба. Страницы, меняющие данные, дёргают его после мутаций.
func (h *CacheHandler) InvalidateCache(c *gin.Context) {
	log.Println("CacheHandler - InvalidateCache")

	var req invalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	resources := req.Resources
	if len(resources) == 0 {
		resources = []string{"activities", "user"}
	}

	for _, resource := range resources {
		switch resource {
		case "activities":
			h.cache.InvalidateActivities(c.Request.Context())
		case "user":
			h.cache.InvalidateUser(c.Request.Context())
		default:
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "unknown cache resource: " + resource,
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "cache invalidated successfully",
	})
}
