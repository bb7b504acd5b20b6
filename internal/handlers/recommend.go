package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jukejam/internal/handlers/render"
	"jukejam/internal/repositories"
	"jukejam/internal/services"
)

// RecommendHandler handles context-aware recommendation requests
type RecommendHandler struct {
	recommendationService *services.RecommendationService
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(recommendationService *services.RecommendationService) *RecommendHandler {
	return &RecommendHandler{recommendationService: recommendationService}
}

// Recommend handles POST /recommend
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req services.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	render.List(c, h.recommendationService.Recommend(req))
}

// AutoSuggest handles GET /auto-suggest/:user_id
func (h *RecommendHandler) AutoSuggest(c *gin.Context) {
	userID := c.Param("user_id")

	topK := 0
	if raw := c.Query("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			render.ErrorWithDetails(c, http.StatusBadRequest, "Invalid top_k", err)
			return
		}
		topK = n
	}

	suggestion, err := h.recommendationService.AutoSuggest(userID, topK)
	if errors.Is(err, repositories.ErrUserNotFound) {
		render.Error(c, http.StatusNotFound, fmt.Sprintf("User '%s' not found", userID))
		return
	}
	if err != nil {
		_ = c.Error(err)
		render.Error(c, http.StatusInternalServerError, "Failed to build suggestion")
		return
	}

	c.JSON(http.StatusOK, suggestion)
}
