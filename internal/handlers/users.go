package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"jukejam/internal/handlers/render"
	"jukejam/internal/repositories"
	"jukejam/internal/services"
)

// UserHandler handles profile lookups and onboarding
type UserHandler struct {
	profiles       *repositories.ProfileStore
	profileService *services.ProfileService
}

// NewUserHandler creates a new user handler
func NewUserHandler(profiles *repositories.ProfileStore, profileService *services.ProfileService) *UserHandler {
	return &UserHandler{
		profiles:       profiles,
		profileService: profileService,
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	profiles := h.profiles.List()
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	render.List(c, ids)
}

// GetUser handles GET /user/:user_id
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("user_id")

	profile, err := h.profiles.Get(userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		render.Error(c, http.StatusNotFound, fmt.Sprintf("User '%s' not found", userID))
		return
	}
	if err != nil {
		_ = c.Error(err)
		render.Error(c, http.StatusInternalServerError, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Onboard handles POST /user/onboarding
func (h *UserHandler) Onboard(c *gin.Context) {
	var req services.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	profile := h.profileService.Onboard(req)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "user_id": profile.UserID})
}
