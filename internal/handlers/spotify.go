package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jukejam/internal/handlers/render"
	"jukejam/internal/services"
)

const noRecentListening = "No recent listening data - auto-suggest will use defaults"

// SpotifyHandler drives the Spotify login flow and profile sync
type SpotifyHandler struct {
	profileService *services.ProfileService
}

// NewSpotifyHandler creates a new Spotify handler
func NewSpotifyHandler(profileService *services.ProfileService) *SpotifyHandler {
	return &SpotifyHandler{profileService: profileService}
}

// Login handles GET /spotify/login by redirecting to the Spotify consent page
func (h *SpotifyHandler) Login(c *gin.Context) {
	url, err := h.profileService.LoginURL()
	if errors.Is(err, services.ErrSpotifyDisabled) {
		render.Error(c, http.StatusServiceUnavailable, "Spotify integration is not configured")
		return
	}
	if err != nil {
		slog.Error("Failed to build Spotify login URL", "error", err)
		render.Error(c, http.StatusInternalServerError, "Failed to start Spotify login")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

// Callback handles GET /callback, where Spotify returns after consent
func (h *SpotifyHandler) Callback(c *gin.Context) {
	if authErr := c.Query("error"); authErr != "" {
		render.Error(c, http.StatusBadRequest, "Spotify auth error: "+authErr)
		return
	}
	code := c.Query("code")
	if code == "" {
		render.Error(c, http.StatusBadRequest, "Missing authorization code")
		return
	}

	user, err := h.profileService.Connect(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		h.callbackError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"spotify_user_id": user.ID,
		"display_name":    user.DisplayName,
		"message":         fmt.Sprintf("Spotify connected! Use /spotify/profile/%s to build your JukeJam profile.", user.ID),
	})
}

func (h *SpotifyHandler) callbackError(c *gin.Context, err error) {
	var pe *services.PlatformError
	switch {
	case errors.Is(err, services.ErrSpotifyDisabled):
		render.Error(c, http.StatusServiceUnavailable, "Spotify integration is not configured")
	case errors.Is(err, services.ErrInvalidState):
		render.Error(c, http.StatusBadRequest, "Invalid or expired state parameter")
	case errors.As(err, &pe) && pe.Operation == "token_exchange":
		slog.Error("Failed to exchange Spotify authorization code", "error", err)
		render.ErrorWithDetails(c, http.StatusBadGateway, "Token exchange failed", err)
	case errors.As(err, &pe):
		slog.Error("Failed to fetch Spotify profile", "error", err)
		render.Error(c, http.StatusBadGateway, "Failed to fetch Spotify profile")
	default:
		slog.Error("Failed to store Spotify token", "error", err)
		render.Error(c, http.StatusInternalServerError, "Failed to store Spotify token")
	}
}

// Profile handles GET /spotify/profile/:spotify_user_id
func (h *SpotifyHandler) Profile(c *gin.Context) {
	spotifyUserID := c.Param("spotify_user_id")

	sync, err := h.profileService.SyncSpotify(c.Request.Context(), spotifyUserID)
	if err != nil {
		h.profileError(c, spotifyUserID, err)
		return
	}

	var timeContext any = sync.TimeContext
	if len(sync.TimeContext) == 0 {
		timeContext = noRecentListening
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"profile":       sync.Profile,
		"time_context":  timeContext,
		"spotify_stats": sync.Stats,
	})
}

func (h *SpotifyHandler) profileError(c *gin.Context, spotifyUserID string, err error) {
	var pe *services.PlatformError
	switch {
	case errors.Is(err, services.ErrSpotifyDisabled):
		render.Error(c, http.StatusServiceUnavailable, "Spotify integration is not configured")
	case errors.Is(err, services.ErrNotConnected):
		render.Error(c, http.StatusNotFound, "User not connected. Visit /spotify/login first.")
	case errors.Is(err, services.ErrTokenExpired):
		render.Error(c, http.StatusUnauthorized, "Spotify token expired. Re-login at /spotify/login")
	case errors.As(err, &pe):
		slog.Error("Failed to sync Spotify profile", "spotify_user_id", spotifyUserID, "error", err)
		render.ErrorWithDetails(c, http.StatusBadGateway, "Spotify API error", err)
	default:
		slog.Error("Failed to sync Spotify profile", "spotify_user_id", spotifyUserID, "error", err)
		render.Error(c, http.StatusInternalServerError, "Failed to build profile")
	}
}
