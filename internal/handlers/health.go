package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jukejam/internal/cache"
	"jukejam/internal/repositories"
	"jukejam/internal/search"
)

// HealthHandler reports what was loaded at startup
type HealthHandler struct {
	catalog  *repositories.Catalog
	profiles *repositories.ProfileStore
	contexts *repositories.TimeContextStore
	cache    cache.Cache
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalog *repositories.Catalog, profiles *repositories.ProfileStore, contexts *repositories.TimeContextStore, c cache.Cache) *HealthHandler {
	return &HealthHandler{
		catalog:  catalog,
		profiles: profiles,
		contexts: contexts,
		cache:    c,
	}
}

// Health handles GET /health. A failing cache degrades the status but not the code;
// search and token storage fall back to misses.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, cacheStatus := "ok", "ok"
	if err := h.cache.Health(ctx); err != nil {
		status, cacheStatus = "degraded", err.Error()
	}

	indexKeys := make([]string, 0, len(search.Fields))
	for _, f := range search.Fields {
		indexKeys = append(indexKeys, string(f))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":             status,
		"songs_loaded":       h.catalog.Len(),
		"users_loaded":       h.profiles.Len(),
		"time_context_users": h.contexts.Len(),
		"index_keys":         indexKeys,
		"cache":              cacheStatus,
	})
}
