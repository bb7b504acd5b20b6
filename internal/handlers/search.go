package handlers

import (
	"github.com/gin-gonic/gin"

	"jukejam/internal/handlers/render"
	"jukejam/internal/search"
	"jukejam/internal/services"
)

// SearchHandler handles text search and filter vocabulary lookups
type SearchHandler struct {
	searchService *services.SearchService
	index         *search.Index
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService, index *search.Index) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		index:         index,
	}
}

// Search handles POST /search
func (h *SearchHandler) Search(c *gin.Context) {
	var req services.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err)
		return
	}

	render.List(c, h.searchService.Search(c.Request.Context(), req))
}

// Genres handles GET /genres
func (h *SearchHandler) Genres(c *gin.Context) {
	render.List(c, h.index.Tokens(search.FieldGenre))
}

// Moods handles GET /moods
func (h *SearchHandler) Moods(c *gin.Context) {
	render.List(c, h.index.Tokens(search.FieldMood))
}

// EnergyLevels handles GET /energy-levels
func (h *SearchHandler) EnergyLevels(c *gin.Context) {
	render.List(c, h.index.Tokens(search.FieldEnergy))
}
