package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every route handler the router mounts
type Handlers struct {
	Search     *SearchHandler
	Recommend  *RecommendHandler
	Users      *UserHandler
	Evaluation *EvaluationHandler
	Spotify    *SpotifyHandler
	Health     *HealthHandler
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(), CORS())

	router.GET("/health", h.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/genres", h.Search.Genres)
	router.GET("/moods", h.Search.Moods)
	router.GET("/energy-levels", h.Search.EnergyLevels)
	router.POST("/search", h.Search.Search)

	router.POST("/recommend", h.Recommend.Recommend)
	router.GET("/auto-suggest/:user_id", h.Recommend.AutoSuggest)

	router.GET("/users", h.Users.ListUsers)
	router.GET("/user/:user_id", h.Users.GetUser)
	router.POST("/user/onboarding", h.Users.Onboard)

	router.GET("/evaluate", h.Evaluation.Evaluate)
	router.GET("/context-shift", h.Evaluation.ContextShift)

	spotify := router.Group("/spotify")
	{
		spotify.GET("/login", h.Spotify.Login)
		spotify.GET("/profile/:spotify_user_id", h.Spotify.Profile)
	}
	// Spotify redirects to the root callback registered with the app
	router.GET("/callback", h.Spotify.Callback)

	return router
}
