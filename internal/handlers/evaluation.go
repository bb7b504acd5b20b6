package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jukejam/internal/handlers/render"
	"jukejam/internal/services"
)

// noProfilesMessage is returned with 200 when there is nobody to evaluate
const noProfilesMessage = "No user profiles loaded"

// EvaluationHandler exposes the offline ranking checks
type EvaluationHandler struct {
	evaluationService *services.EvaluationService
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluationService *services.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService}
}

// Evaluate handles GET /evaluate
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	report, err := h.evaluationService.Evaluate()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ContextShift handles GET /context-shift
func (h *EvaluationHandler) ContextShift(c *gin.Context) {
	report, err := h.evaluationService.ContextShift()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *EvaluationHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNoProfiles) {
		c.JSON(http.StatusOK, render.ErrorResponse{Error: noProfilesMessage})
		return
	}
	_ = c.Error(err)
	render.Error(c, http.StatusInternalServerError, "Evaluation failed")
}
