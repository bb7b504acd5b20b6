// Package render writes the JSON envelopes shared by every handler
package render

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error aborts the request with status and message
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// ErrorWithDetails aborts the request with status, message and the underlying cause
func ErrorWithDetails(c *gin.Context, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}

// BadRequest reports a body that failed to bind
func BadRequest(c *gin.Context, err error) {
	ErrorWithDetails(c, http.StatusBadRequest, "Invalid request body", err)
}

// List writes items as a JSON array, never null
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}
