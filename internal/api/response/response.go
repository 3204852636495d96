// Package response holds the JSON envelopes shared by API handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Failure is the error envelope returned for every 4xx/5xx response.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RespondError writes a failure envelope with status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, Failure{Success: false, Message: message})
}

// AbortWithError writes a failure envelope and stops the handler chain.
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Failure{Success: false, Message: message})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Data wraps payload as {"data": payload}.
func Data(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, gin.H{"data": payload})
}
