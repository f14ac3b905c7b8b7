package restapi

import "github.com/gin-gonic/gin"

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func newErrorResponse(c *gin.Context, statusCode int, message, details string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message, Details: details})
}
