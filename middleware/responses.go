package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondOK writes the success envelope. Payload fields are merged next to
// the ok flag so responses keep the flat shape the kiosk client expects.
func RespondOK(c *gin.Context, payload gin.H) {
	out := gin.H{"ok": true}
	for key, value := range payload {
		out[key] = value
	}
	c.JSON(http.StatusOK, out)
}

// RespondErr writes the error envelope with the request's correlation id.
// Extra diagnostic fields are merged in as-is; this is an operator-facing
// tool, so detail is preferred over opacity.
func RespondErr(c *gin.Context, apiErr APIError, message string, extra ...gin.H) {
	out := gin.H{
		"ok":        false,
		"error":     apiErr.Error(),
		"message":   message,
		"requestId": GetRequestID(c),
	}
	for _, fields := range extra {
		for key, value := range fields {
			out[key] = value
		}
	}
	c.AbortWithStatusJSON(statusForAPIError(apiErr), out)
}
