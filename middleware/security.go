package middleware

import (
	"net/http"

	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimiter caps request bodies before they reach the handlers.
// Requests that declare a larger Content-Length are rejected up front with
// the standard envelope; chunked bodies are cut off by MaxBytesReader once
// they cross the cap.
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.FailWith(c, http.StatusRequestEntityTooLarge,
				utils.CodePayloadTooLarge, "Request body too large",
				gin.H{"maxBytes": maxSize})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
