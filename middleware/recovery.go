package middleware

import (
	"log"
	"net/http"
	"os"
	"runtime/debug"

	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

// Recovery downgrades panics to a 500 envelope. The panic value and stack
// are logged, never sent to the client; outside production the stack is
// echoed in the body to ease debugging.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				log.Printf("panic recovered [request_id=%s]: %v\n%s", RequestID(c), err, stack)
				utils.TrackError("panic", "handler")

				if os.Getenv("GO_ENV") != "production" {
					utils.FailWith(c, http.StatusInternalServerError, "",
						"Internal server error", gin.H{"stack": string(stack)})
					return
				}
				utils.InternalError(c, "Internal server error")
			}
		}()
		c.Next()
	}
}
