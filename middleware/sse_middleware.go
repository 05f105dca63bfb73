package middleware

import "github.com/gin-gonic/gin"

// SSEMiddleware prepares a route for a long lived event stream. The
// Content-Type is left to the handler so early errors can still be JSON.
func SSEMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")

		c.Next()
	}
}
