// Package requestid tags every request with an ID so log lines from one
// request can be correlated.
package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request ID on both the inbound request and the response.
const Header = "X-Request-ID"

const ctxKey = "request_id"

// Middleware reuses the caller-supplied X-Request-ID when present, otherwise
// generates a fresh UUID. The ID is stored on the context and echoed back in
// the response header.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ctxKey, id)
		c.Writer.Header().Set(Header, id)

		c.Next()
	}
}

// Value returns the request ID for the current request, or "" when the
// middleware did not run.
func Value(c *gin.Context) string {
	if v, ok := c.Get(ctxKey); ok {
		if id, isString := v.(string); isString {
			return id
		}
	}
	return ""
}
