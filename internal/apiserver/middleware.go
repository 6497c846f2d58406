package apiserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tradejournal/internal/observability"
)

// userHeader carries the authenticated user's ID. Authentication itself is
// terminated upstream; this service only requires that an identity arrives
// with every request.
const userHeader = "X-User-ID"

const userKey = "userID"

// requireUser rejects requests without an explicit user identity.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(userHeader))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + userHeader + " header"})
			return
		}
		c.Set(userKey, userID)
		c.Next()
	}
}

// currentUser returns the identity set by requireUser.
func currentUser(c *gin.Context) string {
	return c.GetString(userKey)
}

// requestMetrics records per-route request counts and latency.
func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.RecordHTTPRequest(
			route,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
