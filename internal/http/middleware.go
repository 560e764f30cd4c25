package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const contextKeyUser = "sessionUser"

// AuthRequired is the session gate: a populated identity snapshot in the
// session is the sole authorization signal. Anonymous requests are redirected
// to the login entry point.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// AdminRequired additionally gates on the admin flag of the acting session
// identity. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sessionUser(c)
		if user == nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware rejects requests over the limiter's window, keyed by
// user id when authenticated and client IP otherwise.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if user := sessionUser(c); user != nil {
			key = user.Username
		}

		if !rl.Allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
