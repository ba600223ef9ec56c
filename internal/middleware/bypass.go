package middleware

import "github.com/gin-gonic/gin"

// BypassIndicator stamps every response while OTP bypass mode is active.
// The frontend renders a persistent banner off this header so operators
// can always see that real authentication is disabled.
func BypassIndicator(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if enabled {
			c.Header("X-Otp-Bypass", "active")
		}
		c.Next()
	}
}
