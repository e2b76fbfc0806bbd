package middleware

import (
	"time"

	"github.com/LovationAdmin/wedding-api/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request once it completed.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		utils.LogAPIRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

// Recovery turns a handler panic into a 500 and logs it.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		utils.SLog.Errorf("💥 panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(500, gin.H{"error": "Internal server error"})
	})
}
