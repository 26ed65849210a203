package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// logRequest is gin middleware logging one line per request.
func logRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infof("%s -- %s -- %s -- %d -- %s", c.ClientIP(), c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func logAndReturnError(c *gin.Context, code int, body any, consoleStr string) {
	log.Errorln(consoleStr)
	c.JSON(code, body)
}
