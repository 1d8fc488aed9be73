package previewserver

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ngxkit/ngxpreview/internal/logx"
)

func requestIDMiddleware(headerKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerKey))
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(headerKey, id)
		c.Set(headerKey, id)
		c.Next()
	}
}

func requestLoggerWithColor(l *log.Logger, color bool, requestIDHeaderKey string, accessFormatter *logx.AccessLogFormatter) gin.HandlerFunc {
	if l == nil {
		l = log.New(os.Stdout, "", log.LstdFlags)
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		route := strings.TrimSpace(c.GetString(ctxKeyRoute))
		if route == "" {
			route = "default"
		}
		requestID := c.GetString(requestIDHeaderKey)

		if accessFormatter != nil {
			l.Println(accessFormatter.Format(time.Now(), status, latency, c.ClientIP(), c.Request.Method, c.Request.URL.Path, route, requestID, color))
			return
		}
		l.Println(c.Request.Method + " " + c.Request.URL.Path + " -> " + route)
	}
}
