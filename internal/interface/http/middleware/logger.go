package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/pkg/tracing"
)

// Logger 访问日志中间件
// 记录:方法、路径、状态码、耗时、客户端IP、TraceID(有追踪时)
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		traceID := tracing.ExtractTraceID(c.Request.Context())
		if traceID != "" {
			log.Printf("[HTTP] %s %s %d %v %s trace_id=%s",
				c.Request.Method, path, c.Writer.Status(), latency, c.ClientIP(), traceID)
		} else {
			log.Printf("[HTTP] %s %s %d %v %s",
				c.Request.Method, path, c.Writer.Status(), latency, c.ClientIP())
		}
	}
}
