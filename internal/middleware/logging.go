// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"parentfacile-go/pkg/log"
)

// RequestLogger 是一个 Gin 中间件，用于记录请求日志。
// 不捕获请求/响应体：本服务的主要流量是 PDF 流与 multipart 上传，
// 缓冲它们会抵消流式传输的内存优势。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 记录请求开始时间
		startTime := time.Now()

		// 处理请求
		c.Next()

		// 计算延迟
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path

		log.Infow("HTTP Request Log",
			"statusCode", statusCode,
			"latency", latency.String(),
			"clientIP", clientIP,
			"method", method,
			"path", path,
			"responseSize", c.Writer.Size(),
		)
	}
}
