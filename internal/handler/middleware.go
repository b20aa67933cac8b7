package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader はリクエストIDを受け渡すヘッダー名です
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey はgin.ContextにリクエストIDを保存するキーです
	RequestIDKey = "request_id"
)

// RequestLogger はリクエストIDを付与し、アクセスログをzapで出力するミドルウェアを返します。
// クライアントがX-Request-IDを送った場合はその値を引き継ぐ。
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("HTTP").Sugar()

	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Errorw("Request completed", fields...)
		case status >= 400:
			log.Warnw("Request completed", fields...)
		default:
			log.Infow("Request completed", fields...)
		}
	}
}
