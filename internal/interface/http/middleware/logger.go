package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/bookservice/pkg/tracing"
)

// RequestIDKey gin.Context中请求ID的键
const RequestIDKey = "request_id"

// SlowRequestThreshold 慢请求阈值
const SlowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
//
// 教学要点：
// 1. 每个请求生成唯一的请求ID,通过X-Request-ID返回给客户端
// 2. 客户端已带X-Request-ID时沿用,便于串联上下游日志
// 3. 使用slog结构化输出(方法、路径、状态码、耗时、客户端IP)
// 4. 开启追踪时附带trace_id
//
// DON'T：
// - 记录请求体(可能很大,也可能包含隐私信息)
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 步骤1: 请求ID
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		// 步骤2: 处理请求
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 步骤3: 记录请求信息
		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			attrs = append(attrs, "trace_id", traceID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= 500:
			logger.ErrorContext(ctx, "request", attrs...)
		case latency > SlowRequestThreshold:
			logger.WarnContext(ctx, "slow request", attrs...)
		default:
			logger.InfoContext(ctx, "request", attrs...)
		}
	}
}
