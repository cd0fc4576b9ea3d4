package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/orgnotes/orgnotes/internal/types"
	"github.com/orgnotes/orgnotes/internal/utils"
	"go.uber.org/zap"
)

// RequestLogger tags every request with an id and logs it once the handlers return.
// An incoming X-Request-ID is kept.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		requestID := ctx.GetHeader(types.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Set(types.ContextRequestIDKey, requestID)
		ctx.Header(types.RequestIDHeader, requestID)

		ctx.Next()

		fields := []zap.Field{
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID),
		}
		if userID := utils.GetCurrentUserID(ctx); userID != 0 {
			fields = append(fields, zap.Uint("user_id", userID))
		}

		switch status := ctx.Writer.Status(); {
		case status >= 500:
			log.Error("Request", fields...)
		case status >= 400:
			log.Info("Request", fields...)
		default:
			log.Debug("Request", fields...)
		}
	}
}
